// Package cli provides the command-line interface for the screener.
package cli

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"premarket-screener/internal/config"
	"premarket-screener/internal/logging"
	"premarket-screener/internal/market"
	"premarket-screener/internal/notify"
	"premarket-screener/internal/screener"
	"premarket-screener/internal/store"
)

// Version information
const Version = "0.1.0"

// App holds the application dependencies.
type App struct {
	Config   *config.Config
	Logger   zerolog.Logger
	Source   market.DataSource
	Notifier notify.Notifier
	Journal  store.Journal
	Screener *screener.Screener
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// NewRootCmd creates the root command for the CLI.
func NewRootCmd() *cobra.Command {
	app := &App{}

	rootCmd := &cobra.Command{
		Use:   "screener",
		Short: "Premarket gap screener with Telegram alerts",
		Long: `Premarket Screener polls a market-data provider during premarket hours,
filters for low-priced stocks with unusual gap and volume behavior, and
pushes alerts to Telegram. Symbols already alerted are not repeated, and a
rollup summary goes out once per hour.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			configDir, _ := cmd.Flags().GetString("config")
			cfg, err := config.Load(configDir)
			if err != nil {
				return err
			}
			app.Config = cfg

			logCfg := logging.DefaultLogConfig()
			if debug, _ := cmd.Flags().GetBool("debug"); debug {
				logCfg.Level = "debug"
			}
			app.Logger = logging.NewLoggerWithConfig(logCfg)

			return app.wire()
		},
	}

	rootCmd.PersistentFlags().String("config", "", "config directory (default: ~/.config/premarket-screener)")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")

	rootCmd.AddCommand(newServeCmd(app))
	rootCmd.AddCommand(newScanCmd(app))
	rootCmd.AddCommand(newAlertsCmd(app))
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

// wire builds the data source, notifier, journal and screener from config.
func (app *App) wire() error {
	cfg := app.Config

	switch cfg.Provider.Name {
	case "yahoo":
		app.Source = market.NewYahooSource(cfg.Provider.Symbols)
	default:
		if cfg.Provider.FinnhubAPIKey == "" {
			app.Logger.Warn().Msg("No Finnhub API key configured; provider calls will be rejected")
		}
		app.Source = market.NewFinnhubSource(market.FinnhubConfig{
			APIKey: cfg.Provider.FinnhubAPIKey,
		})
	}

	app.Notifier = notify.NewMultiNotifier(&cfg.Notifications)

	if cfg.Journal.Path != "" {
		journal, err := store.NewSQLiteJournal(cfg.Journal.Path)
		if err != nil {
			app.Logger.Warn().Err(err).Msg("Failed to open alert journal, continuing without it")
		} else {
			app.Journal = journal
		}
	}

	window := screener.NewWindow(cfg.Scan.Timezone, cfg.Scan.WindowOpenHour, cfg.Scan.WindowCloseHour)
	tracker := screener.NewTracker(screener.EpochPolicy(cfg.Scan.EpochPolicy), cfg.Scan.SummaryWindowMinutes)

	app.Screener = screener.New(screener.Options{
		Window:           window,
		Source:           app.Source,
		Criteria:         screener.CriteriaFromConfig(cfg.Screen),
		Tracker:          tracker,
		Notifier:         app.Notifier,
		Journal:          app.Journal,
		Logger:           app.Logger,
		SnapshotTimeout:  durationSeconds(cfg.Scan.SnapshotTimeoutSeconds),
		FetchConcurrency: cfg.Scan.FetchConcurrency,
	})

	return nil
}

// close releases resources held by the app.
func (app *App) close() {
	if app.Journal != nil {
		if err := app.Journal.Close(); err != nil {
			app.Logger.Warn().Err(err).Msg("Closing journal failed")
		}
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("premarket-screener %s\n", Version)
		},
	}
}
