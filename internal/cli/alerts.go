package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newAlertsCmd(app *App) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "alerts",
		Short: "Show recently journaled alerts",
		RunE: func(cmd *cobra.Command, args []string) error {
			defer app.close()

			if app.Journal == nil {
				return fmt.Errorf("no alert journal configured (set journal.path in config.toml)")
			}

			records, err := app.Journal.RecentAlerts(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(records) == 0 {
				fmt.Println("No journaled alerts.")
				return nil
			}

			for _, rec := range records {
				line := fmt.Sprintf("%s  $%-6s $%.2f %+.1f%% vol %d",
					rec.SentAt.Local().Format("2006-01-02 15:04"),
					rec.Symbol, rec.Price, rec.PercentChange, rec.Volume)
				if rec.RelativeVolume != nil {
					line += fmt.Sprintf(" relvol %.2f", *rec.RelativeVolume)
				}
				line += fmt.Sprintf(" cap $%.1fM", rec.MarketCapMillions)
				fmt.Println(line)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "maximum number of alerts to show")
	return cmd
}
