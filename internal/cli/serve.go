package cli

import (
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"premarket-screener/internal/screener"
	"premarket-screener/internal/server"
)

func durationSeconds(n int) time.Duration {
	return time.Duration(n) * time.Second
}

func newServeCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the scheduler and HTTP surface until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			defer app.close()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			sched := screener.NewScheduler(app.Screener, durationSeconds(app.Config.Scan.IntervalSeconds), app.Logger)
			if err := sched.Start(); err != nil {
				return err
			}
			defer sched.Stop()

			keepalive := server.NewKeepalive(
				app.Config.Server.KeepaliveURL,
				durationSeconds(app.Config.Server.KeepaliveIntervalSeconds),
				app.Logger,
			)
			keepalive.Start(ctx)

			srv := server.New(app.Screener, app.Config.Server.Port, app.Logger)
			return srv.Run(ctx)
		},
	}
}
