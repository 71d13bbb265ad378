package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newScanCmd(app *App) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Run one scan cycle now",
		RunE: func(cmd *cobra.Command, args []string) error {
			defer app.close()

			var err error
			if force {
				err = app.Screener.RunBypassingWindow(cmd.Context())
			} else {
				err = app.Screener.Run(cmd.Context())
			}
			if err != nil {
				return err
			}

			fmt.Println("Scan completed.")
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "scan even outside the premarket window")
	return cmd
}
