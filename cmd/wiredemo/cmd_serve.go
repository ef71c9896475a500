package main

import (
	"github.com/spf13/cobra"
)

// wiredemo serve: wire the example and serve the inspection endpoints until
// interrupted.
func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Wire the shop example and serve the container over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newShopApp(cmd)
			if err != nil {
				return err
			}

			app.Cfg.Inspect.Enabled = true
			if cmd.Flags().Changed("port") {
				app.Cfg.Inspect.Port, _ = cmd.Flags().GetInt("port")
			}
			return app.Run(cmd.Context())
		},
	}
	cmd.Flags().Int("port", 9090, "inspection server port")
	return cmd
}
