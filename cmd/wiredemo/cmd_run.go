package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kbukum/wirekit/bootstrap"
	"github.com/kbukum/wirekit/di"
)

// wiredemo run: wire the example, print the report and an invoice, exit.
func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Wire the shop example and print its report",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newShopApp(cmd)
			if err != nil {
				return err
			}

			return app.RunTask(cmd.Context(), func(ctx context.Context) error {
				billing, err := di.Resolve[*BillingService](app.Container, "billingService")
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), billing.Invoice("A-1001"))
				return nil
			})
		},
	}
}

// newShopApp builds the app for the configured strategy. Eager apps construct
// the example in a configure callback; scan apps find it in the catalog.
func newShopApp(cmd *cobra.Command, opts ...bootstrap.Option) (*bootstrap.App[*bootstrap.Config], error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	out := cmd.OutOrStdout()
	opts = append([]bootstrap.Option{
		bootstrap.WithCatalog(shopCatalog(out)),
		bootstrap.WithSummaryOutput(cmd.ErrOrStderr()),
	}, opts...)

	app, err := bootstrap.NewApp(cfg, opts...)
	if err != nil {
		return nil, err
	}

	if app.Container.Strategy() == di.StrategyEager {
		app.OnConfigure(func(ctx context.Context, a *bootstrap.App[*bootstrap.Config]) error {
			return constructShop(out)
		})
	}
	return app, nil
}
