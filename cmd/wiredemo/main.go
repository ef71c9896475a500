package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kbukum/wirekit/bootstrap"
	"github.com/kbukum/wirekit/config"
	"github.com/kbukum/wirekit/version"
)

const appName = "wiredemo"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           appName,
		Short:         "wiredemo: wire the shop example with wirekit",
		Long:          "wiredemo wires OrderService, BillingService and ReportController with either the scan or the eager strategy.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().String("config", "", "config file (default: search ./config.yml and ./cmd/wiredemo/config.yml)")
	root.PersistentFlags().String("env-file", "", ".env file")
	root.PersistentFlags().String("strategy", "", "wiring strategy: scan or eager (overrides config)")
	root.PersistentFlags().StringSlice("namespace", nil, "namespaces to scan (overrides config)")

	root.AddCommand(newRunCmd())
	root.AddCommand(newServeCmd())
	root.AddCommand(newVersionCmd())
	return root
}

// loadConfig reads config files and WIREKIT_* variables, then applies flag
// overrides.
func loadConfig(cmd *cobra.Command) (*bootstrap.Config, error) {
	configFile, _ := cmd.Flags().GetString("config")
	envFile, _ := cmd.Flags().GetString("env-file")

	cfg := &bootstrap.Config{}
	err := config.LoadConfig(appName, cfg,
		config.WithConfigFile(configFile),
		config.WithEnvFile(envFile),
		config.WithEnvPrefix("WIREKIT"),
		config.WithDefault("name", appName),
		config.WithDefault("container.namespaces", []string{"reports"}),
	)
	if err != nil {
		return nil, err
	}

	if cmd.Flags().Changed("strategy") {
		cfg.Container.Strategy, _ = cmd.Flags().GetString("strategy")
	}
	if cmd.Flags().Changed("namespace") {
		cfg.Container.Namespaces, _ = cmd.Flags().GetStringSlice("namespace")
	}
	if cfg.Version == "" {
		cfg.Version = version.Get().String()
	}
	return cfg, nil
}
