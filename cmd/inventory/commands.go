package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/drstein77/inventory/internal/app"
	"github.com/drstein77/inventory/internal/catalog"
	"github.com/drstein77/inventory/internal/config"
	"github.com/drstein77/inventory/internal/report"
)

const shutdownTimeout = 5 * time.Second

func newRootCmd() *cobra.Command {
	options := config.NewOptions()
	envFile := ".env"

	// .env has to be loaded before flags are registered, since it feeds their defaults.
	if path := envFileFromArgs(os.Args[1:]); path != "" {
		envFile = path
	}
	if err := options.LoadEnv(envFile); err != nil {
		fmt.Fprintf(os.Stderr, "load %s: %v\n", envFile, err)
	}

	root := &cobra.Command{
		Use:           "inventory",
		Short:         "In-memory inventory catalog with discounts, filters and category tallies",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&envFile, "env-file", envFile, "file with environment variables")
	options.RegisterFlags(root.PersistentFlags())

	root.AddCommand(newDemoCmd(options), newServeCmd(options))
	return root
}

func newDemoCmd(options *config.Options) *cobra.Command {
	defaults := report.DefaultOptions()
	var (
		category   = defaults.Category.String()
		percentage = defaults.Percentage
		threshold  = defaults.Threshold
	)

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Print the catalog, apply a discount, filter and tally it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cat, err := catalog.ParseCategory(category)
			if err != nil {
				return err
			}
			return app.RunDemo(cmd.OutOrStdout(), options, report.Options{
				Category:   cat,
				Percentage: percentage,
				Threshold:  threshold,
			})
		},
	}
	cmd.Flags().StringVar(&category, "category", category, "category to discount")
	cmd.Flags().Float64Var(&percentage, "percentage", percentage, "discount percentage, 0 to 100")
	cmd.Flags().Float64Var(&threshold, "threshold", threshold, "list items priced above this value")
	return cmd
}

func newServeCmd(options *config.Options) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the catalog over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			server, err := app.NewServer(ctx, options)
			if err != nil {
				return err
			}

			signalCh := make(chan os.Signal, 1)
			signal.Notify(signalCh, os.Interrupt, syscall.SIGTERM)
			defer signal.Stop(signalCh)

			go func() {
				select {
				case sig := <-signalCh:
					server.Log.Info("Received signal", zap.Stringer("signal", sig))
					server.Shutdown(shutdownTimeout)
					cancel()
				case <-ctx.Done():
				}
			}()

			if err := server.Serve(); err != nil {
				server.Shutdown(shutdownTimeout)
				return err
			}
			return nil
		},
	}
}

// envFileFromArgs finds --env-file ahead of cobra's own parsing.
func envFileFromArgs(args []string) string {
	for i, arg := range args {
		switch {
		case arg == "--env-file" && i+1 < len(args):
			return args[i+1]
		case strings.HasPrefix(arg, "--env-file="):
			return strings.TrimPrefix(arg, "--env-file=")
		}
	}
	return ""
}
