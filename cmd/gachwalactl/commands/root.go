package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/gachwala/storefront/internal/config"
	"github.com/gachwala/storefront/internal/repository"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "gachwalactl",
	Short: "Operations tool for the Gachwala storefront",
	Long: `gachwalactl runs one-off maintenance tasks against the store configured
through the environment (STORE_DRIVER, DB_*, MONGODB_*, REDIS_*).

Commands:
  migrate              - Apply the schema or indexes
  seed                 - Replace the catalog from JSON files
  create-master-admin  - Bootstrap the single master admin`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	},
}

// Execute runs the root command
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
}

func openBackend(ctx context.Context) (*config.Config, *repository.Backend, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	backend, err := repository.Open(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	slog.Debug("connected to store", "driver", backend.Driver)
	return cfg, backend, nil
}
