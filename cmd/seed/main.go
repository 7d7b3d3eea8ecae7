// Command seed fills the configured store with synthetic clients.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/maxviazov/clients-service/internal/config"
	"github.com/maxviazov/clients-service/internal/logger"
	"github.com/maxviazov/clients-service/internal/seed"
	"github.com/maxviazov/clients-service/internal/storage"
)

func newRootCmd() *cobra.Command {
	var (
		cfgFile string
		opts    = seed.Options{Count: seed.DefaultCount, BatchSize: seed.DefaultBatchSize}
	)

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Insert synthetic clients into the configured store",
		Long: `seed bulk-loads fake clients with realistic names, salaries and company values.

Connection settings come from the same config file and APP_* / DB_* environment
variables the server uses.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgFile)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			log, err := logger.New(&cfg.Logger)
			if err != nil {
				return fmt.Errorf("failed to init logger: %w", err)
			}

			ctx := cmd.Context()
			store, err := storage.Open(ctx, cfg, log)
			if err != nil {
				return err
			}
			defer store.Close()

			n, err := seed.New(store.Clients, store.Tx, log).Run(ctx, opts)
			if err != nil {
				return fmt.Errorf("seeding stopped after %d rows: %w", n, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "🎉 inserted %d clients\n", n)
			return nil
		},
	}

	cmd.Flags().StringVar(&cfgFile, "config", "config.yaml", "config file (empty for env only)")
	cmd.Flags().IntVarP(&opts.Count, "count", "n", opts.Count, "number of clients to insert")
	cmd.Flags().IntVar(&opts.BatchSize, "batch-size", opts.BatchSize, "rows per transaction")
	cmd.Flags().Uint64Var(&opts.Seed, "seed", 0, "random seed for reproducible data (0 = random)")
	return cmd
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "❌", err)
		os.Exit(1)
	}
}
