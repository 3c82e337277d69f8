package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nekogravitycat/padel-booking-backend/internal/config"
	"github.com/nekogravitycat/padel-booking-backend/internal/db"
	"github.com/nekogravitycat/padel-booking-backend/internal/pkg/logger"
)

var (
	verbose bool
	cfg     *config.Config
	log     *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "padelctl",
	Short: "Operator commands for the padel booking backend",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.LoadTooling()
		if err != nil {
			return err
		}
		cfg = loaded

		log, err = logger.New(cfg.IsProduction && !verbose)
		if err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if log != nil {
			_ = log.Sync()
		}
	},
	SilenceUsage: true,
}

func Execute() {
	rootCmd.AddCommand(schemaCmd())
	rootCmd.AddCommand(seedCmd())
	rootCmd.AddCommand(adminCmd())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Human readable debug output")
}

// connect opens the database named by DB_DSN.
func connect(ctx context.Context) (*pgxpool.Pool, error) {
	pool, err := db.NewPool(ctx, cfg.DBDSN, db.PoolOptions{MaxConns: 2, ConnectRetry: cfg.DBConnectRetries})
	if err != nil {
		return nil, err
	}
	return pool, nil
}
