// Command kioskctl runs back office chores against the kiosk database:
// migrations, first-run bootstrap, and balance/profit reports.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/SscSPs/exchange_kiosk_app/internal/core/ports/services"
	coresvc "github.com/SscSPs/exchange_kiosk_app/internal/core/services"
	"github.com/SscSPs/exchange_kiosk_app/internal/platform/config"
	"github.com/SscSPs/exchange_kiosk_app/internal/repositories/database/pgsql"
	"github.com/SscSPs/exchange_kiosk_app/pkg/database"
)

var (
	cfg    *config.Config
	logger *slog.Logger
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "kioskctl",
	Short:         "Exchange kiosk back office tool",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := slog.LevelWarn
		if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
			level = slog.LevelDebug
		}
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
		slog.SetDefault(logger)

		var err error
		cfg, err = config.LoadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "log debug output to stderr")

	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(bootstrapCmd)
	rootCmd.AddCommand(balancesCmd)
	rootCmd.AddCommand(reportCmd)
}

// app is the service graph a command works with.
type app struct {
	pool     *pgxpool.Pool
	services *services.ServiceContainer
}

func (a *app) Close() {
	a.services.History.Close()
	database.ClosePgxPool(a.pool)
}

func openApp(ctx context.Context) (*app, error) {
	pool, err := database.NewPgxPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	container := coresvc.NewServiceContainer(cfg, pgsql.NewRepositoryProvider(pool))
	return &app{pool: pool, services: container}, nil
}
