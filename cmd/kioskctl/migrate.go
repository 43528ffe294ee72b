package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/SscSPs/exchange_kiosk_app/pkg/database"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("path")
		if path == "" {
			path = cfg.MigrationsPath
		}
		if err := database.RunMigrations(cfg.DatabaseURL, path, logger); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "migrations are up to date")
		return nil
	},
}

func init() {
	migrateCmd.Flags().String("path", "", "migrations source URL (default: MIGRATIONS_PATH)")
}
