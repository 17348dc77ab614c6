package cmd

import (
	"fmt"

	"cash-flow/internal/database"
	"cash-flow/internal/logger"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE:  runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(_ *cobra.Command, _ []string) error {
	rt, err := bootstrap()
	if err != nil {
		return err
	}
	defer rt.Close()

	if err := database.AutoMigrate(rt.db); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}
	logger.Component(rt.log, logger.ComponentStore).Info("schema up to date", "driver", rt.cfg.Database.Driver)
	return nil
}
