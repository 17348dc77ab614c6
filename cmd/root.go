package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"cash-flow/internal/config"
	"cash-flow/internal/database"
	"cash-flow/internal/logger"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var flagConfig string

var rootCmd = &cobra.Command{
	Use:           "cash-flow",
	Short:         "Personal cash-flow tracker",
	Long:          "Record income and expenses, watch a daily spending limit and serve the mobile relay and JSON API.",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runServe,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagConfig, "config", "c", "", "Path to the YAML config file (default ./config.yaml when present)")
}

// runtime bundles what every command opens at startup.
type runtime struct {
	cfg    *config.Config
	log    *slog.Logger
	db     *gorm.DB
	closer io.Closer
}

func (r *runtime) Close() {
	if r.db != nil {
		_ = database.Close(r.db)
	}
	if r.closer != nil {
		_ = r.closer.Close()
	}
}

// bootstrap loads config, builds the logger and opens the database.
func bootstrap() (*runtime, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	log, closer, err := logger.New(cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	slog.SetDefault(log)

	db, err := database.Init(cfg.Database)
	if err != nil {
		_ = closer.Close()
		return nil, fmt.Errorf("init database: %w", err)
	}

	return &runtime{cfg: cfg, log: log, db: db, closer: closer}, nil
}
