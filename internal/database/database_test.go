package database

import (
	"path/filepath"
	"testing"

	"cash-flow/internal/config"
	"cash-flow/internal/models"
)

func TestInitAndMigrate_SQLite(t *testing.T) {
	cfg := config.DatabaseConfig{
		Driver: "sqlite",
		Path:   filepath.Join(t.TempDir(), "nested", "test.db"),
	}

	db, err := Init(cfg)
	if err != nil {
		t.Fatalf("init: %v", err)
	}
	defer Close(db)

	if err := AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	for _, table := range []string{"custom_users", "cash_flows", "planning", "daily_expenses", "sessions", "audit_logs"} {
		if !db.Migrator().HasTable(table) {
			t.Errorf("table %s missing after migrate", table)
		}
	}

	// the user-chosen date lives in created_at
	if !db.Migrator().HasColumn(&models.CashFlow{}, "created_at") {
		t.Error("cash_flows.created_at missing")
	}
	if !db.Migrator().HasIndex(&models.CashFlow{}, "idx_cash_flows_email_date") {
		t.Error("cash_flows email/date index missing")
	}
}

func TestInit_UnknownDriver(t *testing.T) {
	if _, err := Init(config.DatabaseConfig{Driver: "mysql"}); err == nil {
		t.Fatal("expected error for unsupported driver")
	}
}
