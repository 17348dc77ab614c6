package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad_FileAndDefaults(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 8080
jwt:
  secret: test-secret
security:
  encryption_key: test-key
app:
  timezone: UTC
  lookback_days: 14
`)

	c, err := load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if c.Server.Port != 8080 {
		t.Errorf("port = %d, want 8080", c.Server.Port)
	}
	if c.App.LookbackDays != 14 {
		t.Errorf("lookback_days = %d, want 14", c.App.LookbackDays)
	}
	// untouched sections keep their defaults
	if c.Database.Driver != "sqlite" {
		t.Errorf("driver = %q, want sqlite", c.Database.Driver)
	}
	if c.JWT.ExpireHours != 720 {
		t.Errorf("expire_hours = %d, want 720", c.JWT.ExpireHours)
	}
	if c.Scheduler.SessionPurgeSpec != "@hourly" {
		t.Errorf("session_purge_spec = %q", c.Scheduler.SessionPurgeSpec)
	}
	if c.Location().String() != "UTC" {
		t.Errorf("location = %s, want UTC", c.Location())
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	path := writeConfig(t, "jwt:\n  secret: from-file\nsecurity:\n  encryption_key: k\n")
	t.Setenv("CFL_JWT_SECRET", "from-env")
	t.Setenv("CFL_SERVER_PORT", "9100")

	c, err := load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.JWT.Secret != "from-env" {
		t.Errorf("secret = %q, want from-env", c.JWT.Secret)
	}
	if c.Server.Port != 9100 {
		t.Errorf("port = %d, want 9100", c.Server.Port)
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	if _, err := load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing explicit config file")
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Server:   ServerConfig{Port: 3000},
			Database: DatabaseConfig{Driver: "sqlite", Path: "x.db"},
			JWT:      JWTConfig{Secret: "s", ExpireHours: 1},
			Security: SecurityConfig{EncryptionKey: "k"},
			App:      AppSubConfig{Timezone: "UTC"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"ok", func(c *Config) {}, ""},
		{"bad port", func(c *Config) { c.Server.Port = 0 }, "invalid server port"},
		{"bad driver", func(c *Config) { c.Database.Driver = "mysql" }, "invalid database driver"},
		{"postgres without dsn", func(c *Config) { c.Database.Driver = "postgres" }, "dsn is required"},
		{"no secret", func(c *Config) { c.JWT.Secret = "" }, "jwt secret is required"},
		{"no encryption key", func(c *Config) { c.Security.EncryptionKey = "" }, "encryption_key is required"},
		{"bad timezone", func(c *Config) { c.App.Timezone = "Mars/Base" }, "invalid app timezone"},
		{"bad amqp scheme", func(c *Config) {
			c.Notify.AMQPURL = "http://broker"
			c.Notify.Exchange = "x"
		}, "amqp or amqps"},
	}

	for _, tt := range tests {
		c := valid()
		tt.mutate(c)
		err := c.Validate()
		if tt.wantErr == "" {
			if err != nil {
				t.Errorf("[%s] unexpected error: %v", tt.name, err)
			}
			continue
		}
		if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
			t.Errorf("[%s] error = %v, want containing %q", tt.name, err, tt.wantErr)
		}
	}
}

func TestValidate_CollectsAllProblems(t *testing.T) {
	c := &Config{Database: DatabaseConfig{Driver: "sqlite"}, App: AppSubConfig{Timezone: "UTC"}}
	err := c.Validate()
	if err == nil {
		t.Fatal("expected error")
	}
	msg := err.Error()
	for _, want := range []string{"invalid server port", "database path", "jwt secret", "encryption_key"} {
		if !strings.Contains(msg, want) {
			t.Errorf("missing %q in %q", want, msg)
		}
	}
}
