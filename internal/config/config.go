package config

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type ServerConfig struct {
	Address     string        `mapstructure:"address"`
	Port        int           `mapstructure:"port"`
	Mode        string        `mapstructure:"mode"`
	CORSOrigins []string      `mapstructure:"cors_origins"`
	ReadTimeout time.Duration `mapstructure:"read_timeout"`
}

type DatabaseConfig struct {
	Driver       string `mapstructure:"driver"` // sqlite / postgres
	Path         string `mapstructure:"path"`
	DSN          string `mapstructure:"dsn"`
	LogMode      bool   `mapstructure:"log_mode"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
}

type JWTConfig struct {
	Secret      string `mapstructure:"secret"`
	Issuer      string `mapstructure:"issuer"`
	ExpireHours int    `mapstructure:"expire_hours"`
}

type SecurityConfig struct {
	BcryptCost    int    `mapstructure:"bcrypt_cost"`
	EncryptionKey string `mapstructure:"encryption_key"`
}

type LogConfig struct {
	File   string `mapstructure:"file"`
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // text / json
}

type AppSubConfig struct {
	Timezone        string `mapstructure:"timezone"`
	LookbackDays    int    `mapstructure:"lookback_days"`
	DefaultLanguage string `mapstructure:"default_language"`
}

// NotifyConfig controls where over-limit alerts go. An empty AMQPURL keeps
// alerts in the application log only.
type NotifyConfig struct {
	AMQPURL        string        `mapstructure:"amqp_url"`
	Exchange       string        `mapstructure:"exchange"`
	RoutingKey     string        `mapstructure:"routing_key"`
	PublishTimeout time.Duration `mapstructure:"publish_timeout"`
}

type SchedulerConfig struct {
	Enabled          bool   `mapstructure:"enabled"`
	LimitResetSpec   string `mapstructure:"limit_reset_spec"`
	SessionPurgeSpec string `mapstructure:"session_purge_spec"`
}

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	JWT       JWTConfig       `mapstructure:"jwt"`
	Security  SecurityConfig  `mapstructure:"security"`
	Log       LogConfig       `mapstructure:"log"`
	App       AppSubConfig    `mapstructure:"app"`
	Notify    NotifyConfig    `mapstructure:"notify"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
}

var (
	appConfig *Config
	once      sync.Once
)

// Load loads configuration from given file path (e.g. "config.yaml").
// If path is empty, "config.yaml" in the working directory is used when present;
// otherwise defaults and environment variables apply.
func Load(path string) (*Config, error) {
	var err error
	once.Do(func() {
		var c *Config
		c, err = load(path)
		if err != nil {
			return
		}
		appConfig = c
	})

	if err != nil {
		return nil, err
	}
	return appConfig, nil
}

// Get returns the loaded global configuration.
// Call Load() once at application startup.
func Get() *Config {
	return appConfig
}

func load(path string) (*Config, error) {
	// .env is optional; real environment variables win over it
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	if path == "" {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	} else {
		v.SetConfigFile(path)
	}

	// environment overrides, e.g. CFL_SERVER_PORT=9000
	v.SetEnvPrefix("CFL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.address", "0.0.0.0")
	v.SetDefault("server.port", 3000)
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.cors_origins", []string{"*"})
	v.SetDefault("server.read_timeout", 10*time.Second)

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.path", "./data/cash-flow.db")
	v.SetDefault("database.dsn", "")
	v.SetDefault("database.log_mode", false)
	v.SetDefault("database.max_open_conns", 10)

	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.issuer", "cash-flow")
	v.SetDefault("jwt.expire_hours", 30*24)

	v.SetDefault("security.bcrypt_cost", 12)
	v.SetDefault("security.encryption_key", "")

	v.SetDefault("log.file", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("app.timezone", "Local")
	v.SetDefault("app.lookback_days", 7)
	v.SetDefault("app.default_language", "en")

	v.SetDefault("notify.amqp_url", "")
	v.SetDefault("notify.exchange", "cash-flow")
	v.SetDefault("notify.routing_key", "limit.exceeded")
	v.SetDefault("notify.publish_timeout", 5*time.Second)

	v.SetDefault("scheduler.enabled", true)
	v.SetDefault("scheduler.limit_reset_spec", "1 0 * * *")
	v.SetDefault("scheduler.session_purge_spec", "@hourly")
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var problems []string

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		problems = append(problems, fmt.Sprintf("invalid server port %d: must be between 1 and 65535", c.Server.Port))
	}

	switch c.Database.Driver {
	case "sqlite":
		if c.Database.Path == "" {
			problems = append(problems, "database path cannot be empty when using the sqlite driver")
		}
	case "postgres":
		if c.Database.DSN == "" {
			problems = append(problems, "database dsn is required when using the postgres driver")
		}
	default:
		problems = append(problems, fmt.Sprintf("invalid database driver '%s': must be sqlite or postgres", c.Database.Driver))
	}

	if c.JWT.Secret == "" {
		problems = append(problems, "jwt secret is required")
	}
	if c.Security.EncryptionKey == "" {
		problems = append(problems, "security encryption_key is required")
	}
	if c.JWT.ExpireHours <= 0 {
		problems = append(problems, fmt.Sprintf("invalid jwt expire_hours %d", c.JWT.ExpireHours))
	}

	if _, err := time.LoadLocation(c.App.Timezone); err != nil {
		problems = append(problems, fmt.Sprintf("invalid app timezone '%s': %v", c.App.Timezone, err))
	}
	if c.App.LookbackDays < 0 {
		problems = append(problems, fmt.Sprintf("invalid app lookback_days %d", c.App.LookbackDays))
	}

	if c.Notify.AMQPURL != "" {
		if !strings.HasPrefix(c.Notify.AMQPURL, "amqp://") && !strings.HasPrefix(c.Notify.AMQPURL, "amqps://") {
			problems = append(problems, "notify amqp_url must use the amqp or amqps scheme")
		}
		if c.Notify.Exchange == "" {
			problems = append(problems, "notify exchange cannot be empty when amqp_url is set")
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(problems, "\n- "))
	}
	return nil
}

// Location resolves the configured timezone used for calendar dates.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.App.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// TokenTTL is the lifetime of a login session.
func (c *Config) TokenTTL() time.Duration {
	return time.Duration(c.JWT.ExpireHours) * time.Hour
}
