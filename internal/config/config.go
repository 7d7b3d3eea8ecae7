package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/maxviazov/clients-service/internal/logger"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	App      AppConfig           `mapstructure:"app"`
	HTTP     HTTPConfig          `mapstructure:"http"`
	Logger   logger.LoggerConfig `mapstructure:"logger"`
	Store    StoreConfig         `mapstructure:"store"`
	Postgres PostgresConfig      `mapstructure:"postgres"`
	CORS     CORSConfig          `mapstructure:"cors"`
	Metrics  MetricsConfig       `mapstructure:"metrics"`
	Docs     DocsConfig          `mapstructure:"docs"`
}

type AppConfig struct {
	Name    string `mapstructure:"name"`
	Version string `mapstructure:"version"`
	Env     string `mapstructure:"env"`
}

// HTTPConfig timeouts are whole seconds.
type HTTPConfig struct {
	Port            int `mapstructure:"port" validate:"min=1,max=65535"`
	ReadTimeout     int `mapstructure:"read_timeout" validate:"gte=0"`
	WriteTimeout    int `mapstructure:"write_timeout" validate:"gte=0"`
	IdleTimeout     int `mapstructure:"idle_timeout" validate:"gte=0"`
	ShutdownTimeout int `mapstructure:"shutdown_timeout" validate:"gte=0"`
}

func (h HTTPConfig) Addr() string                 { return fmt.Sprintf(":%d", h.Port) }
func (h HTTPConfig) ReadDuration() time.Duration  { return time.Duration(h.ReadTimeout) * time.Second }
func (h HTTPConfig) WriteDuration() time.Duration { return time.Duration(h.WriteTimeout) * time.Second }
func (h HTTPConfig) IdleDuration() time.Duration  { return time.Duration(h.IdleTimeout) * time.Second }
func (h HTTPConfig) ShutdownDuration() time.Duration {
	return time.Duration(h.ShutdownTimeout) * time.Second
}

type StoreConfig struct {
	Driver     string `mapstructure:"driver" validate:"oneof=postgres sqlite"`
	SQLitePath string `mapstructure:"sqlite_path"`
}

// PostgresConfig pool durations are whole seconds, matching pgxpool knobs one to one.
type PostgresConfig struct {
	Host              string `mapstructure:"host"`
	Port              int    `mapstructure:"port"`
	User              string `mapstructure:"user"`
	Password          string `mapstructure:"password"`
	DBName            string `mapstructure:"db"`
	SSLMode           string `mapstructure:"sslmode"`
	MaxConns          int32  `mapstructure:"max_conns"`
	MinConns          int32  `mapstructure:"min_conns"`
	MaxConnLifetime   int    `mapstructure:"max_conn_lifetime"`
	MaxConnIdleTime   int    `mapstructure:"max_conn_idle_time"`
	HealthCheckPeriod int    `mapstructure:"health_check_period"`
	AutoMigrate       bool   `mapstructure:"auto_migrate"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	AllowedMethods []string `mapstructure:"allowed_methods"`
	AllowedHeaders []string `mapstructure:"allowed_headers"`
}

type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path" validate:"required_if=Enabled true"`
}

type DocsConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// Validate checks the loaded configuration. Postgres secrets are only required
// when Postgres is the selected store.
func (c *Config) Validate() error {
	v := validator.New()
	if err := v.Struct(c.HTTP); err != nil {
		return fmt.Errorf("http config: %w", err)
	}
	if err := v.Struct(c.Store); err != nil {
		return fmt.Errorf("store config: %w", err)
	}
	if err := v.Struct(c.Metrics); err != nil {
		return fmt.Errorf("metrics config: %w", err)
	}
	if c.Store.Driver == DriverPostgres {
		var missing []string
		if c.Postgres.User == "" {
			missing = append(missing, "postgres.user")
		}
		if c.Postgres.Password == "" {
			missing = append(missing, "postgres.password")
		}
		if c.Postgres.DBName == "" {
			missing = append(missing, "postgres.db")
		}
		if len(missing) > 0 {
			return fmt.Errorf("missing required settings: %v", missing)
		}
	}
	return nil
}
