package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// secretEnv lists accepted environment names per key, first non-empty wins.
// DB_* names are what the seed tooling historically used.
var secretEnv = map[string][]string{
	"postgres.user":     {"APP_POSTGRES_USER", "POSTGRES_USER", "DB_USER"},
	"postgres.password": {"APP_POSTGRES_PASSWORD", "POSTGRES_PASSWORD", "DB_PASSWORD"},
	"postgres.db":       {"APP_POSTGRES_DB", "POSTGRES_DB", "DB_NAME"},
	"postgres.host":     {"APP_POSTGRES_HOST", "DB_HOST"},
	"postgres.port":     {"APP_POSTGRES_PORT", "DB_PORT"},
}

// Load reads the YAML file at path (skipped when path is empty), overlays APP_* environment
// variables and validates the result.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.SetEnvPrefix("APP")
	v.AutomaticEnv()
	for key, names := range secretEnv {
		if err := v.BindEnv(append([]string{key}, names...)...); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", key, err)
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config file not found: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	config.applyDerived()
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "clients-service")
	v.SetDefault("app.version", "0.1.0")
	v.SetDefault("app.env", "prod")

	// empty logger keys let APP_LOGGER_* bind; logger.New fills real defaults
	for _, k := range []string{"level", "format", "output_target", "time_format", "env"} {
		v.SetDefault("logger."+k, "")
	}

	v.SetDefault("http.port", 3000)
	v.SetDefault("http.read_timeout", 10)
	v.SetDefault("http.write_timeout", 10)
	v.SetDefault("http.idle_timeout", 60)
	v.SetDefault("http.shutdown_timeout", 10)

	v.SetDefault("store.driver", DriverPostgres)
	v.SetDefault("store.sqlite_path", "clients.db")

	v.SetDefault("postgres.host", "localhost")
	v.SetDefault("postgres.port", 5432)
	v.SetDefault("postgres.user", "")
	v.SetDefault("postgres.password", "")
	v.SetDefault("postgres.db", "")
	v.SetDefault("postgres.sslmode", "disable")
	v.SetDefault("postgres.max_conns", 10)
	v.SetDefault("postgres.min_conns", 1)
	v.SetDefault("postgres.max_conn_lifetime", 1800)
	v.SetDefault("postgres.max_conn_idle_time", 300)
	v.SetDefault("postgres.health_check_period", 30)
	v.SetDefault("postgres.auto_migrate", true)

	v.SetDefault("cors.allowed_origins", []string{"http://localhost:4200"})
	v.SetDefault("cors.allowed_methods", []string{"GET", "HEAD", "PUT", "PATCH", "POST", "DELETE"})
	v.SetDefault("cors.allowed_headers", []string{"Content-Type", "Authorization"})

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")
	v.SetDefault("docs.enabled", true)
}

// applyDerived fills logger identity and env from the app section when the logger block leaves it out.
func (c *Config) applyDerived() {
	if c.Logger.ServiceName == "" {
		c.Logger.ServiceName = c.App.Name
	}
	if c.Logger.ServiceVersion == "" {
		c.Logger.ServiceVersion = c.App.Version
	}
	if c.Logger.Env == "" {
		c.Logger.Env = c.App.Env
	}
}
