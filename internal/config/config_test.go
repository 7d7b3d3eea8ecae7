package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}
	return path
}

func clearPostgresEnv(t *testing.T) {
	t.Helper()
	for _, names := range secretEnv {
		for _, n := range names {
			t.Setenv(n, "")
		}
	}
}

func TestLoad_FromYAMLAndEnv(t *testing.T) {
	clearPostgresEnv(t)
	yaml := `
app:
  name: clients-service
  version: 0.1.0
  env: test

http:
  port: 18080

logger:
  level: info
  format: json
  output_target: stdout
  time_format: rfc3339

postgres:
  host: 127.0.0.1
  port: 5432
  sslmode: disable
  max_conns: 5
  min_conns: 1
`
	path := writeTempConfig(t, yaml)

	t.Setenv("APP_POSTGRES_USER", "testuser")
	t.Setenv("APP_POSTGRES_PASSWORD", "testpass")
	t.Setenv("APP_POSTGRES_DB", "testdb")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 18080, cfg.HTTP.Port)
	assert.Equal(t, ":18080", cfg.HTTP.Addr())
	assert.Equal(t, "testuser", cfg.Postgres.User)
	assert.Equal(t, "testpass", cfg.Postgres.Password)
	assert.Equal(t, "testdb", cfg.Postgres.DBName)
	assert.Equal(t, "127.0.0.1", cfg.Postgres.Host)
	assert.Equal(t, int32(5), cfg.Postgres.MaxConns)
	assert.Equal(t, "clients-service", cfg.Logger.ServiceName)
	assert.Equal(t, "test", cfg.Logger.Env)
}

func TestLoad_Defaults(t *testing.T) {
	clearPostgresEnv(t)
	t.Setenv("APP_STORE_DRIVER", "sqlite")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 3000, cfg.HTTP.Port)
	assert.Equal(t, DriverSQLite, cfg.Store.Driver)
	assert.Equal(t, "clients.db", cfg.Store.SQLitePath)
	assert.Equal(t, []string{"http://localhost:4200"}, cfg.CORS.AllowedOrigins)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
	assert.True(t, cfg.Docs.Enabled)
}

func TestLoad_FallbackEnvNames(t *testing.T) {
	clearPostgresEnv(t)
	t.Setenv("DB_USER", "legacy")
	t.Setenv("POSTGRES_PASSWORD", "pw")
	t.Setenv("DB_NAME", "clients")
	t.Setenv("DB_PORT", "6543")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "legacy", cfg.Postgres.User)
	assert.Equal(t, "pw", cfg.Postgres.Password)
	assert.Equal(t, "clients", cfg.Postgres.DBName)
	assert.Equal(t, 6543, cfg.Postgres.Port)
}

func TestLoad_MissingRequiredEnvFails(t *testing.T) {
	clearPostgresEnv(t)
	yaml := `
store:
  driver: postgres
postgres:
  host: localhost
`
	_, err := Load(writeTempConfig(t, yaml))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "postgres.user")
}

func TestLoad_InvalidDriver(t *testing.T) {
	clearPostgresEnv(t)
	t.Setenv("APP_STORE_DRIVER", "mysql")
	_, err := Load("")
	require.Error(t, err)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}
