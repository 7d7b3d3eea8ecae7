// Package storage opens the configured client store and hands back the
// repository-level contracts the rest of the process depends on.
package storage

import (
	"context"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog"

	"github.com/maxviazov/clients-service/internal/config"
	"github.com/maxviazov/clients-service/internal/repository"
	"github.com/maxviazov/clients-service/internal/repository/postgres"
	"github.com/maxviazov/clients-service/internal/repository/sqlite"
	"github.com/maxviazov/clients-service/migrations"
)

// Store bundles one backend's adapters. Close releases the backend.
type Store struct {
	Driver  string
	Clients repository.ClientRepository
	Tx      repository.TxManager
	Pinger  repository.Pinger
	Close   func()
}

// Open connects to cfg.Store.Driver. Postgres schemas are migrated with goose
// when postgres.auto_migrate is set; SQLite applies its schema on open.
func Open(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*Store, error) {
	log := logger.With().Str("module", "storage").Str("driver", cfg.Store.Driver).Logger()

	switch cfg.Store.Driver {
	case config.DriverPostgres:
		if cfg.Postgres.AutoMigrate {
			if err := Migrate(ctx, cfg.Postgres, log); err != nil {
				return nil, err
			}
		}
		repo, err := repository.New(ctx, cfg, &logger)
		if err != nil {
			return nil, err
		}
		pool := repo.Pool()
		return &Store{
			Driver:  config.DriverPostgres,
			Clients: postgres.NewClientRepository(pool),
			Tx:      postgres.NewTxManager(pool),
			Pinger:  postgres.NewPinger(pool),
			Close:   repo.Close,
		}, nil

	case config.DriverSQLite:
		db, err := sqlite.New(cfg.Store.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite %q: %w", cfg.Store.SQLitePath, err)
		}
		log.Info().Str("path", cfg.Store.SQLitePath).Msg("sqlite store ready")
		return &Store{
			Driver:  config.DriverSQLite,
			Clients: sqlite.NewClientRepository(db),
			Tx:      sqlite.NewTxManager(db),
			Pinger:  db,
			Close:   func() { _ = db.Close() },
		}, nil

	default:
		return nil, fmt.Errorf("unsupported store driver %q", cfg.Store.Driver)
	}
}

// Migrate applies the embedded goose migrations to the Postgres database.
func Migrate(ctx context.Context, pg config.PostgresConfig, logger zerolog.Logger) error {
	db, err := goose.OpenDBWithDriver("pgx", repository.DSN(pg))
	if err != nil {
		return fmt.Errorf("goose open db: %w", err)
	}
	defer db.Close()

	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("goose dialect: %w", err)
	}
	if err := goose.UpContext(ctx, db, migrations.Dir); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}
	version, err := goose.GetDBVersionContext(ctx, db)
	if err != nil {
		return fmt.Errorf("goose version: %w", err)
	}
	logger.Info().Int64("version", version).Msg("migrations applied")
	return nil
}
