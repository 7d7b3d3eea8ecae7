// Package seed bulk-loads synthetic clients for local development and demos.
package seed

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/rs/zerolog"

	"github.com/maxviazov/clients-service/internal/model"
	"github.com/maxviazov/clients-service/internal/repository"
)

const (
	DefaultCount     = 100
	DefaultBatchSize = 500

	minSalary       = 2000
	maxSalary       = 90000
	minCompanyValue = 20000
	maxCompanyValue = 900000000
)

type Options struct {
	Count     int
	BatchSize int
	// Seed makes the generated data reproducible; 0 picks a random seed.
	Seed uint64
}

type Seeder struct {
	clients repository.ClientRepository
	tx      repository.TxManager
	log     zerolog.Logger
}

func New(clients repository.ClientRepository, tx repository.TxManager, logger zerolog.Logger) *Seeder {
	return &Seeder{
		clients: clients,
		tx:      tx,
		log:     logger.With().Str("module", "seed").Logger(),
	}
}

// Generate builds n clients whose values satisfy the store constraints.
func Generate(f *gofakeit.Faker, n int) []model.Client {
	out := make([]model.Client, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, model.Client{
			Name:         f.Name(),
			Salary:       money(f.Float64Range(minSalary, maxSalary)),
			CompanyValue: money(f.Float64Range(minCompanyValue, maxCompanyValue)),
		})
	}
	return out
}

func money(v float64) float64 { return math.Round(v*100) / 100 }

// Run inserts opts.Count clients, one transaction per batch, and returns how many were written.
// Batches already committed stay in place when a later one fails.
func (s *Seeder) Run(ctx context.Context, opts Options) (int64, error) {
	if opts.Count <= 0 {
		return 0, errors.New("count must be positive")
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = DefaultBatchSize
	}

	start := time.Now()
	faker := gofakeit.New(opts.Seed)
	var total int64
	for remaining := opts.Count; remaining > 0; {
		if err := ctx.Err(); err != nil {
			return total, err
		}
		n := min(remaining, opts.BatchSize)
		batch := Generate(faker, n)

		var written int64
		err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
			var err error
			written, err = s.clients.InsertMany(ctx, batch)
			return err
		})
		if err != nil {
			s.log.Error().Err(err).Int64("inserted", total).Msg("seed batch failed")
			return total, err
		}
		total += written
		remaining -= n
		s.log.Debug().Int64("inserted", total).Int("target", opts.Count).Msg("seed batch committed")
	}

	s.log.Info().Int64("inserted", total).Dur("took", time.Since(start)).Msg("database seeded")
	return total, nil
}
