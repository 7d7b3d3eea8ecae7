package seed

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maxviazov/clients-service/internal/model"
	"github.com/maxviazov/clients-service/internal/repository"
	"github.com/maxviazov/clients-service/internal/repository/sqlite"
)

func TestGenerate_RespectsRanges(t *testing.T) {
	clients := Generate(gofakeit.New(42), 200)
	require.Len(t, clients, 200)
	for _, c := range clients {
		assert.NotEmpty(t, c.Name)
		assert.GreaterOrEqual(t, c.Salary, float64(minSalary))
		assert.LessOrEqual(t, c.Salary, float64(maxSalary))
		assert.GreaterOrEqual(t, c.CompanyValue, float64(minCompanyValue))
		assert.LessOrEqual(t, c.CompanyValue, float64(maxCompanyValue))
		assert.Equal(t, c.Salary, money(c.Salary), "two decimals at most")
	}
}

func TestGenerate_Deterministic(t *testing.T) {
	a := Generate(gofakeit.New(7), 5)
	b := Generate(gofakeit.New(7), 5)
	assert.Equal(t, a, b)
}

func TestRun_SQLite(t *testing.T) {
	db, err := sqlite.New(":memory:")
	require.NoError(t, err)
	defer db.Close()

	repo := sqlite.NewClientRepository(db)
	s := New(repo, sqlite.NewTxManager(db), zerolog.New(io.Discard))

	n, err := s.Run(context.Background(), Options{Count: 25, BatchSize: 10, Seed: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(25), n)

	all, err := repo.ListAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 25)
}

type failingRepo struct {
	repository.ClientRepository
	calls int
}

func (f *failingRepo) InsertMany(_ context.Context, c []model.Client) (int64, error) {
	f.calls++
	if f.calls > 1 {
		return 0, errors.New("disk full")
	}
	return int64(len(c)), nil
}

type passthroughTx struct{}

func (passthroughTx) WithinTx(ctx context.Context, fn repository.TxFunc) error { return fn(ctx) }

func TestRun_StopsOnFailedBatch(t *testing.T) {
	repo := &failingRepo{}
	s := New(repo, passthroughTx{}, zerolog.New(io.Discard))
	n, err := s.Run(context.Background(), Options{Count: 30, BatchSize: 10})
	require.Error(t, err)
	assert.Equal(t, int64(10), n)
	assert.Equal(t, 2, repo.calls)
}

func TestRun_RejectsNonPositiveCount(t *testing.T) {
	s := New(&failingRepo{}, passthroughTx{}, zerolog.New(io.Discard))
	_, err := s.Run(context.Background(), Options{Count: 0})
	assert.Error(t, err)
}
