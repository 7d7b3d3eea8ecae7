package storage

import (
	"context"
	"io"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maxviazov/clients-service/internal/config"
	"github.com/maxviazov/clients-service/internal/model"
)

func TestOpen_SQLite(t *testing.T) {
	cfg := &config.Config{Store: config.StoreConfig{Driver: config.DriverSQLite, SQLitePath: filepath.Join(t.TempDir(), "clients.db")}}
	st, err := Open(context.Background(), cfg, zerolog.New(io.Discard))
	require.NoError(t, err)
	defer st.Close()

	assert.Equal(t, config.DriverSQLite, st.Driver)
	require.NoError(t, st.Pinger.Ping(context.Background()))

	err = st.Tx.WithinTx(context.Background(), func(ctx context.Context) error {
		_, err := st.Clients.InsertMany(ctx, []model.Client{{Name: "A", Salary: 1, CompanyValue: 2}})
		return err
	})
	require.NoError(t, err)

	all, err := st.Clients.ListAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestOpen_UnknownDriver(t *testing.T) {
	cfg := &config.Config{Store: config.StoreConfig{Driver: "mongo"}}
	_, err := Open(context.Background(), cfg, zerolog.New(io.Discard))
	assert.ErrorContains(t, err, "unsupported store driver")
}
