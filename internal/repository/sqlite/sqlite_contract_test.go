package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/maxviazov/clients-service/internal/model"
	"github.com/maxviazov/clients-service/internal/repository"
	"github.com/maxviazov/clients-service/internal/repository/contract"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openMemory(t *testing.T) *DB {
	t.Helper()
	db, err := New(":memory:")
	require.NoError(t, err)
	return db
}

func makeClientRepo(t *testing.T) (repository.ClientRepository, func()) {
	db := openMemory(t)
	return NewClientRepository(db), func() { _ = db.Close() }
}

func makeTx(t *testing.T) (repository.TxManager, repository.ClientRepository, func()) {
	db := openMemory(t)
	return NewTxManager(db), NewClientRepository(db), func() { _ = db.Close() }
}

func makePinger(t *testing.T) (repository.Pinger, func()) {
	db := openMemory(t)
	return db, func() { _ = db.Close() }
}

func TestClientRepository_SQLiteContract(t *testing.T) {
	contract.RunClientRepositoryContract(t, makeClientRepo)
}

func TestTxManager_SQLiteContract(t *testing.T) {
	contract.RunTxManagerContract(t, makeTx)
}

func TestPinger_SQLiteContract(t *testing.T) {
	contract.RunPingerContract(t, makePinger)
}

func TestTimestampsRoundTrip(t *testing.T) {
	db := openMemory(t)
	defer db.Close()

	fixed := time.Date(2025, 3, 14, 9, 26, 53, 589793000, time.UTC)
	repo := &clientRepository{db: db, now: func() time.Time { return fixed }}

	name, salary, value := "Clock", 1.0, 2.0
	created, err := repo.Create(context.Background(), model.CreateClientInput{Name: &name, Salary: &salary, CompanyValue: &value})
	require.NoError(t, err)
	assert.True(t, created.CreatedAt.Equal(fixed), "created_at %v", created.CreatedAt)

	got, err := repo.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.True(t, got.UpdatedAt.Equal(fixed), "updated_at %v", got.UpdatedAt)
}

func TestTimestampScan(t *testing.T) {
	var ts timestamp
	require.NoError(t, ts.Scan("2025-01-02 03:04:05.000000000+00:00"))
	assert.Equal(t, 2025, time.Time(ts).Year())

	require.NoError(t, ts.Scan([]byte("2025-01-02T03:04:05Z")))
	assert.Equal(t, 3, time.Time(ts).Hour())

	assert.Error(t, ts.Scan("yesterday"))
	assert.Error(t, ts.Scan(42))
}

func TestNewFileDatabase(t *testing.T) {
	path := t.TempDir() + "/clients.db"
	db, err := New(path)
	require.NoError(t, err)
	require.NoError(t, db.Ping(context.Background()))
	require.NoError(t, db.Close())

	// reopening must not fail on the existing schema
	db, err = New(path)
	require.NoError(t, err)
	require.NoError(t, db.Close())
}

func TestCasefold(t *testing.T) {
	db := openMemory(t)
	t.Cleanup(func() { _ = db.Close() })

	var got string
	require.NoError(t, db.Get(&got, `SELECT casefold(?)`, "ÉDUARDO Ñ"))
	assert.Equal(t, "éduardo ñ", got)

	var null *string
	require.NoError(t, db.Get(&null, `SELECT casefold(NULL)`))
	assert.Nil(t, null)
}
