package repository

import (
	"context"

	"github.com/maxviazov/clients-service/internal/model"
)

// Pinger represents a minimal readiness probe capability.
// I use it to decouple health checks from storage implementation details.
type Pinger interface {
	Ping(ctx context.Context) error
}

// TxFunc is the unit of work executed within a transaction boundary.
// I pass context through so nested calls can honor cancellations and deadlines.
type TxFunc func(ctx context.Context) error

// TxManager abstracts transactional execution for repositories that support it.
// Repositories pick the open transaction up from ctx.
type TxManager interface {
	WithinTx(ctx context.Context, fn TxFunc) error
}

// ClientRepository declares persistence operations for clients.
// I return domain models and surface domain errors from errors.go rather than driver codes.
type ClientRepository interface {
	// Create assigns identity and timestamps, persists the row and returns it in full.
	Create(ctx context.Context, in model.CreateClientInput) (model.Client, error)
	// ListAll returns every row ordered by id.
	ListAll(ctx context.Context) ([]model.Client, error)
	GetByID(ctx context.Context, id int64) (model.Client, error)
	// UpdateByID applies only the non-nil fields and returns the stored row.
	// ErrNotFound is returned when no row matched.
	UpdateByID(ctx context.Context, id int64, in model.UpdateClientInput) (model.Client, error)
	// DeleteByID returns the number of removed rows.
	DeleteByID(ctx context.Context, id int64) (int64, error)
	// ListPaginated filters, sorts and windows the table. Total counts the
	// filtered set before the window is applied.
	ListPaginated(ctx context.Context, q ClientQuery) (PageResult[model.Client], error)
	// InsertMany bulk-loads rows for seeding and returns how many were written.
	InsertMany(ctx context.Context, clients []model.Client) (int64, error)
}
