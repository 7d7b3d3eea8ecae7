package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/maxviazov/clients-service/internal/model"
	"github.com/maxviazov/clients-service/internal/repository"
	msqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

const clientColumns = `id, name, salary, company_value, created_at, updated_at`

// timeLayout is fixed-width so text ordering matches chronological ordering.
const timeLayout = "2006-01-02 15:04:05.000000000-07:00"

// timestamp accepts both driver-parsed times and raw text, since RETURNING
// columns may come back without their declared type.
type timestamp time.Time

func (t *timestamp) Scan(v any) error {
	switch x := v.(type) {
	case nil:
		*t = timestamp(time.Time{})
	case time.Time:
		*t = timestamp(x.UTC())
	case string:
		return t.parse(x)
	case []byte:
		return t.parse(string(x))
	default:
		return fmt.Errorf("unsupported timestamp type %T", v)
	}
	return nil
}

func (t *timestamp) parse(s string) error {
	for _, layout := range []string{timeLayout, time.RFC3339Nano, "2006-01-02 15:04:05.999999999-07:00", "2006-01-02 15:04:05"} {
		if ts, err := time.Parse(layout, s); err == nil {
			*t = timestamp(ts.UTC())
			return nil
		}
	}
	return fmt.Errorf("unparseable timestamp %q", s)
}

type clientRow struct {
	ID           int64     `db:"id"`
	Name         string    `db:"name"`
	Salary       float64   `db:"salary"`
	CompanyValue float64   `db:"company_value"`
	CreatedAt    timestamp `db:"created_at"`
	UpdatedAt    timestamp `db:"updated_at"`
}

func (r clientRow) toModel() model.Client {
	return model.Client{
		ID:           r.ID,
		Name:         r.Name,
		Salary:       r.Salary,
		CompanyValue: r.CompanyValue,
		CreatedAt:    time.Time(r.CreatedAt),
		UpdatedAt:    time.Time(r.UpdatedAt),
	}
}

func toModels(rows []clientRow) []model.Client {
	out := make([]model.Client, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toModel())
	}
	return out
}

// mapError mirrors repository.MapPgError for SQLite result codes.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return repository.ErrNotFound
	}
	var e *msqlite.Error
	if errors.As(err, &e) {
		switch e.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return repository.ErrAlreadyExists
		case sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY:
			return repository.ErrConflict
		}
		if e.Code()&0xff == sqlite3.SQLITE_CONSTRAINT {
			return repository.ErrConstraint
		}
	}
	return err
}

type clientRepository struct {
	db  *DB
	now func() time.Time
}

// NewClientRepository stamps created_at/updated_at from Go since SQLite has no timestamptz.
func NewClientRepository(db *DB) repository.ClientRepository {
	return &clientRepository{db: db, now: func() time.Time { return time.Now().UTC() }}
}

func (r *clientRepository) stamp() string { return r.now().Format(timeLayout) }

func (r *clientRepository) Create(ctx context.Context, in model.CreateClientInput) (model.Client, error) {
	now := r.stamp()
	var row clientRow
	err := getQ(ctx, r.db).QueryRowxContext(ctx,
		`INSERT INTO clients (name, salary, company_value, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)
		 RETURNING `+clientColumns,
		in.Name, in.Salary, in.CompanyValue, now, now,
	).StructScan(&row)
	if err != nil {
		return model.Client{}, mapError(err)
	}
	return row.toModel(), nil
}

func (r *clientRepository) ListAll(ctx context.Context) ([]model.Client, error) {
	var rows []clientRow
	if err := getQ(ctx, r.db).SelectContext(ctx, &rows, `SELECT `+clientColumns+` FROM clients ORDER BY id`); err != nil {
		return nil, mapError(err)
	}
	return toModels(rows), nil
}

func (r *clientRepository) GetByID(ctx context.Context, id int64) (model.Client, error) {
	var row clientRow
	if err := getQ(ctx, r.db).GetContext(ctx, &row, `SELECT `+clientColumns+` FROM clients WHERE id = ?`, id); err != nil {
		return model.Client{}, mapError(err)
	}
	return row.toModel(), nil
}

func (r *clientRepository) UpdateByID(ctx context.Context, id int64, in model.UpdateClientInput) (model.Client, error) {
	var row clientRow
	err := getQ(ctx, r.db).QueryRowxContext(ctx,
		`UPDATE clients SET
			name = COALESCE(?, name),
			salary = COALESCE(?, salary),
			company_value = COALESCE(?, company_value),
			updated_at = ?
		 WHERE id = ?
		 RETURNING `+clientColumns,
		in.Name, in.Salary, in.CompanyValue, r.stamp(), id,
	).StructScan(&row)
	if err != nil {
		return model.Client{}, mapError(err)
	}
	return row.toModel(), nil
}

func (r *clientRepository) DeleteByID(ctx context.Context, id int64) (int64, error) {
	res, err := getQ(ctx, r.db).ExecContext(ctx, `DELETE FROM clients WHERE id = ?`, id)
	if err != nil {
		return 0, mapError(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return n, nil
}

// ListPaginated folds both sides with casefold so the name filter ignores case
// for non-ASCII letters too, matching ILIKE on Postgres.
func (r *clientRepository) ListPaginated(ctx context.Context, cq repository.ClientQuery) (repository.PageResult[model.Client], error) {
	orderBy, err := cq.OrderBy()
	if err != nil {
		return repository.PageResult[model.Client]{}, err
	}
	limit, offset := cq.Page.Sanitize()

	where := ""
	var args []any
	if cq.NameFilter != "" {
		where = ` WHERE ` + foldFunc + `(name) LIKE ` + foldFunc + `(?) ESCAPE '\'`
		args = append(args, cq.LikePattern())
	}

	exec := getQ(ctx, r.db)
	var total int
	if err := exec.GetContext(ctx, &total, `SELECT COUNT(*) FROM clients`+where, args...); err != nil {
		return repository.PageResult[model.Client]{}, mapError(err)
	}

	var rows []clientRow
	listSQL := fmt.Sprintf(`SELECT %s FROM clients%s ORDER BY %s LIMIT ? OFFSET ?`, clientColumns, where, orderBy)
	if err := exec.SelectContext(ctx, &rows, listSQL, append(args, limit, offset)...); err != nil {
		return repository.PageResult[model.Client]{}, mapError(err)
	}
	return repository.PageResult[model.Client]{Items: toModels(rows), Total: total}, nil
}

// InsertMany reuses one prepared statement; wrap the call in a TxManager for atomic batches.
func (r *clientRepository) InsertMany(ctx context.Context, clients []model.Client) (int64, error) {
	if len(clients) == 0 {
		return 0, nil
	}
	stmt, err := getQ(ctx, r.db).PreparexContext(ctx,
		`INSERT INTO clients (name, salary, company_value, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, mapError(err)
	}
	defer stmt.Close()

	var n int64
	for _, c := range clients {
		now := r.stamp()
		if _, err := stmt.ExecContext(ctx, c.Name, c.Salary, c.CompanyValue, now, now); err != nil {
			return n, mapError(err)
		}
		n++
	}
	return n, nil
}

var _ repository.ClientRepository = (*clientRepository)(nil)
