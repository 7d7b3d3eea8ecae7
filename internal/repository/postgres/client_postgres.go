package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/maxviazov/clients-service/internal/model"
	"github.com/maxviazov/clients-service/internal/repository"
)

const clientColumns = `id, name, salary, company_value, created_at, updated_at`

type clientRepository struct{ pool *pgxpool.Pool }

func NewClientRepository(pool *pgxpool.Pool) repository.ClientRepository {
	return &clientRepository{pool: pool}
}

func scanClient(row pgx.Row) (model.Client, error) {
	var c model.Client
	err := row.Scan(&c.ID, &c.Name, &c.Salary, &c.CompanyValue, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

func collectClients(rows pgx.Rows) ([]model.Client, error) {
	defer rows.Close()
	out := make([]model.Client, 0)
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, repository.MapPgError(err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, repository.MapPgError(err)
	}
	return out, nil
}

func (r *clientRepository) Create(ctx context.Context, in model.CreateClientInput) (model.Client, error) {
	if err := ensurePool(r.pool); err != nil {
		return model.Client{}, err
	}
	exec := getQ(ctx, r.pool)
	row := exec.QueryRow(ctx,
		`INSERT INTO clients (name, salary, company_value) VALUES ($1, $2, $3)
		 RETURNING `+clientColumns,
		in.Name, in.Salary, in.CompanyValue,
	)
	out, err := scanClient(row)
	if err != nil {
		return model.Client{}, repository.MapPgError(err)
	}
	return out, nil
}

func (r *clientRepository) ListAll(ctx context.Context) ([]model.Client, error) {
	if err := ensurePool(r.pool); err != nil {
		return nil, err
	}
	rows, err := getQ(ctx, r.pool).Query(ctx, `SELECT `+clientColumns+` FROM clients ORDER BY id`)
	if err != nil {
		return nil, repository.MapPgError(err)
	}
	return collectClients(rows)
}

func (r *clientRepository) GetByID(ctx context.Context, id int64) (model.Client, error) {
	if err := ensurePool(r.pool); err != nil {
		return model.Client{}, err
	}
	row := getQ(ctx, r.pool).QueryRow(ctx, `SELECT `+clientColumns+` FROM clients WHERE id = $1`, id)
	out, err := scanClient(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Client{}, repository.ErrNotFound
		}
		return model.Client{}, repository.MapPgError(err)
	}
	return out, nil
}

// UpdateByID keeps untouched columns via COALESCE so a single statement serves any subset of fields.
func (r *clientRepository) UpdateByID(ctx context.Context, id int64, in model.UpdateClientInput) (model.Client, error) {
	if err := ensurePool(r.pool); err != nil {
		return model.Client{}, err
	}
	row := getQ(ctx, r.pool).QueryRow(ctx,
		`UPDATE clients SET
			name = COALESCE($2::varchar, name),
			salary = COALESCE($3::numeric, salary),
			company_value = COALESCE($4::numeric, company_value),
			updated_at = NOW()
		 WHERE id = $1
		 RETURNING `+clientColumns,
		id, in.Name, in.Salary, in.CompanyValue,
	)
	out, err := scanClient(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Client{}, repository.ErrNotFound
		}
		return model.Client{}, repository.MapPgError(err)
	}
	return out, nil
}

func (r *clientRepository) DeleteByID(ctx context.Context, id int64) (int64, error) {
	if err := ensurePool(r.pool); err != nil {
		return 0, err
	}
	tag, err := getQ(ctx, r.pool).Exec(ctx, `DELETE FROM clients WHERE id = $1`, id)
	if err != nil {
		return 0, repository.MapPgError(err)
	}
	return tag.RowsAffected(), nil
}

// ListPaginated sends the count and the page in one batch so both see the same filter in one round trip.
func (r *clientRepository) ListPaginated(ctx context.Context, cq repository.ClientQuery) (repository.PageResult[model.Client], error) {
	if err := ensurePool(r.pool); err != nil {
		return repository.PageResult[model.Client]{}, err
	}
	orderBy, err := cq.OrderBy()
	if err != nil {
		return repository.PageResult[model.Client]{}, err
	}
	limit, offset := cq.Page.Sanitize()

	where := ""
	var args []any
	if cq.NameFilter != "" {
		where = ` WHERE name ILIKE $1`
		args = append(args, cq.LikePattern())
	}
	n := len(args)
	listSQL := fmt.Sprintf(`SELECT %s FROM clients%s ORDER BY %s LIMIT $%d OFFSET $%d`,
		clientColumns, where, orderBy, n+1, n+2)

	batch := &pgx.Batch{}
	batch.Queue(`SELECT COUNT(*) FROM clients`+where, args...)
	batch.Queue(listSQL, append(args, limit, offset)...)

	br := getQ(ctx, r.pool).SendBatch(ctx, batch)
	defer br.Close()

	var total int
	if err := br.QueryRow().Scan(&total); err != nil {
		return repository.PageResult[model.Client]{}, repository.MapPgError(err)
	}
	rows, err := br.Query()
	if err != nil {
		return repository.PageResult[model.Client]{}, repository.MapPgError(err)
	}
	items, err := collectClients(rows)
	if err != nil {
		return repository.PageResult[model.Client]{}, err
	}
	return repository.PageResult[model.Client]{Items: items, Total: total}, nil
}

// InsertMany streams rows through COPY; timestamps come from column defaults.
func (r *clientRepository) InsertMany(ctx context.Context, clients []model.Client) (int64, error) {
	if err := ensurePool(r.pool); err != nil {
		return 0, err
	}
	if len(clients) == 0 {
		return 0, nil
	}
	n, err := getQ(ctx, r.pool).CopyFrom(ctx,
		pgx.Identifier{"clients"},
		[]string{"name", "salary", "company_value"},
		pgx.CopyFromSlice(len(clients), func(i int) ([]any, error) {
			c := clients[i]
			return []any{c.Name, c.Salary, c.CompanyValue}, nil
		}),
	)
	if err != nil {
		return 0, repository.MapPgError(err)
	}
	return n, nil
}

var _ repository.ClientRepository = (*clientRepository)(nil)
