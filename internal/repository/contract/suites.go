// Package contract holds storage-agnostic test suites. Every ClientRepository
// implementation runs the same cases so the stores cannot drift apart.
package contract

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/maxviazov/clients-service/internal/model"
	"github.com/maxviazov/clients-service/internal/repository"
)

type ClientFactory func(t *testing.T) (repository.ClientRepository, func())

type TxFactory func(t *testing.T) (tx repository.TxManager, clients repository.ClientRepository, cleanup func())

type PingerFactory func(t *testing.T) (repository.Pinger, func())

func strPtr(s string) *string     { return &s }
func floatPtr(f float64) *float64 { return &f }

func input(name string, salary, value float64) model.CreateClientInput {
	return model.CreateClientInput{Name: strPtr(name), Salary: floatPtr(salary), CompanyValue: floatPtr(value)}
}

func seed(t *testing.T, repo repository.ClientRepository, names ...string) []model.Client {
	t.Helper()
	out := make([]model.Client, 0, len(names))
	for i, n := range names {
		c, err := repo.Create(context.Background(), input(n, float64(1000*(i+1)), float64(10000*(i+1))))
		if err != nil {
			t.Fatalf("seed %q: %v", n, err)
		}
		out = append(out, c)
	}
	return out
}

func RunClientRepositoryContract(t *testing.T, makeRepo ClientFactory) {
	t.Helper()

	t.Run("create_and_get", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		created, err := repo.Create(ctx, input("Eduardo", 3500, 120000))
		if err != nil {
			t.Fatalf("create failed: %v", err)
		}
		if created.ID <= 0 || created.CreatedAt.IsZero() || created.UpdatedAt.IsZero() {
			t.Fatalf("identity/timestamps not assigned: %+v", created)
		}
		if created.Name != "Eduardo" || created.Salary != 3500 || created.CompanyValue != 120000 {
			t.Fatalf("fields not echoed: %+v", created)
		}
		got, err := repo.GetByID(ctx, created.ID)
		if err != nil {
			t.Fatalf("get failed: %v", err)
		}
		if got.ID != created.ID || got.Name != created.Name || got.Salary != created.Salary {
			t.Fatalf("mismatch: %+v vs %+v", got, created)
		}
	})

	t.Run("ids_are_not_reused", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		first := seed(t, repo, "A")[0]
		if _, err := repo.DeleteByID(ctx, first.ID); err != nil {
			t.Fatalf("delete: %v", err)
		}
		second := seed(t, repo, "B")[0]
		if second.ID == first.ID {
			t.Fatalf("id %d was reused", first.ID)
		}
	})

	t.Run("negative_salary_rejected_by_store", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		_, err := repo.Create(context.Background(), input("Neg", -1, 10))
		if !errors.Is(err, repository.ErrConstraint) {
			t.Fatalf("expected ErrConstraint, got %v", err)
		}
	})

	t.Run("get_not_found", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		_, err := repo.GetByID(context.Background(), 999999)
		if !errors.Is(err, repository.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("list_all", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		seed(t, repo, "A", "B", "C")
		all, err := repo.ListAll(context.Background())
		if err != nil {
			t.Fatalf("list all: %v", err)
		}
		if len(all) != 3 {
			t.Fatalf("expected 3 rows, got %d", len(all))
		}
	})

	t.Run("update_partial", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		c := seed(t, repo, "Eduardo")[0]
		updated, err := repo.UpdateByID(ctx, c.ID, model.UpdateClientInput{Salary: floatPtr(4000)})
		if err != nil {
			t.Fatalf("update: %v", err)
		}
		if updated.Salary != 4000 || updated.Name != c.Name || updated.CompanyValue != c.CompanyValue {
			t.Fatalf("partial update changed other fields: %+v", updated)
		}
		if updated.UpdatedAt.Before(c.UpdatedAt) {
			t.Fatalf("updated_at went backwards: %v < %v", updated.UpdatedAt, c.UpdatedAt)
		}
		got, err := repo.GetByID(ctx, c.ID)
		if err != nil || got.Salary != 4000 {
			t.Fatalf("update not persisted: %+v err=%v", got, err)
		}
	})

	t.Run("update_not_found", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		_, err := repo.UpdateByID(context.Background(), 424242, model.UpdateClientInput{Name: strPtr("x")})
		if !errors.Is(err, repository.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("delete_counts_rows", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		c := seed(t, repo, "Gone")[0]
		n, err := repo.DeleteByID(ctx, c.ID)
		if err != nil || n != 1 {
			t.Fatalf("first delete: n=%d err=%v", n, err)
		}
		n, err = repo.DeleteByID(ctx, c.ID)
		if err != nil || n != 0 {
			t.Fatalf("second delete: n=%d err=%v", n, err)
		}
	})

	t.Run("paginate_total_is_filtered_count", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		seed(t, repo, "A", "B", "C", "D", "E")
		q := repository.ClientQuery{Page: repository.Page{Limit: 2, Offset: 0}, SortField: repository.SortByID}
		res, err := repo.ListPaginated(ctx, q)
		if err != nil {
			t.Fatalf("page1: %v", err)
		}
		if len(res.Items) != 2 || res.Total != 5 {
			t.Fatalf("unexpected page1: len=%d total=%d", len(res.Items), res.Total)
		}
		q.Page.Offset = 4
		res, err = repo.ListPaginated(ctx, q)
		if err != nil {
			t.Fatalf("page3: %v", err)
		}
		if len(res.Items) != 1 || res.Total != 5 || res.Items[0].Name != "E" {
			t.Fatalf("unexpected page3: %+v total=%d", res.Items, res.Total)
		}
		q.Page.Offset = 50
		res, err = repo.ListPaginated(ctx, q)
		if err != nil {
			t.Fatalf("past end: %v", err)
		}
		if len(res.Items) != 0 || res.Total != 5 {
			t.Fatalf("past end must keep total: len=%d total=%d", len(res.Items), res.Total)
		}
	})

	t.Run("filter_case_insensitive_substring", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		seed(t, repo, "Eduardo", "Maria", "Pedro Eduardo", "REDUX")
		res, err := repo.ListPaginated(context.Background(), repository.ClientQuery{
			Page:       repository.Page{Limit: 10},
			SortField:  repository.SortByID,
			NameFilter: "edu",
		})
		if err != nil {
			t.Fatalf("filter: %v", err)
		}
		if res.Total != 3 || len(res.Items) != 3 {
			t.Fatalf("expected 3 matches, got total=%d items=%+v", res.Total, res.Items)
		}
		for _, c := range res.Items {
			if c.Name == "Maria" {
				t.Fatalf("Maria must be filtered out")
			}
		}
	})

	t.Run("filter_wildcards_are_literal", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		seed(t, repo, "100% Corp", "Plain")
		res, err := repo.ListPaginated(context.Background(), repository.ClientQuery{
			Page:       repository.Page{Limit: 10},
			SortField:  repository.SortByID,
			NameFilter: "%",
		})
		if err != nil {
			t.Fatalf("filter: %v", err)
		}
		if res.Total != 1 || res.Items[0].Name != "100% Corp" {
			t.Fatalf("expected only the literal %% match, got %+v", res.Items)
		}
	})

	t.Run("sort_by_name_asc", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		seed(t, repo, "Carol", "Alice", "Bob")
		res, err := repo.ListPaginated(context.Background(), repository.ClientQuery{
			Page:      repository.Page{Limit: 10},
			SortField: repository.SortByName,
		})
		if err != nil {
			t.Fatalf("sort name: %v", err)
		}
		got := []string{res.Items[0].Name, res.Items[1].Name, res.Items[2].Name}
		if got[0] != "Alice" || got[1] != "Bob" || got[2] != "Carol" {
			t.Fatalf("unexpected order: %v", got)
		}
	})

	t.Run("sort_by_company_value_desc", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		seed(t, repo, "A", "B", "C")
		res, err := repo.ListPaginated(context.Background(), repository.ClientQuery{
			Page:      repository.Page{Limit: 10},
			SortField: repository.SortByCompanyValue,
			Desc:      true,
		})
		if err != nil {
			t.Fatalf("sort company value: %v", err)
		}
		for i := 1; i < len(res.Items); i++ {
			if res.Items[i-1].CompanyValue < res.Items[i].CompanyValue {
				t.Fatalf("company value not descending at %d: %+v", i, res.Items)
			}
		}
	})

	t.Run("sort_desc_with_tie_breaker", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		for i := 0; i < 3; i++ {
			if _, err := repo.Create(ctx, input("Same", 500, 500)); err != nil {
				t.Fatalf("seed: %v", err)
			}
		}
		res, err := repo.ListPaginated(ctx, repository.ClientQuery{
			Page:      repository.Page{Limit: 10},
			SortField: repository.SortBySalary,
			Desc:      true,
		})
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		for i := 1; i < len(res.Items); i++ {
			if res.Items[i-1].ID > res.Items[i].ID {
				t.Fatalf("equal salaries must come back in id order: %+v", res.Items)
			}
		}
	})

	t.Run("unknown_sort_rejected", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		_, err := repo.ListPaginated(context.Background(), repository.ClientQuery{
			Page:      repository.Page{Limit: 10},
			SortField: repository.SortField("name; DROP TABLE clients"),
		})
		if !errors.Is(err, repository.ErrInvalidSort) {
			t.Fatalf("expected ErrInvalidSort, got %v", err)
		}
	})

	t.Run("name_stored_as_sent", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		for _, name := range []string{"  Eduardo ", "   "} {
			created, err := repo.Create(context.Background(), input(name, 1, 1))
			if err != nil {
				t.Fatalf("create %q: %v", name, err)
			}
			got, err := repo.GetByID(context.Background(), created.ID)
			if err != nil {
				t.Fatalf("get %q: %v", name, err)
			}
			if got.Name != name {
				t.Fatalf("name changed: sent %q, stored %q", name, got.Name)
			}
		}
	})

	t.Run("filter_folds_non_ascii_case", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		seed(t, repo, "Éduardo", "Maria")
		res, err := repo.ListPaginated(context.Background(), repository.ClientQuery{
			Page:       repository.Page{Limit: 10},
			SortField:  repository.SortByID,
			NameFilter: "édu",
		})
		if err != nil {
			t.Fatalf("filter: %v", err)
		}
		if res.Total != 1 || len(res.Items) != 1 || res.Items[0].Name != "Éduardo" {
			t.Fatalf("expected Éduardo only, got total=%d items=%+v", res.Total, res.Items)
		}
	})

	t.Run("large_limit_not_truncated", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		batch := make([]model.Client, 120)
		for i := range batch {
			batch[i] = model.Client{Name: fmt.Sprintf("Client %03d", i), Salary: 1, CompanyValue: 1}
		}
		if _, err := repo.InsertMany(context.Background(), batch); err != nil {
			t.Fatalf("insert many: %v", err)
		}
		res, err := repo.ListPaginated(context.Background(), repository.ClientQuery{
			Page:      repository.Page{Limit: 120},
			SortField: repository.SortByID,
		})
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if res.Total != 120 || len(res.Items) != 120 {
			t.Fatalf("expected 120 rows and total 120, got %d rows total=%d", len(res.Items), res.Total)
		}
	})

	t.Run("insert_many", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		batch := []model.Client{
			{Name: "Bulk 1", Salary: 2000.5, CompanyValue: 20000},
			{Name: "Bulk 2", Salary: 3000, CompanyValue: 30000.25},
			{Name: "Bulk 3", Salary: 4000, CompanyValue: 40000},
		}
		n, err := repo.InsertMany(ctx, batch)
		if err != nil || n != 3 {
			t.Fatalf("insert many: n=%d err=%v", n, err)
		}
		all, err := repo.ListAll(ctx)
		if err != nil || len(all) != 3 {
			t.Fatalf("expected 3 rows, got %d err=%v", len(all), err)
		}
		if all[0].Salary != 2000.5 || all[1].CompanyValue != 30000.25 {
			t.Fatalf("decimal values not preserved: %+v", all)
		}
	})
}

func RunTxManagerContract(t *testing.T, makeTx TxFactory) {
	t.Helper()

	t.Run("rollback_on_error", func(t *testing.T) {
		tx, repo, cleanup := makeTx(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		boom := errors.New("boom")
		err := tx.WithinTx(ctx, func(ctx context.Context) error {
			if _, err := repo.InsertMany(ctx, []model.Client{{Name: "Tx", Salary: 1, CompanyValue: 1}}); err != nil {
				return err
			}
			return boom
		})
		if !errors.Is(err, boom) {
			t.Fatalf("expected boom, got %v", err)
		}
		all, err := repo.ListAll(ctx)
		if err != nil || len(all) != 0 {
			t.Fatalf("rollback failed: rows=%d err=%v", len(all), err)
		}
	})

	t.Run("commit_on_success", func(t *testing.T) {
		tx, repo, cleanup := makeTx(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		err := tx.WithinTx(ctx, func(ctx context.Context) error {
			_, err := repo.InsertMany(ctx, []model.Client{{Name: "Tx", Salary: 1, CompanyValue: 1}})
			return err
		})
		if err != nil {
			t.Fatalf("within tx: %v", err)
		}
		all, err := repo.ListAll(ctx)
		if err != nil || len(all) != 1 {
			t.Fatalf("commit failed: rows=%d err=%v", len(all), err)
		}
	})
}

func RunPingerContract(t *testing.T, makePinger PingerFactory) {
	t.Helper()
	p, cleanup := makePinger(t)
	t.Cleanup(cleanup)
	if err := p.Ping(context.Background()); err != nil {
		t.Fatalf("ping: %v", err)
	}
}
