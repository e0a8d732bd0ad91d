package product

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"

	"storefront/internal/commerce"
	"storefront/internal/domain"
	"storefront/internal/migrate"
)

func TestPostgres_UpsertListAndGet(t *testing.T) {
	ctx := context.Background()
	pool := testPool(ctx, t)
	defer pool.Close()

	if err := migrate.Apply(ctx, pool, nil); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	resetTables(ctx, t, pool)

	repo := NewPostgres(pool, nil)

	p := commerce.Product{ID: "gid://shopify/Product/1", Title: "Mug", Handle: "mug", Vendor: "Kiln"}
	if err := repo.Upsert(ctx, p); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	p.Title = "Big Mug"
	if err := repo.Upsert(ctx, p); err != nil {
		t.Fatalf("Upsert update: %v", err)
	}

	list, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 1 || list[0].Title != "Big Mug" {
		t.Fatalf("unexpected list %+v", list)
	}

	got, err := repo.GetByHandle(ctx, "mug")
	if err != nil {
		t.Fatalf("GetByHandle: %v", err)
	}
	if got.Vendor != "Kiln" {
		t.Fatalf("unexpected product %+v", got)
	}

	if _, err := repo.GetByHandle(ctx, "missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPostgres_UpsertRequiresHandle(t *testing.T) {
	repo := NewPostgres(nil, nil)
	if err := repo.Upsert(context.Background(), commerce.Product{Title: "No handle"}); err == nil {
		t.Fatalf("expected error for empty handle")
	}
}

func testPool(ctx context.Context, t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		t.Skip("TEST_DB_DSN not set")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	return pool
}

func resetTables(ctx context.Context, t *testing.T, pool *pgxpool.Pool) {
	t.Helper()
	if _, err := pool.Exec(ctx, `TRUNCATE catalog_products`); err != nil {
		t.Fatalf("truncate tables: %v", err)
	}
}
