package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/db"
	"storefront/internal/migrate"
)

func exercise(t *testing.T, s Storage) {
	t.Helper()
	ctx := context.Background()

	_, ok, err := s.Get(ctx, "shopify-cart-id:a")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Set(ctx, "shopify-cart-id:a", "cart-1"))
	require.NoError(t, s.Set(ctx, "shopify-cart-id:b", "cart-2"))
	require.NoError(t, s.Set(ctx, "shopify-cart-id:a", "cart-3"))

	v, ok, err := s.Get(ctx, "shopify-cart-id:a")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "cart-3", v)

	require.NoError(t, s.Delete(ctx, "shopify-cart-id:a"))
	require.NoError(t, s.Delete(ctx, "shopify-cart-id:a"))
	_, ok, err = s.Get(ctx, "shopify-cart-id:a")
	require.NoError(t, err)
	assert.False(t, ok)

	v, _, err = s.Get(ctx, "shopify-cart-id:b")
	require.NoError(t, err)
	assert.Equal(t, "cart-2", v)
}

func TestMemory(t *testing.T) {
	exercise(t, NewMemory())
}

func TestFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "carts.json")
	exercise(t, NewFile(path))

	// A second handle sees what the first wrote.
	v, ok, err := NewFile(path).Get(context.Background(), "shopify-cart-id:b")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "cart-2", v)
}

func TestFileMissingDirectoryIsUnavailable(t *testing.T) {
	f := NewFile(filepath.Join(t.TempDir(), "missing", "carts.json"))

	err := f.Set(context.Background(), "k", "v")
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.ErrorIs(t, f.Ping(context.Background()), ErrUnavailable)
}

func TestFileCorruptContents(t *testing.T) {
	path := filepath.Join(t.TempDir(), "carts.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, _, err := NewFile(path).Get(context.Background(), "k")
	assert.Error(t, err)
}

func TestPostgres(t *testing.T) {
	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		t.Skip("TEST_DB_DSN not set")
	}
	ctx := context.Background()
	pool, err := db.Connect(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	require.NoError(t, migrate.Apply(ctx, pool, nil))
	_, err = pool.Exec(ctx, `DELETE FROM cart_storage WHERE key LIKE 'shopify-cart-id:%'`)
	require.NoError(t, err)

	s := NewPostgres(pool)
	require.NoError(t, s.Ping(ctx))
	exercise(t, s)
}
