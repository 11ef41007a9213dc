package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/aussiebroadwan/bndylive/internal/live/store"
	"github.com/aussiebroadwan/bndylive/internal/live/store/drivers/sqlite"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T, dsn string) *sqlite.Store {
	t.Helper()

	s, err := sqlite.NewStore(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.ApplyMigrations())
	return s
}

func TestStoreCRUD(t *testing.T) {
	ctx := context.Background()
	s := newStore(t, ":memory:")

	require.NoError(t, s.Ping(ctx))

	_, err := s.Get(ctx, store.DefaultTokenKey)
	require.ErrorIs(t, err, store.ErrNotFound)

	require.NoError(t, s.Set(ctx, store.DefaultTokenKey, "first"))
	require.NoError(t, s.Set(ctx, store.DefaultTokenKey, "second"))

	v, err := s.Get(ctx, store.DefaultTokenKey)
	require.NoError(t, err)
	require.Equal(t, "second", v)

	require.NoError(t, s.Delete(ctx, store.DefaultTokenKey))
	require.NoError(t, s.Delete(ctx, store.DefaultTokenKey))

	_, err = s.Get(ctx, store.DefaultTokenKey)
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestStoreMigrationsAreIdempotent(t *testing.T) {
	s := newStore(t, ":memory:")
	require.NoError(t, s.ApplyMigrations())
}

func TestStorePersistsAcrossOpen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "live.db")

	first, err := sqlite.NewStore(path)
	require.NoError(t, err)
	require.NoError(t, first.ApplyMigrations())
	require.NoError(t, first.Set(ctx, "k", "v"))
	require.NoError(t, first.Close())

	second := newStore(t, path)
	v, err := second.Get(ctx, "k")
	require.NoError(t, err)
	require.Equal(t, "v", v)
}
