package storage

import (
	"context"
	"io/fs"
	"os"
	"testing"

	"github.com/joho/godotenv"
	gilbotroot "github.com/mrgilbot/gilbot"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Runs only against a real database: set TEST_DATABASE_URL (or put it in
// a local .env) to enable.
func TestPostgresRoundTrip(t *testing.T) {
	godotenv.Load("../../.env")
	databaseURL := os.Getenv("TEST_DATABASE_URL")
	if databaseURL == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()

	pool, err := NewPool(ctx, databaseURL)
	require.NoError(t, err)
	defer pool.Close()

	migrationsFS, err := fs.Sub(gilbotroot.MigrationsFS, "migrations")
	require.NoError(t, err)
	require.NoError(t, RunMigrations(databaseURL, migrationsFS))

	store := NewPostgres(pool)
	key := "test:roundtrip"
	defer store.Delete(ctx, key)

	_, err = store.Get(ctx, key)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.Set(ctx, key, []byte("v1")))
	value, err := store.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, []byte("v1"), value)

	// Upsert replaces.
	require.NoError(t, store.Set(ctx, key, []byte("v2")))
	value, err = store.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, []byte("v2"), value)

	require.NoError(t, store.Delete(ctx, key))
	_, err = store.Get(ctx, key)
	assert.ErrorIs(t, err, ErrNotFound)
}
