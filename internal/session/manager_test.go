package session

import (
	"context"
	"testing"

	"github.com/mrgilbot/gilbot/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetOrCreateIsIdempotent(t *testing.T) {
	ctx := context.Background()
	mem := storage.NewMemory()
	manager := NewManager(mem, "chat:1:session_id")

	first, err := manager.GetOrCreate(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, first.ID)

	second, err := manager.GetOrCreate(ctx)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
}

func TestSessionIDPersistsAsPlainString(t *testing.T) {
	ctx := context.Background()
	mem := storage.NewMemory()
	manager := NewManager(mem, "chat:1:session_id")

	sess, err := manager.GetOrCreate(ctx)
	require.NoError(t, err)

	stored, err := mem.Get(ctx, "chat:1:session_id")
	require.NoError(t, err)
	assert.Equal(t, sess.ID, string(stored))
}

func TestSurvivesReload(t *testing.T) {
	ctx := context.Background()
	mem := storage.NewMemory()

	first, err := NewManager(mem, "chat:1:session_id").GetOrCreate(ctx)
	require.NoError(t, err)

	second, err := NewManager(mem, "chat:1:session_id").GetOrCreate(ctx)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
}

func TestResetMintsDifferentID(t *testing.T) {
	ctx := context.Background()
	mem := storage.NewMemory()
	manager := NewManager(mem, "chat:1:session_id")

	before, err := manager.GetOrCreate(ctx)
	require.NoError(t, err)

	after, err := manager.Reset(ctx)
	require.NoError(t, err)
	assert.NotEqual(t, before.ID, after.ID)

	// The replacement is what subsequent calls observe.
	current, err := manager.GetOrCreate(ctx)
	require.NoError(t, err)
	assert.Equal(t, after.ID, current.ID)
}
