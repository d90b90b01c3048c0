package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mrgilbot/gilbot/internal/domain"
	"github.com/mrgilbot/gilbot/internal/storage"
)

// Manager owns the opaque session identifier persisted under a single
// storage key. Reset never mutates a session: it mints a replacement.
type Manager struct {
	store storage.Store
	key   string
}

func NewManager(store storage.Store, key string) *Manager {
	return &Manager{store: store, key: key}
}

// GetOrCreate returns the persisted session id if one exists, otherwise
// mints a fresh one and persists it. Idempotent across repeated calls.
func (m *Manager) GetOrCreate(ctx context.Context) (domain.Session, error) {
	data, err := m.store.Get(ctx, m.key)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return domain.Session{}, fmt.Errorf("load session id: %w", err)
	}
	if err == nil {
		if id := strings.TrimSpace(string(data)); id != "" {
			return domain.Session{ID: id}, nil
		}
	}
	return m.mint(ctx)
}

// Reset mints a new session id and persists it. Clearing the history
// that referenced the old id is the caller's half of the reset; the
// conversation controller performs both under one lock.
func (m *Manager) Reset(ctx context.Context) (domain.Session, error) {
	return m.mint(ctx)
}

func (m *Manager) mint(ctx context.Context) (domain.Session, error) {
	sess := domain.Session{ID: uuid.NewString(), CreatedAt: time.Now()}
	if err := m.store.Set(ctx, m.key, []byte(sess.ID)); err != nil {
		return domain.Session{}, fmt.Errorf("persist session id: %w", err)
	}
	return sess, nil
}
