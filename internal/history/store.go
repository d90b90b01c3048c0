package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/mrgilbot/gilbot/internal/domain"
	"github.com/mrgilbot/gilbot/internal/storage"
)

// Store is the ordered, append-only log of conversation turns. Every
// mutation is followed by a synchronous write-through so a reload never
// loses a terminal turn.
type Store struct {
	mu    sync.Mutex
	store storage.Store
	key   string
	turns []domain.Turn
}

// Patch updates a turn's status and answer in place. Turns are located
// by stable id, never by position.
type Patch struct {
	Status domain.TurnStatus
	Answer *domain.Answer
}

func NewStore(store storage.Store, key string) *Store {
	return &Store{store: store, key: key}
}

// Load rebuilds the in-memory sequence from storage. Absent or corrupt
// stored bytes fall back to an empty history rather than failing.
func (s *Store) Load(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.store.Get(ctx, s.key)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			slog.Warn("load history", "key", s.key, "error", err)
		}
		s.turns = nil
		return
	}

	var turns []domain.Turn
	if err := json.Unmarshal(data, &turns); err != nil {
		slog.Warn("discarding corrupt history", "key", s.key, "error", err)
		s.turns = nil
		return
	}

	// A turn persisted while still pending belongs to a round trip that
	// died with the previous process. It can never complete, so it
	// vanishes instead of reloading stuck.
	kept := turns[:0]
	for _, turn := range turns {
		if turn.Terminal() {
			kept = append(kept, turn)
		}
	}
	if dropped := len(turns) - len(kept); dropped > 0 {
		slog.Warn("dropping unfinished turns", "key", s.key, "count", dropped)
	}
	s.turns = kept
}

func (s *Store) Append(ctx context.Context, turn domain.Turn) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.turns = append(s.turns, turn)
	return s.flush(ctx)
}

func (s *Store) UpdateTurn(ctx context.Context, turnID string, patch Patch) (domain.Turn, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.turns {
		if s.turns[i].ID != turnID {
			continue
		}
		s.turns[i].Status = patch.Status
		s.turns[i].Answer = patch.Answer
		if err := s.flush(ctx); err != nil {
			return s.turns[i], err
		}
		return s.turns[i], nil
	}
	return domain.Turn{}, domain.ErrTurnNotFound
}

func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.turns = nil
	return s.flush(ctx)
}

// Turns returns a copy of the current sequence in chronological order.
func (s *Store) Turns() []domain.Turn {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.Turn, len(s.turns))
	copy(out, s.turns)
	return out
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.turns)
}

func (s *Store) flush(ctx context.Context) error {
	data, err := json.Marshal(s.turns)
	if err != nil {
		return fmt.Errorf("encode history: %w", err)
	}
	if err := s.store.Set(ctx, s.key, data); err != nil {
		return fmt.Errorf("persist history: %w", err)
	}
	return nil
}
