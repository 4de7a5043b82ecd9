package memory

import (
	"context"
	"sync"
	"time"

	"otr-data-worker/internal/domain"
	"otr-data-worker/internal/storage"
)

// PlayerStore is an in-memory implementation of storage.PlayerStore.
type PlayerStore struct {
	mu     sync.RWMutex
	nextID int64
	data   map[int64]*domain.Player // keyed by osu! user id
}

// NewPlayerStore creates a new in-memory player store.
func NewPlayerStore() *PlayerStore {
	return &PlayerStore{
		data: make(map[int64]*domain.Player),
	}
}

// Compile-time interface check.
var _ storage.PlayerStore = (*PlayerStore)(nil)

// EnsureExists creates player rows for unknown osu! user ids.
func (s *PlayerStore) EnsureExists(_ context.Context, osuIDs []int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range osuIDs {
		if id == 0 {
			return storage.ErrInvalidInput
		}
		if _, exists := s.data[id]; exists {
			continue
		}
		s.nextID++
		s.data[id] = &domain.Player{
			ID:      s.nextID,
			OsuID:   id,
			Created: time.Now().UTC(),
		}
	}
	return nil
}

// GetByOsuID retrieves a player by osu! id. Returns ErrNotFound if not exists.
func (s *PlayerStore) GetByOsuID(_ context.Context, osuID int64) (*domain.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, exists := s.data[osuID]
	if !exists {
		return nil, storage.ErrNotFound
	}
	playerCopy := *p
	return &playerCopy, nil
}
