package memory

import (
	"context"
	"sync"
	"time"

	"otr-data-worker/internal/domain"
	"otr-data-worker/internal/storage"
)

// BeatmapStore is an in-memory implementation of storage.BeatmapStore.
type BeatmapStore struct {
	mu     sync.RWMutex
	nextID int64
	data   map[int64]*domain.Beatmap // keyed by osu! beatmap id
}

// NewBeatmapStore creates a new in-memory beatmap store.
func NewBeatmapStore() *BeatmapStore {
	return &BeatmapStore{
		data: make(map[int64]*domain.Beatmap),
	}
}

// Compile-time interface check.
var _ storage.BeatmapStore = (*BeatmapStore)(nil)

// ExistingIDs returns the subset of the given osu! beatmap ids already stored.
func (s *BeatmapStore) ExistingIDs(_ context.Context, osuIDs []int64) (map[int64]bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	existing := make(map[int64]bool)
	for _, id := range osuIDs {
		if _, ok := s.data[id]; ok {
			existing[id] = true
		}
	}
	return existing, nil
}

// BulkInsert adds beatmaps. Conflicts on osu! id mean "already exists" and are
// skipped silently.
func (s *BeatmapStore) BulkInsert(_ context.Context, beatmaps []*domain.Beatmap) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, b := range beatmaps {
		if b == nil || b.OsuID == 0 {
			return storage.ErrInvalidInput
		}
		if _, exists := s.data[b.OsuID]; exists {
			continue
		}
		s.nextID++
		beatmapCopy := *b
		beatmapCopy.ID = s.nextID
		if beatmapCopy.Created.IsZero() {
			beatmapCopy.Created = time.Now().UTC()
		}
		s.data[b.OsuID] = &beatmapCopy
	}
	return nil
}

// GetByOsuID retrieves a beatmap by osu! id. Returns ErrNotFound if not exists.
func (s *BeatmapStore) GetByOsuID(_ context.Context, osuID int64) (*domain.Beatmap, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, exists := s.data[osuID]
	if !exists {
		return nil, storage.ErrNotFound
	}
	beatmapCopy := *b
	return &beatmapCopy, nil
}
