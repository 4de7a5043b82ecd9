package postgres

import (
	"context"
	"fmt"

	"otr-data-worker/internal/domain"
	"otr-data-worker/internal/storage"
)

// PlayerStore implements storage.PlayerStore using PostgreSQL.
type PlayerStore struct {
	pool *Pool
}

// NewPlayerStore creates a new PlayerStore.
func NewPlayerStore(pool *Pool) *PlayerStore {
	return &PlayerStore{pool: pool}
}

// Compile-time interface check.
var _ storage.PlayerStore = (*PlayerStore)(nil)

// EnsureExists creates player rows for unknown osu! user ids.
func (s *PlayerStore) EnsureExists(ctx context.Context, osuIDs []int64) error {
	if len(osuIDs) == 0 {
		return nil
	}

	query := `INSERT INTO players (osu_id) VALUES ($1) ON CONFLICT (osu_id) DO NOTHING`

	for _, id := range osuIDs {
		if id == 0 {
			return storage.ErrInvalidInput
		}
		if _, err := s.pool.Exec(ctx, query, id); err != nil {
			return fmt.Errorf("ensure player %d exists: %w", id, err)
		}
	}
	return nil
}

// GetByOsuID retrieves a player by osu! id. Returns ErrNotFound if not exists.
func (s *PlayerStore) GetByOsuID(ctx context.Context, osuID int64) (*domain.Player, error) {
	query := `SELECT id, osu_id, username, created FROM players WHERE osu_id = $1`

	var p domain.Player
	err := s.pool.QueryRow(ctx, query, osuID).Scan(&p.ID, &p.OsuID, &p.Username, &p.Created)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get player by osu id: %w", err)
	}
	return &p, nil
}
