package postgres

import (
	"context"
	"fmt"

	"otr-data-worker/internal/domain"
	"otr-data-worker/internal/storage"
)

// BeatmapStore implements storage.BeatmapStore using PostgreSQL.
type BeatmapStore struct {
	pool *Pool
}

// NewBeatmapStore creates a new BeatmapStore.
func NewBeatmapStore(pool *Pool) *BeatmapStore {
	return &BeatmapStore{pool: pool}
}

// Compile-time interface check.
var _ storage.BeatmapStore = (*BeatmapStore)(nil)

// ExistingIDs returns the subset of the given osu! beatmap ids already stored.
func (s *BeatmapStore) ExistingIDs(ctx context.Context, osuIDs []int64) (map[int64]bool, error) {
	existing := make(map[int64]bool)
	if len(osuIDs) == 0 {
		return existing, nil
	}

	query := `SELECT osu_id FROM beatmaps WHERE osu_id = ANY($1)`

	rows, err := s.pool.Query(ctx, query, osuIDs)
	if err != nil {
		return nil, fmt.Errorf("get existing beatmap ids: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan beatmap id: %w", err)
		}
		existing[id] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate beatmap id rows: %w", err)
	}

	return existing, nil
}

// BulkInsert adds beatmaps in one transaction. Conflicts on osu! id mean
// "already exists" (possibly raced by a concurrent worker) and are ignored.
func (s *BeatmapStore) BulkInsert(ctx context.Context, beatmaps []*domain.Beatmap) error {
	if len(beatmaps) == 0 {
		return nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin bulk insert beatmaps: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO beatmaps (osu_id, artist, title, difficulty_name, mapper_name,
			mapper_osu_id, ruleset, star_rating, bpm, cs, ar, od, hp, length_sec)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (osu_id) DO NOTHING
	`

	for _, b := range beatmaps {
		if b == nil || b.OsuID == 0 {
			return storage.ErrInvalidInput
		}
		_, err = tx.Exec(ctx, query,
			b.OsuID,
			b.Artist,
			b.Title,
			b.DifficultyName,
			b.MapperName,
			b.MapperOsuID,
			int16(b.Ruleset),
			b.StarRating,
			b.BPM,
			b.CS,
			b.AR,
			b.OD,
			b.HP,
			b.LengthSec,
		)
		if err != nil {
			return fmt.Errorf("insert beatmap %d: %w", b.OsuID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit bulk insert beatmaps: %w", err)
	}
	return nil
}

// GetByOsuID retrieves a beatmap by osu! id. Returns ErrNotFound if not exists.
func (s *BeatmapStore) GetByOsuID(ctx context.Context, osuID int64) (*domain.Beatmap, error) {
	query := `
		SELECT id, osu_id, artist, title, difficulty_name, mapper_name, mapper_osu_id,
			ruleset, star_rating, bpm, cs, ar, od, hp, length_sec, created
		FROM beatmaps
		WHERE osu_id = $1
	`

	var b domain.Beatmap
	var ruleset int16

	err := s.pool.QueryRow(ctx, query, osuID).Scan(
		&b.ID,
		&b.OsuID,
		&b.Artist,
		&b.Title,
		&b.DifficultyName,
		&b.MapperName,
		&b.MapperOsuID,
		&ruleset,
		&b.StarRating,
		&b.BPM,
		&b.CS,
		&b.AR,
		&b.OD,
		&b.HP,
		&b.LengthSec,
		&b.Created,
	)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get beatmap by osu id: %w", err)
	}

	b.Ruleset = domain.Ruleset(ruleset)
	return &b, nil
}
