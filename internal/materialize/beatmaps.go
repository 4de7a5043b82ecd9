package materialize

import (
	"context"
	"fmt"
	"log"

	"github.com/prometheus/client_golang/prometheus"

	"otr-data-worker/internal/domain"
	"otr-data-worker/internal/osuapi"
	"otr-data-worker/internal/storage"
)

// BeatmapResolver ensures the beatmaps referenced by a match are stored,
// fetching only the ones the store does not have yet.
type BeatmapResolver struct {
	source  BeatmapSource
	store   storage.BeatmapStore
	logger  *log.Logger
	fetched prometheus.Counter
}

// NewBeatmapResolver creates a new BeatmapResolver. fetched, when non-nil,
// counts beatmaps fetched from the source.
func NewBeatmapResolver(source BeatmapSource, store storage.BeatmapStore, logger *log.Logger, fetched prometheus.Counter) *BeatmapResolver {
	if logger == nil {
		logger = log.Default()
	}
	return &BeatmapResolver{source: source, store: store, logger: logger, fetched: fetched}
}

// Resolve fetches and inserts the beatmaps among osuIDs that are not stored
// yet. A failed fetch skips only that id; the rest of the batch proceeds.
// All successfully fetched beatmaps are inserted in one bulk operation, where
// an id raced in by a concurrent worker counts as already stored, not as an
// error. Returns the number of beatmaps fetched and handed to the insert.
func (r *BeatmapResolver) Resolve(ctx context.Context, osuIDs []int64) (int, error) {
	distinct := distinctIDs(osuIDs)
	if len(distinct) == 0 {
		return 0, nil
	}

	existing, err := r.store.ExistingIDs(ctx, distinct)
	if err != nil {
		return 0, fmt.Errorf("check existing beatmaps: %w", err)
	}

	var fetched []*domain.Beatmap
	for _, id := range distinct {
		if existing[id] {
			continue
		}
		payload, err := r.source.GetBeatmap(ctx, id)
		if err != nil {
			r.logger.Printf("Failed to fetch beatmap %d, skipping: %v", id, err)
			continue
		}
		fetched = append(fetched, beatmapFromPayload(payload))
	}

	if len(fetched) == 0 {
		return 0, nil
	}
	if err := r.store.BulkInsert(ctx, fetched); err != nil {
		return 0, fmt.Errorf("bulk insert beatmaps: %w", err)
	}
	if r.fetched != nil {
		r.fetched.Add(float64(len(fetched)))
	}
	return len(fetched), nil
}

// distinctIDs deduplicates ids preserving first-seen order.
func distinctIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	var distinct []int64
	for _, id := range ids {
		if id == 0 {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		distinct = append(distinct, id)
	}
	return distinct
}

// beatmapFromPayload converts an API beatmap payload into the domain entity.
func beatmapFromPayload(p *osuapi.BeatmapPayload) *domain.Beatmap {
	return &domain.Beatmap{
		OsuID:          p.BeatmapID,
		Artist:         p.Artist,
		Title:          p.Title,
		DifficultyName: p.Version,
		MapperName:     p.Creator,
		MapperOsuID:    p.CreatorID,
		Ruleset:        domain.Ruleset(p.Mode),
		StarRating:     p.DifficultyRating,
		BPM:            p.BPM,
		CS:             p.CS,
		AR:             p.AR,
		OD:             p.OD,
		HP:             p.HP,
		LengthSec:      p.TotalLength,
	}
}
