package materialize

import (
	"context"

	"otr-data-worker/internal/osuapi"
)

// BeatmapSource provides raw beatmap data from the external API.
type BeatmapSource interface {
	// GetBeatmap returns the beatmap payload for an osu! beatmap id.
	// Returns osuapi.ErrNotFound when the API has no such beatmap.
	GetBeatmap(ctx context.Context, beatmapID int64) (*osuapi.BeatmapPayload, error)
}
