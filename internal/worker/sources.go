package worker

import (
	"context"

	"otr-data-worker/internal/osuapi"
)

// MatchSource fetches raw match payloads from the external source.
// Implemented by osuapi.Client and the stub source used in tests.
type MatchSource interface {
	// GetMatch retrieves one match payload by osu! match id.
	// Returns osuapi.ErrNotFound when the source does not know the match.
	GetMatch(ctx context.Context, matchID int64) (*osuapi.MatchPayload, error)
}
