package storage

import (
	"context"

	"otr-data-worker/internal/domain"
)

// MatchStore provides access to matches, games and scores storage.
type MatchStore interface {
	// Enqueue inserts a pending match link by osu! id, optionally pre-marked with a
	// verification status (submit Verified for matches an administrator already
	// confirmed elsewhere). Returns ErrDuplicateKey if the osu! id exists.
	Enqueue(ctx context.Context, osuID, tournamentID int64, verification domain.VerificationStatus) error

	// ClaimNextPending atomically claims the oldest match whose processing status
	// is NotProcessed, moving it to Materialized so that concurrent workers never
	// claim the same match twice. Returns ErrNotFound when nothing is eligible.
	ClaimNextPending(ctx context.Context) (*domain.Match, error)

	// GetByOsuID retrieves a match with its full game/score graph.
	// Returns ErrNotFound if not exists.
	GetByOsuID(ctx context.Context, osuID int64) (*domain.Match, error)

	// PersistMatchGraph writes the match and its games and scores in one
	// all-or-nothing operation, idempotent on osu! ids: existing rows keep their
	// identity and are updated in place, never duplicated. Returns the stored
	// match graph.
	PersistMatchGraph(ctx context.Context, m *domain.Match) (*domain.Match, error)

	// UpdateVerificationState sets the processing and verification state of a
	// match. Returns ErrNotFound if the osu! id is unknown.
	UpdateVerificationState(ctx context.Context, osuID int64, processing domain.ProcessingStatus, verification domain.VerificationStatus, reason domain.RejectionReason) error

	// Requeue resets a failed or rejected match back to NotProcessed/Pending so
	// the worker picks it up again. Operator hook; the pipeline never calls it.
	Requeue(ctx context.Context, osuID int64) error
}

// BeatmapStore provides access to beatmaps storage.
type BeatmapStore interface {
	// ExistingIDs returns the subset of the given osu! beatmap ids already stored.
	ExistingIDs(ctx context.Context, osuIDs []int64) (map[int64]bool, error)

	// BulkInsert adds beatmaps in one operation. An insert conflict on osu! id
	// means the beatmap already exists and is not an error.
	BulkInsert(ctx context.Context, beatmaps []*domain.Beatmap) error

	// GetByOsuID retrieves a beatmap by osu! id. Returns ErrNotFound if not exists.
	GetByOsuID(ctx context.Context, osuID int64) (*domain.Beatmap, error)
}

// PlayerStore provides access to players storage.
type PlayerStore interface {
	// EnsureExists creates player rows for any osu! user ids not stored yet.
	// Known ids are left untouched.
	EnsureExists(ctx context.Context, osuIDs []int64) error

	// GetByOsuID retrieves a player by osu! id. Returns ErrNotFound if not exists.
	GetByOsuID(ctx context.Context, osuID int64) (*domain.Player, error)
}

// CheckAuditStore records automation check outcomes for the audit trail.
type CheckAuditStore interface {
	// InsertOutcomes appends the outcomes of one check engine run.
	InsertOutcomes(ctx context.Context, outcomes []*domain.CheckOutcome) error
}
