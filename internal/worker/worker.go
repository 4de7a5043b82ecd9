// Package worker runs the match ingestion loop: claim the next pending match,
// fetch it from the external source, materialize the entity graph, run the
// automation checks and persist the final state. One worker goroutine per
// process; the claim step is atomic so additional workers would be safe but
// are not started by default.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"otr-data-worker/internal/checks"
	"otr-data-worker/internal/domain"
	"otr-data-worker/internal/materialize"
	"otr-data-worker/internal/observability"
	"otr-data-worker/internal/storage"
	"otr-data-worker/internal/verification"
)

// DefaultIdleInterval is how long the loop sleeps when no match is pending.
const DefaultIdleInterval = 5 * time.Second

// Worker is the ingestion loop.
type Worker struct {
	matches      storage.MatchStore
	beatmaps     storage.BeatmapStore
	source       MatchSource
	materializer *materialize.Materializer
	engine       *checks.Engine
	audit        storage.CheckAuditStore
	idleInterval time.Duration
	logger       *log.Logger
	metrics      *observability.Metrics
}

// Options contains configuration for creating a Worker.
type Options struct {
	MatchStore   storage.MatchStore
	BeatmapStore storage.BeatmapStore
	Source       MatchSource
	Materializer *materialize.Materializer
	Engine       *checks.Engine
	AuditStore   storage.CheckAuditStore // optional, nil disables the audit trail
	IdleInterval time.Duration           // default: DefaultIdleInterval
	Logger       *log.Logger
	Metrics      *observability.Metrics // optional
}

// New creates a new Worker.
func New(opts Options) *Worker {
	idleInterval := opts.IdleInterval
	if idleInterval == 0 {
		idleInterval = DefaultIdleInterval
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	return &Worker{
		matches:      opts.MatchStore,
		beatmaps:     opts.BeatmapStore,
		source:       opts.Source,
		materializer: opts.Materializer,
		engine:       opts.Engine,
		audit:        opts.AuditStore,
		idleInterval: idleInterval,
		logger:       logger,
		metrics:      opts.Metrics,
	}
}

// Run executes the ingestion loop until the context is cancelled. A single
// match's failure never terminates the loop; the failed match is marked
// FetchFailed and the loop moves on.
func (w *Worker) Run(ctx context.Context) error {
	w.logger.Println("Starting match data worker...")
	if w.metrics != nil {
		w.metrics.WorkerRunning.Set(1)
		defer w.metrics.WorkerRunning.Set(0)
	}

	for {
		if err := ctx.Err(); err != nil {
			w.logger.Println("Worker stopping...")
			return err
		}

		claimed, err := w.matches.ClaimNextPending(ctx)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				if w.metrics != nil {
					w.metrics.IdlePolls.Inc()
				}
				if !w.sleep(ctx) {
					w.logger.Println("Worker stopping...")
					return ctx.Err()
				}
				continue
			}
			if ctx.Err() != nil {
				w.logger.Println("Worker stopping...")
				return ctx.Err()
			}
			w.logger.Printf("Failed to claim pending match: %v", err)
			if !w.sleep(ctx) {
				return ctx.Err()
			}
			continue
		}

		w.processMatch(ctx, claimed)
	}
}

// sleep waits one idle interval, returning false if the context was cancelled.
func (w *Worker) sleep(ctx context.Context) bool {
	timer := time.NewTimer(w.idleInterval)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

// processMatch runs one full pipeline iteration for a claimed match. All
// failure modes are absorbed here: the match is marked FetchFailed with its
// verification status unchanged and the loop continues.
func (w *Worker) processMatch(ctx context.Context, claimed *domain.Match) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			w.logger.Printf("Panic while processing match %d: %v", claimed.OsuID, r)
			w.markFailed(ctx, claimed)
		}
	}()

	payload, err := w.source.GetMatch(ctx, claimed.OsuID)
	if err != nil {
		if w.metrics != nil {
			w.metrics.SourceFetches.WithLabelValues("match", "error").Inc()
		}
		w.logger.Printf("Failed to fetch match %d: %v", claimed.OsuID, err)
		w.markFailed(ctx, claimed)
		return
	}
	if w.metrics != nil {
		w.metrics.SourceFetches.WithLabelValues("match", "ok").Inc()
	}

	match, err := w.materializer.Materialize(ctx, payload)
	if err != nil {
		w.logger.Printf("Failed to materialize match %d: %v", claimed.OsuID, err)
		w.markFailed(ctx, claimed)
		return
	}
	if match.ProcessingStatus == domain.ProcessingDone {
		w.logger.Printf("Match %d already processed, skipping", match.OsuID)
		return
	}

	resolved, err := w.resolvedBeatmaps(ctx, match)
	if err != nil {
		w.logger.Printf("Failed to resolve beatmaps for match %d: %v", claimed.OsuID, err)
		w.markFailed(ctx, claimed)
		return
	}

	prior := match.VerificationStatus
	passed, outcomes := w.engine.ProcessMatchTree(match, resolved)
	status := verification.Resolve(prior, passed)
	match.VerificationStatus = status

	if _, err := w.matches.PersistMatchGraph(ctx, match); err != nil {
		w.logger.Printf("Failed to persist match %d: %v", claimed.OsuID, err)
		w.markFailed(ctx, claimed)
		return
	}
	if err := w.matches.UpdateVerificationState(ctx, match.OsuID, domain.ProcessingDone, status, match.RejectionReason); err != nil {
		w.logger.Printf("Failed to update state of match %d: %v", claimed.OsuID, err)
		w.markFailed(ctx, claimed)
		return
	}

	w.auditOutcomes(ctx, match.OsuID, outcomes)
	w.recordResult(status, match.RejectionReason, time.Since(start))
	w.logger.Printf("Match %d was processed as %s", match.OsuID, status)
}

// resolvedBeatmaps returns the set of the match's beatmap ids present in the
// store. Already ensured by the materializer; ids that still failed to fetch
// stay absent and fail the beatmap check.
func (w *Worker) resolvedBeatmaps(ctx context.Context, m *domain.Match) (checks.BeatmapSet, error) {
	ids := make([]int64, 0, len(m.Games))
	for _, g := range m.Games {
		ids = append(ids, g.BeatmapOsuID)
	}
	existing, err := w.beatmaps.ExistingIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("check stored beatmaps: %w", err)
	}
	return checks.BeatmapSet(existing), nil
}

// markFailed records a fetch failure, leaving the verification status as it
// was when the match was claimed.
func (w *Worker) markFailed(ctx context.Context, claimed *domain.Match) {
	if w.metrics != nil {
		w.metrics.MatchesFailed.Inc()
	}
	err := w.matches.UpdateVerificationState(ctx, claimed.OsuID,
		domain.ProcessingFetchFailed, claimed.VerificationStatus, claimed.RejectionReason)
	if err != nil {
		w.logger.Printf("Failed to mark match %d as failed: %v", claimed.OsuID, err)
	}
}

// auditOutcomes writes the check outcome trail. Audit failures are logged and
// swallowed; the trail is diagnostic, not authoritative.
func (w *Worker) auditOutcomes(ctx context.Context, matchOsuID int64, outcomes []*domain.CheckOutcome) {
	if w.audit == nil || len(outcomes) == 0 {
		return
	}
	if err := w.audit.InsertOutcomes(ctx, outcomes); err != nil {
		w.logger.Printf("Failed to record check outcomes for match %d: %v", matchOsuID, err)
	}
}

func (w *Worker) recordResult(status domain.VerificationStatus, reason domain.RejectionReason, elapsed time.Duration) {
	if w.metrics == nil {
		return
	}
	w.metrics.MatchesProcessed.Inc()
	w.metrics.ProcessingLatency.Observe(elapsed.Seconds())
	switch status {
	case domain.VerificationPreVerified:
		w.metrics.MatchesPreVerified.Inc()
	case domain.VerificationRejected:
		w.metrics.MatchesRejected.Inc()
		w.metrics.RejectionsByReason.WithLabelValues(reason.String()).Inc()
	case domain.VerificationVerified:
		w.metrics.MatchesVerified.Inc()
	}
}
