// Package materialize converts raw osu! API match payloads into the internal
// Match/Game/Score entity graph. Materialization builds the graph in memory;
// persistence of the full graph happens in one store operation afterwards so
// that an abandoned run never leaves a partially written match behind.
package materialize

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"otr-data-worker/internal/domain"
	"otr-data-worker/internal/osuapi"
	"otr-data-worker/internal/storage"
)

// ErrUnprocessable is returned when a payload is missing required fields and
// cannot be turned into an entity graph.
var ErrUnprocessable = errors.New("match payload is unprocessable")

// Materializer builds Match entity graphs from external payloads.
type Materializer struct {
	matches  storage.MatchStore
	players  storage.PlayerStore
	beatmaps *BeatmapResolver
	logger   *log.Logger
}

// NewMaterializer creates a new Materializer.
func NewMaterializer(matches storage.MatchStore, players storage.PlayerStore, beatmaps *BeatmapResolver, logger *log.Logger) *Materializer {
	if logger == nil {
		logger = log.Default()
	}
	return &Materializer{
		matches:  matches,
		players:  players,
		beatmaps: beatmaps,
		logger:   logger,
	}
}

// Materialize converts one match payload into an entity graph ready for
// persistence, resolving beatmaps and players first. A match that already
// finished processing is returned as stored, untouched: re-ingestion of a Done
// match is a no-op. A match that exists but never completed keeps its identity
// and prior verification status while the graph is rebuilt from the payload.
func (m *Materializer) Materialize(ctx context.Context, payload *osuapi.MatchPayload) (*domain.Match, error) {
	if payload == nil || payload.Match.MatchID == 0 {
		return nil, fmt.Errorf("%w: missing match id", ErrUnprocessable)
	}
	if len(payload.Games) == 0 {
		return nil, fmt.Errorf("%w: match %d has no games", ErrUnprocessable, payload.Match.MatchID)
	}

	existing, err := m.matches.GetByOsuID(ctx, payload.Match.MatchID)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("look up match %d: %w", payload.Match.MatchID, err)
	}
	if existing != nil && existing.ProcessingStatus == domain.ProcessingDone {
		return existing, nil
	}

	beatmapIDs := make([]int64, 0, len(payload.Games))
	for _, g := range payload.Games {
		beatmapIDs = append(beatmapIDs, g.BeatmapID)
	}
	if _, err := m.beatmaps.Resolve(ctx, beatmapIDs); err != nil {
		return nil, fmt.Errorf("resolve beatmaps for match %d: %w", payload.Match.MatchID, err)
	}

	if err := m.players.EnsureExists(ctx, playerIDs(payload)); err != nil {
		return nil, fmt.Errorf("ensure players for match %d: %w", payload.Match.MatchID, err)
	}

	match := &domain.Match{
		OsuID:              payload.Match.MatchID,
		Name:               payload.Match.Name,
		StartTime:          payload.Match.StartTime.Time,
		EndTime:            timeFromPayload(payload.Match.EndTime),
		ProcessingStatus:   domain.ProcessingMaterialized,
		VerificationStatus: domain.VerificationPending,
		RejectionReason:    domain.RejectionNone,
	}
	if existing != nil {
		match.ID = existing.ID
		match.TournamentID = existing.TournamentID
		match.VerificationStatus = existing.VerificationStatus
		match.Created = existing.Created
	}

	for _, g := range payload.Games {
		match.Games = append(match.Games, gameFromPayload(match.OsuID, g))
	}

	return match, nil
}

// playerIDs collects the distinct osu! user ids referenced by a payload.
func playerIDs(payload *osuapi.MatchPayload) []int64 {
	var ids []int64
	for _, g := range payload.Games {
		for _, sc := range g.Scores {
			ids = append(ids, sc.UserID)
		}
	}
	return distinctIDs(ids)
}

// gameFromPayload converts one API game payload into the domain entity.
func gameFromPayload(matchOsuID int64, p osuapi.GamePayload) *domain.Game {
	game := &domain.Game{
		OsuID:              p.GameID,
		MatchOsuID:         matchOsuID,
		BeatmapOsuID:       p.BeatmapID,
		Ruleset:            domain.Ruleset(p.PlayMode),
		ScoringType:        domain.ScoringType(p.ScoringType),
		TeamType:           domain.TeamType(p.TeamType),
		Mods:               domain.Mods(p.Mods.Value),
		StartTime:          p.StartTime.Time,
		EndTime:            timeFromPayload(p.EndTime),
		VerificationStatus: domain.VerificationPending,
		RejectionReason:    domain.RejectionNone,
	}
	for _, sc := range p.Scores {
		game.Scores = append(game.Scores, scoreFromPayload(p, sc))
	}
	return game
}

// scoreFromPayload converts one API score payload into the domain entity.
// Lobby-forced mods apply on top of per-score mods.
func scoreFromPayload(g osuapi.GamePayload, p osuapi.ScorePayload) *domain.Score {
	score := &domain.Score{
		GameOsuID:   g.GameID,
		PlayerOsuID: p.UserID,
		Ruleset:     domain.Ruleset(g.PlayMode),
		TotalScore:  p.Score,
		Accuracy:    accuracy(domain.Ruleset(g.PlayMode), p),
		MaxCombo:    p.MaxCombo,
		CountMiss:   p.CountMiss,
		Mods:        domain.Mods(g.Mods.Value) | domain.Mods(p.EnabledMods.Value),
	}
	score.ResetValidity()
	return score
}

// accuracy computes [0,1] accuracy from hit counts for the given ruleset.
func accuracy(ruleset domain.Ruleset, p osuapi.ScorePayload) float64 {
	c50, c100, c300 := float64(p.Count50), float64(p.Count100), float64(p.Count300)
	miss := float64(p.CountMiss)
	geki, katu := float64(p.CountGeki), float64(p.CountKatu)

	var num, den float64
	switch ruleset {
	case domain.RulesetTaiko:
		num = c300 + 0.5*c100
		den = c300 + c100 + miss
	case domain.RulesetCatch:
		num = c300 + c100 + c50
		den = c300 + c100 + c50 + miss + katu
	case domain.RulesetMania:
		num = 300*(geki+c300) + 200*katu + 100*c100 + 50*c50
		den = 300 * (geki + c300 + katu + c100 + c50 + miss)
	default:
		num = 300*c300 + 100*c100 + 50*c50
		den = 300 * (c300 + c100 + c50 + miss)
	}

	if den == 0 {
		return 0
	}
	return num / den
}

func timeFromPayload(t *osuapi.Time) *time.Time {
	if t == nil || t.IsZero() {
		return nil
	}
	converted := t.Time
	return &converted
}
