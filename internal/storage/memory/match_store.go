package memory

import (
	"context"
	"sync"
	"time"

	"otr-data-worker/internal/domain"
	"otr-data-worker/internal/storage"
)

// MatchStore is an in-memory implementation of storage.MatchStore.
type MatchStore struct {
	mu     sync.Mutex
	nextID int64
	data   map[int64]*domain.Match // keyed by osu! match id
	order  []int64                 // osu! ids in enqueue order, claim ordering
}

// NewMatchStore creates a new in-memory match store.
func NewMatchStore() *MatchStore {
	return &MatchStore{
		data: make(map[int64]*domain.Match),
	}
}

// Compile-time interface check.
var _ storage.MatchStore = (*MatchStore)(nil)

// Enqueue inserts a pending match link. Returns ErrDuplicateKey if the osu! id exists.
func (s *MatchStore) Enqueue(_ context.Context, osuID, tournamentID int64, verification domain.VerificationStatus) error {
	if osuID == 0 {
		return storage.ErrInvalidInput
	}
	if verification == "" {
		verification = domain.VerificationPending
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[osuID]; exists {
		return storage.ErrDuplicateKey
	}

	s.nextID++
	s.data[osuID] = &domain.Match{
		ID:                 s.nextID,
		OsuID:              osuID,
		TournamentID:       tournamentID,
		ProcessingStatus:   domain.ProcessingNotProcessed,
		VerificationStatus: verification,
		RejectionReason:    domain.RejectionNone,
		Created:            time.Now().UTC(),
	}
	s.order = append(s.order, osuID)
	return nil
}

// ClaimNextPending claims the oldest NotProcessed match, moving it to
// Materialized. Returns ErrNotFound when nothing is eligible.
func (s *MatchStore) ClaimNextPending(_ context.Context) (*domain.Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, osuID := range s.order {
		m := s.data[osuID]
		if m.ProcessingStatus == domain.ProcessingNotProcessed {
			m.ProcessingStatus = domain.ProcessingMaterialized
			return copyMatch(m), nil
		}
	}
	return nil, storage.ErrNotFound
}

// GetByOsuID retrieves a match with its full graph. Returns ErrNotFound if not exists.
func (s *MatchStore) GetByOsuID(_ context.Context, osuID int64) (*domain.Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, exists := s.data[osuID]
	if !exists {
		return nil, storage.ErrNotFound
	}
	return copyMatch(m), nil
}

// PersistMatchGraph upserts the match graph by natural keys. Existing rows keep
// their identity; nothing is ever duplicated.
func (s *MatchStore) PersistMatchGraph(_ context.Context, m *domain.Match) (*domain.Match, error) {
	if m == nil || m.OsuID == 0 {
		return nil, storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	stored, exists := s.data[m.OsuID]
	if !exists {
		s.nextID++
		stored = &domain.Match{
			ID:      s.nextID,
			OsuID:   m.OsuID,
			Created: time.Now().UTC(),
		}
		s.data[m.OsuID] = stored
		s.order = append(s.order, m.OsuID)
	}

	stored.Name = m.Name
	stored.StartTime = m.StartTime
	stored.EndTime = copyTimePtr(m.EndTime)
	stored.TournamentID = m.TournamentID
	stored.ProcessingStatus = m.ProcessingStatus
	stored.VerificationStatus = m.VerificationStatus
	stored.RejectionReason = m.RejectionReason

	byOsuID := make(map[int64]*domain.Game, len(stored.Games))
	for _, g := range stored.Games {
		byOsuID[g.OsuID] = g
	}

	for _, g := range m.Games {
		storedGame, ok := byOsuID[g.OsuID]
		if !ok {
			s.nextID++
			storedGame = &domain.Game{ID: s.nextID, OsuID: g.OsuID}
			stored.Games = append(stored.Games, storedGame)
		}
		storedGame.MatchOsuID = stored.OsuID
		storedGame.BeatmapOsuID = g.BeatmapOsuID
		storedGame.Ruleset = g.Ruleset
		storedGame.ScoringType = g.ScoringType
		storedGame.TeamType = g.TeamType
		storedGame.Mods = g.Mods
		storedGame.StartTime = g.StartTime
		storedGame.EndTime = copyTimePtr(g.EndTime)
		storedGame.VerificationStatus = g.VerificationStatus
		storedGame.RejectionReason = g.RejectionReason

		persistScores(storedGame, g.Scores, &s.nextID)
	}

	return copyMatch(stored), nil
}

// persistScores upserts scores by (game, player) key onto the stored game.
func persistScores(storedGame *domain.Game, scores []*domain.Score, nextID *int64) {
	byPlayer := make(map[int64]*domain.Score, len(storedGame.Scores))
	for _, sc := range storedGame.Scores {
		byPlayer[sc.PlayerOsuID] = sc
	}

	for _, sc := range scores {
		storedScore, ok := byPlayer[sc.PlayerOsuID]
		if !ok {
			*nextID++
			storedScore = &domain.Score{ID: *nextID, PlayerOsuID: sc.PlayerOsuID}
			storedGame.Scores = append(storedGame.Scores, storedScore)
		}
		storedScore.GameOsuID = storedGame.OsuID
		storedScore.Ruleset = sc.Ruleset
		storedScore.TotalScore = sc.TotalScore
		storedScore.Accuracy = sc.Accuracy
		storedScore.MaxCombo = sc.MaxCombo
		storedScore.CountMiss = sc.CountMiss
		storedScore.Mods = sc.Mods
		storedScore.IsValid = sc.IsValid
		storedScore.RejectionReason = sc.RejectionReason
	}
}

// UpdateVerificationState sets the processing and verification state of a match.
func (s *MatchStore) UpdateVerificationState(_ context.Context, osuID int64, processing domain.ProcessingStatus, verification domain.VerificationStatus, reason domain.RejectionReason) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, exists := s.data[osuID]
	if !exists {
		return storage.ErrNotFound
	}
	m.ProcessingStatus = processing
	m.VerificationStatus = verification
	m.RejectionReason = reason
	return nil
}

// Requeue resets a match back to NotProcessed/Pending.
func (s *MatchStore) Requeue(_ context.Context, osuID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, exists := s.data[osuID]
	if !exists {
		return storage.ErrNotFound
	}
	m.ProcessingStatus = domain.ProcessingNotProcessed
	m.VerificationStatus = domain.VerificationPending
	m.RejectionReason = domain.RejectionNone
	return nil
}

// copyMatch deep-copies a match graph to prevent external mutation.
func copyMatch(m *domain.Match) *domain.Match {
	matchCopy := *m
	matchCopy.EndTime = copyTimePtr(m.EndTime)
	matchCopy.Games = make([]*domain.Game, len(m.Games))
	for i, g := range m.Games {
		gameCopy := *g
		gameCopy.EndTime = copyTimePtr(g.EndTime)
		gameCopy.Scores = make([]*domain.Score, len(g.Scores))
		for j, sc := range g.Scores {
			scoreCopy := *sc
			gameCopy.Scores[j] = &scoreCopy
		}
		matchCopy.Games[i] = &gameCopy
	}
	return &matchCopy
}

func copyTimePtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	tCopy := *t
	return &tCopy
}
