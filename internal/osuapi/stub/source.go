// Package stub provides a fixed in-memory match source for tests.
package stub

import (
	"context"
	"sync"

	"otr-data-worker/internal/osuapi"
)

// Source returns canned osu! API payloads and counts fetches per id, so tests
// can assert exactly how many external calls a pipeline run performed.
type Source struct {
	mu           sync.Mutex
	matches      map[int64]*osuapi.MatchPayload
	beatmaps     map[int64]*osuapi.BeatmapPayload
	matchFetches map[int64]int
	mapFetches   map[int64]int
	failMatches  map[int64]error
	failBeatmaps map[int64]error
}

// NewSource creates a stub source with the given payloads.
func NewSource(matches []*osuapi.MatchPayload, beatmaps []*osuapi.BeatmapPayload) *Source {
	s := &Source{
		matches:      make(map[int64]*osuapi.MatchPayload),
		beatmaps:     make(map[int64]*osuapi.BeatmapPayload),
		matchFetches: make(map[int64]int),
		mapFetches:   make(map[int64]int),
		failMatches:  make(map[int64]error),
		failBeatmaps: make(map[int64]error),
	}
	for _, m := range matches {
		s.matches[m.Match.MatchID] = m
	}
	for _, b := range beatmaps {
		s.beatmaps[b.BeatmapID] = b
	}
	return s
}

// FailMatch makes GetMatch return the given error for one id.
func (s *Source) FailMatch(matchID int64, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failMatches[matchID] = err
}

// FailBeatmap makes GetBeatmap return the given error for one id.
func (s *Source) FailBeatmap(beatmapID int64, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failBeatmaps[beatmapID] = err
}

// GetMatch returns the canned payload for a match id, or ErrNotFound.
func (s *Source) GetMatch(_ context.Context, matchID int64) (*osuapi.MatchPayload, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.matchFetches[matchID]++
	if err, ok := s.failMatches[matchID]; ok {
		return nil, err
	}
	m, ok := s.matches[matchID]
	if !ok {
		return nil, osuapi.ErrNotFound
	}
	payloadCopy := *m
	return &payloadCopy, nil
}

// GetBeatmap returns the canned payload for a beatmap id, or ErrNotFound.
func (s *Source) GetBeatmap(_ context.Context, beatmapID int64) (*osuapi.BeatmapPayload, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.mapFetches[beatmapID]++
	if err, ok := s.failBeatmaps[beatmapID]; ok {
		return nil, err
	}
	b, ok := s.beatmaps[beatmapID]
	if !ok {
		return nil, osuapi.ErrNotFound
	}
	payloadCopy := *b
	return &payloadCopy, nil
}

// MatchFetches returns how many times GetMatch ran for one id.
func (s *Source) MatchFetches(matchID int64) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.matchFetches[matchID]
}

// BeatmapFetches returns how many times GetBeatmap ran for one id.
func (s *Source) BeatmapFetches(beatmapID int64) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mapFetches[beatmapID]
}

// TotalBeatmapFetches returns GetBeatmap calls across all ids.
func (s *Source) TotalBeatmapFetches() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0
	for _, n := range s.mapFetches {
		total += n
	}
	return total
}
