package memory

import (
	"context"
	"sync"

	"otr-data-worker/internal/domain"
	"otr-data-worker/internal/storage"
)

// CheckAuditStore is an in-memory implementation of storage.CheckAuditStore.
type CheckAuditStore struct {
	mu       sync.RWMutex
	outcomes []*domain.CheckOutcome
}

// NewCheckAuditStore creates a new in-memory check audit store.
func NewCheckAuditStore() *CheckAuditStore {
	return &CheckAuditStore{}
}

// Compile-time interface check.
var _ storage.CheckAuditStore = (*CheckAuditStore)(nil)

// InsertOutcomes appends the outcomes of one check engine run.
func (s *CheckAuditStore) InsertOutcomes(_ context.Context, outcomes []*domain.CheckOutcome) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, o := range outcomes {
		outcomeCopy := *o
		s.outcomes = append(s.outcomes, &outcomeCopy)
	}
	return nil
}

// OutcomesForMatch returns recorded outcomes for one match, in insertion order.
func (s *CheckAuditStore) OutcomesForMatch(osuID int64) []*domain.CheckOutcome {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.CheckOutcome
	for _, o := range s.outcomes {
		if o.MatchOsuID == osuID {
			outcomeCopy := *o
			result = append(result, &outcomeCopy)
		}
	}
	return result
}
