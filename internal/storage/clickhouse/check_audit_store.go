// Package clickhouse holds the automation check audit trail. Every check
// outcome the engine produces is appended here, including outcomes for matches
// whose Verified status the pipeline may not downgrade.
package clickhouse

import (
	"context"
	"fmt"
	"time"

	"otr-data-worker/internal/domain"
	"otr-data-worker/internal/storage"
)

// CheckAuditStore implements storage.CheckAuditStore using ClickHouse.
type CheckAuditStore struct {
	conn *Conn
}

// NewCheckAuditStore creates a new CheckAuditStore.
func NewCheckAuditStore(conn *Conn) *CheckAuditStore {
	return &CheckAuditStore{conn: conn}
}

// Compile-time interface check.
var _ storage.CheckAuditStore = (*CheckAuditStore)(nil)

// Schema is the audit table DDL, applied at startup. Append-only; duplicates
// across re-runs of the same match are acceptable in an audit trail.
const Schema = `
	CREATE TABLE IF NOT EXISTS check_outcomes (
		match_osu_id  Int64,
		level         LowCardinality(String),
		entity_osu_id Int64,
		check_name    LowCardinality(String),
		passed        UInt8,
		reason        LowCardinality(String),
		recorded_at   DateTime64(3)
	) ENGINE = MergeTree()
	ORDER BY (match_osu_id, recorded_at)
`

// EnsureSchema creates the audit table if it does not exist.
func (s *CheckAuditStore) EnsureSchema(ctx context.Context) error {
	if err := s.conn.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("create check_outcomes table: %w", err)
	}
	return nil
}

// InsertOutcomes appends the outcomes of one check engine run.
func (s *CheckAuditStore) InsertOutcomes(ctx context.Context, outcomes []*domain.CheckOutcome) error {
	if len(outcomes) == 0 {
		return nil
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO check_outcomes (
			match_osu_id, level, entity_osu_id, check_name, passed, reason, recorded_at
		)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	now := time.Now().UTC()
	for _, o := range outcomes {
		passed := uint8(0)
		if o.Passed {
			passed = 1
		}
		err = batch.Append(
			o.MatchOsuID,
			string(o.Level),
			o.EntityOsuID,
			o.CheckName,
			passed,
			string(o.Reason),
			now,
		)
		if err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}

	return nil
}
