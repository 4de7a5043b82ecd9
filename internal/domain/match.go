package domain

import "time"

// Match represents one multiplayer lobby played in a tournament.
// Corresponds to the matches table. A match row is created when the link is
// submitted; the worker populates the rest from the osu! API.
type Match struct {
	ID           int64      // PRIMARY KEY
	OsuID        int64      // osu! match id, unique
	Name         string     // lobby name, e.g. "OWC2023: (United States) vs (South Korea)"
	StartTime    time.Time
	EndTime      *time.Time // nil while the lobby is still open or data is missing
	TournamentID int64

	ProcessingStatus   ProcessingStatus
	VerificationStatus VerificationStatus
	RejectionReason    RejectionReason

	Games []*Game

	Created time.Time
}

// Reject records a rejection reason unless one is already set, moving the match
// to Rejected. The first failing check wins; a Verified match is never downgraded.
func (m *Match) Reject(reason RejectionReason) {
	if m.VerificationStatus == VerificationVerified {
		return
	}
	if m.RejectionReason != RejectionNone && m.RejectionReason != "" {
		return
	}
	m.VerificationStatus = VerificationRejected
	m.RejectionReason = reason
}
