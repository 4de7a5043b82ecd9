package domain

import "time"

// Game represents one map played inside a Match.
// Corresponds to the games table.
type Game struct {
	ID           int64 // PRIMARY KEY
	OsuID        int64 // osu! game id, unique
	MatchOsuID   int64 // owning match osu! id
	BeatmapOsuID int64 // external beatmap reference, must resolve to a stored Beatmap

	Ruleset     Ruleset
	ScoringType ScoringType
	TeamType    TeamType
	Mods        Mods // lobby-forced mods, applied on top of per-score mods

	StartTime time.Time
	EndTime   *time.Time

	VerificationStatus VerificationStatus
	RejectionReason    RejectionReason

	Scores []*Score
}

// Reject records a rejection reason unless one is already set, moving the game
// to Rejected. The first failing check wins; a Verified game is never downgraded.
func (g *Game) Reject(reason RejectionReason) {
	if g.VerificationStatus == VerificationVerified {
		return
	}
	if g.RejectionReason != RejectionNone && g.RejectionReason != "" {
		return
	}
	g.VerificationStatus = VerificationRejected
	g.RejectionReason = reason
}
