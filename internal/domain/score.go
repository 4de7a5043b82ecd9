package domain

// Score represents one player's result on one Game.
// Corresponds to the scores table, unique on (game osu! id, player osu! id).
//
// Invariant: IsValid == (RejectionReason == RejectionNone). Reject and
// ResetValidity are the only mutation paths the checks use, so the two fields
// stay in lockstep.
type Score struct {
	ID          int64 // PRIMARY KEY
	GameOsuID   int64
	PlayerOsuID int64

	Ruleset    Ruleset // recorded per score; must match the parent game
	TotalScore int64
	Accuracy   float64 // [0, 1]
	MaxCombo   int
	CountMiss  int
	Mods       Mods

	IsValid         bool
	RejectionReason RejectionReason
}

// Reject marks the score invalid with the given reason.
// The first failing check wins; later calls are no-ops.
func (s *Score) Reject(reason RejectionReason) {
	if s.RejectionReason != RejectionNone && s.RejectionReason != "" {
		return
	}
	s.IsValid = false
	s.RejectionReason = reason
}

// ResetValidity marks the score valid with no rejection reason.
func (s *Score) ResetValidity() {
	s.IsValid = true
	s.RejectionReason = RejectionNone
}
