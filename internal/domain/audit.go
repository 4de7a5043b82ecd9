package domain

// CheckLevel is the entity granularity an automation check ran against.
type CheckLevel string

const (
	CheckLevelScore CheckLevel = "SCORE"
	CheckLevelGame  CheckLevel = "GAME"
	CheckLevelMatch CheckLevel = "MATCH"
)

// CheckOutcome is one automation check result, kept for the audit trail.
// Outcomes are recorded for every check that ran, including checks on matches
// whose Verified status the pipeline is not allowed to downgrade.
type CheckOutcome struct {
	MatchOsuID  int64
	Level       CheckLevel
	EntityOsuID int64 // score outcomes use the player osu! id of the score's game slot
	CheckName   string
	Passed      bool
	Reason      RejectionReason // RejectionNone when passed
}
