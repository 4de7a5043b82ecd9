package domain

// ProcessingStatus tracks how far a match has progressed through data population.
type ProcessingStatus string

const (
	// ProcessingNotProcessed marks a submitted match link that has not been fetched yet.
	ProcessingNotProcessed ProcessingStatus = "NOT_PROCESSED"
	// ProcessingMaterialized marks a match claimed by the worker and being populated.
	ProcessingMaterialized ProcessingStatus = "MATERIALIZED"
	// ProcessingDone marks a fully populated and classified match. Done matches are
	// never claimed again.
	ProcessingDone ProcessingStatus = "DONE"
	// ProcessingFetchFailed marks a match whose data could not be fetched or
	// materialized. The worker never retries these on its own; an operator
	// re-queue resets them to ProcessingNotProcessed.
	ProcessingFetchFailed ProcessingStatus = "FETCH_FAILED"
)

// IsValid checks if the processing status is a valid value.
func (s ProcessingStatus) IsValid() bool {
	switch s {
	case ProcessingNotProcessed, ProcessingMaterialized, ProcessingDone, ProcessingFetchFailed:
		return true
	}
	return false
}

// String returns the string representation of ProcessingStatus.
func (s ProcessingStatus) String() string {
	return string(s)
}

// VerificationStatus is the trust classification of a match or game.
type VerificationStatus string

const (
	// VerificationPending means automation checks have not run yet.
	VerificationPending VerificationStatus = "PENDING"
	// VerificationPreVerified means all automation checks passed; an administrator
	// may later confirm the match as Verified.
	VerificationPreVerified VerificationStatus = "PRE_VERIFIED"
	// VerificationRejected means at least one automation check failed.
	VerificationRejected VerificationStatus = "REJECTED"
	// VerificationVerified means an administrator confirmed the match. Automation
	// checks never downgrade a Verified match.
	VerificationVerified VerificationStatus = "VERIFIED"
)

// IsValid checks if the verification status is a valid value.
func (s VerificationStatus) IsValid() bool {
	switch s {
	case VerificationPending, VerificationPreVerified, VerificationRejected, VerificationVerified:
		return true
	}
	return false
}

// String returns the string representation of VerificationStatus.
func (s VerificationStatus) String() string {
	return string(s)
}

// RejectionReason identifies the single automation check that rejected an entity.
// One enum is shared across match, game and score levels so the state machine and
// audit trail stay centralized. The first failing check wins; later checks never
// overwrite a recorded reason.
type RejectionReason string

const (
	RejectionNone RejectionReason = "NONE"

	// Score-level reasons.
	RejectionScoreBelowMinimum RejectionReason = "SCORE_BELOW_MINIMUM"
	RejectionInvalidMods       RejectionReason = "INVALID_MODS"
	RejectionRulesetMismatch   RejectionReason = "RULESET_MISMATCH"

	// Game-level reasons.
	RejectionNoScores           RejectionReason = "NO_SCORES"
	RejectionBeatmapNotFound    RejectionReason = "BEATMAP_NOT_FOUND"
	RejectionInvalidScoringType RejectionReason = "INVALID_SCORING_TYPE"
	RejectionInvalidTeamType    RejectionReason = "INVALID_TEAM_TYPE"
	RejectionFailedScores       RejectionReason = "FAILED_SCORES"

	// Match-level reasons.
	RejectionInvalidLobbyName RejectionReason = "INVALID_LOBBY_NAME"
	RejectionMissingEndTime   RejectionReason = "MISSING_END_TIME"
	RejectionNoGames          RejectionReason = "NO_GAMES"
	RejectionFailedGames      RejectionReason = "FAILED_GAMES"
)

// String returns the string representation of RejectionReason.
func (r RejectionReason) String() string {
	return string(r)
}
