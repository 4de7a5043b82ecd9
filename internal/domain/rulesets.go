package domain

// Ruleset is the osu! game mode a game or score was played in.
// Values match the osu! API play_mode field.
type Ruleset int

const (
	RulesetOsu   Ruleset = 0
	RulesetTaiko Ruleset = 1
	RulesetCatch Ruleset = 2
	RulesetMania Ruleset = 3
)

// IsValid checks if the ruleset is a valid value.
func (r Ruleset) IsValid() bool {
	return r >= RulesetOsu && r <= RulesetMania
}

// String returns the string representation of Ruleset.
func (r Ruleset) String() string {
	switch r {
	case RulesetOsu:
		return "osu"
	case RulesetTaiko:
		return "taiko"
	case RulesetCatch:
		return "catch"
	case RulesetMania:
		return "mania"
	default:
		return "unknown"
	}
}

// ScoringType is the win condition used for a multiplayer game.
// Values match the osu! API scoring_type field.
type ScoringType int

const (
	ScoringScore    ScoringType = 0
	ScoringAccuracy ScoringType = 1
	ScoringCombo    ScoringType = 2
	ScoringScoreV2  ScoringType = 3
)

// IsValid checks if the scoring type is a valid value.
func (t ScoringType) IsValid() bool {
	return t >= ScoringScore && t <= ScoringScoreV2
}

// String returns the string representation of ScoringType.
func (t ScoringType) String() string {
	switch t {
	case ScoringScore:
		return "score"
	case ScoringAccuracy:
		return "accuracy"
	case ScoringCombo:
		return "combo"
	case ScoringScoreV2:
		return "scorev2"
	default:
		return "unknown"
	}
}

// TeamType is the lobby team arrangement for a multiplayer game.
// Values match the osu! API team_type field.
type TeamType int

const (
	TeamTypeHeadToHead TeamType = 0
	TeamTypeTagCoop    TeamType = 1
	TeamTypeTeamVs     TeamType = 2
	TeamTypeTagTeamVs  TeamType = 3
)

// IsValid checks if the team type is a valid value.
func (t TeamType) IsValid() bool {
	return t >= TeamTypeHeadToHead && t <= TeamTypeTagTeamVs
}

// String returns the string representation of TeamType.
func (t TeamType) String() string {
	switch t {
	case TeamTypeHeadToHead:
		return "head-to-head"
	case TeamTypeTagCoop:
		return "tag-coop"
	case TeamTypeTeamVs:
		return "team-vs"
	case TeamTypeTagTeamVs:
		return "tag-team-vs"
	default:
		return "unknown"
	}
}
