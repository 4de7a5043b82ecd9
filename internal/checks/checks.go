// Package checks implements the automation checks that classify materialized
// matches, games and scores. Checks are pure functions over the entity graph
// and run in a fixed order; the first failing check records its rejection
// reason and later checks for that entity do not run. The engine never talks
// to storage; it returns the outcome trail for the caller to audit.
package checks

import (
	"regexp"

	"otr-data-worker/internal/domain"
)

// BeatmapSet is the set of beatmap osu! ids known to the store, keyed by id.
// The caller resolves it before evaluation so the checks stay free of I/O.
type BeatmapSet map[int64]bool

// disallowedMods are mods incompatible with automated verification: mods that
// alter pass mechanics (SD, PF), play the map for the player (RX, AP, AT) or
// only appear outside competitive lobbies.
const disallowedMods = domain.ModSuddenDeath |
	domain.ModPerfect |
	domain.ModRelax |
	domain.ModAutopilot |
	domain.ModAutoplay

type scoreCheck struct {
	name string
	run  func(sc *domain.Score, g *domain.Game) domain.RejectionReason
}

type gameCheck struct {
	name string
	run  func(g *domain.Game, beatmaps BeatmapSet) domain.RejectionReason
}

type matchCheck struct {
	name string
	run  func(m *domain.Match) domain.RejectionReason
}

// scoreChecks run per score, in order.
var scoreChecks = []scoreCheck{
	{
		name: "ScoreMinimum",
		run: func(sc *domain.Score, _ *domain.Game) domain.RejectionReason {
			if sc.TotalScore <= 0 {
				return domain.RejectionScoreBelowMinimum
			}
			return domain.RejectionNone
		},
	},
	{
		name: "ScoreMods",
		run: func(sc *domain.Score, _ *domain.Game) domain.RejectionReason {
			if sc.Mods&disallowedMods != 0 {
				return domain.RejectionInvalidMods
			}
			if sc.Mods.Has(domain.ModEasy|domain.ModHardRock) ||
				sc.Mods.Has(domain.ModDoubleTime|domain.ModHalfTime) {
				return domain.RejectionInvalidMods
			}
			return domain.RejectionNone
		},
	},
	{
		name: "ScoreRuleset",
		run: func(sc *domain.Score, g *domain.Game) domain.RejectionReason {
			if sc.Ruleset != g.Ruleset {
				return domain.RejectionRulesetMismatch
			}
			return domain.RejectionNone
		},
	},
}

// gameChecks run per game, in order, after its scores were evaluated.
var gameChecks = []gameCheck{
	{
		name: "GameScores",
		run: func(g *domain.Game, _ BeatmapSet) domain.RejectionReason {
			if len(g.Scores) == 0 {
				return domain.RejectionNoScores
			}
			return domain.RejectionNone
		},
	},
	{
		name: "GameBeatmap",
		run: func(g *domain.Game, beatmaps BeatmapSet) domain.RejectionReason {
			if !beatmaps[g.BeatmapOsuID] {
				return domain.RejectionBeatmapNotFound
			}
			return domain.RejectionNone
		},
	},
	{
		name: "GameScoringType",
		run: func(g *domain.Game, _ BeatmapSet) domain.RejectionReason {
			if g.ScoringType != domain.ScoringScoreV2 {
				return domain.RejectionInvalidScoringType
			}
			return domain.RejectionNone
		},
	},
	{
		name: "GameTeamType",
		run: func(g *domain.Game, _ BeatmapSet) domain.RejectionReason {
			if g.TeamType != domain.TeamTypeHeadToHead && g.TeamType != domain.TeamTypeTeamVs {
				return domain.RejectionInvalidTeamType
			}
			return domain.RejectionNone
		},
	},
	{
		name: "GameScoreVerdicts",
		run: func(g *domain.Game, _ BeatmapSet) domain.RejectionReason {
			for _, sc := range g.Scores {
				if !sc.IsValid {
					return domain.RejectionFailedScores
				}
			}
			return domain.RejectionNone
		},
	},
}

// lobbyNamePatterns accept tournament lobby titles of the form
// "ACRONYM: (Team A) vs (Team B)", with or without parentheses and with an
// optional period after "vs".
var lobbyNamePatterns = []*regexp.Regexp{
	regexp.MustCompile(`^[A-Za-z0-9_&'!()\[\]\- ]+:\s*\(.+\)\s*vs\.?\s*\(.+\)\s*$`),
	regexp.MustCompile(`^[A-Za-z0-9_&'!\[\]\- ]+:\s*\S.*\s+vs\.?\s+\S.*$`),
}

func lobbyNameValid(name string) bool {
	for _, p := range lobbyNamePatterns {
		if p.MatchString(name) {
			return true
		}
	}
	return false
}

// matchChecks run per match, in order, after its games were evaluated.
var matchChecks = []matchCheck{
	{
		// Applies pre-verification only: an externally verified match keeps its
		// status regardless of how the lobby was named.
		name: "MatchLobbyName",
		run: func(m *domain.Match) domain.RejectionReason {
			if m.VerificationStatus == domain.VerificationVerified {
				return domain.RejectionNone
			}
			if !lobbyNameValid(m.Name) {
				return domain.RejectionInvalidLobbyName
			}
			return domain.RejectionNone
		},
	},
	{
		name: "MatchEndTime",
		run: func(m *domain.Match) domain.RejectionReason {
			if m.EndTime == nil {
				return domain.RejectionMissingEndTime
			}
			return domain.RejectionNone
		},
	},
	{
		name: "MatchGames",
		run: func(m *domain.Match) domain.RejectionReason {
			if len(m.Games) == 0 {
				return domain.RejectionNoGames
			}
			return domain.RejectionNone
		},
	},
	{
		name: "MatchGameVerdicts",
		run: func(m *domain.Match) domain.RejectionReason {
			for _, g := range m.Games {
				if g.VerificationStatus == domain.VerificationRejected {
					return domain.RejectionFailedGames
				}
			}
			return domain.RejectionNone
		},
	},
}
