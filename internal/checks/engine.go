package checks

import (
	"otr-data-worker/internal/domain"
)

// Engine evaluates the fixed check lists over entity graphs. The zero value is
// not usable; construct with NewEngine.
type Engine struct {
	scoreChecks []scoreCheck
	gameChecks  []gameCheck
	matchChecks []matchCheck
}

// NewEngine creates an Engine with the standard check lists.
func NewEngine() *Engine {
	return &Engine{
		scoreChecks: scoreChecks,
		gameChecks:  gameChecks,
		matchChecks: matchChecks,
	}
}

// ProcessScore evaluates one score against its parent game. On the first
// failing check the score is rejected with that check's reason and evaluation
// stops. Returns the verdict and the outcome of every check that ran.
func (e *Engine) ProcessScore(matchOsuID int64, game *domain.Game, score *domain.Score) (bool, []*domain.CheckOutcome) {
	score.ResetValidity()

	var outcomes []*domain.CheckOutcome
	for _, check := range e.scoreChecks {
		reason := check.run(score, game)
		passed := reason == domain.RejectionNone
		outcomes = append(outcomes, &domain.CheckOutcome{
			MatchOsuID:  matchOsuID,
			Level:       domain.CheckLevelScore,
			EntityOsuID: score.PlayerOsuID,
			CheckName:   check.name,
			Passed:      passed,
			Reason:      reason,
		})
		if !passed {
			score.Reject(reason)
			return false, outcomes
		}
	}
	return true, outcomes
}

// ProcessGame evaluates one game's intrinsic checks, including the aggregate
// over its score verdicts. Scores must have been evaluated first. beatmaps is
// the set of beatmap osu! ids present in the store.
func (e *Engine) ProcessGame(matchOsuID int64, game *domain.Game, beatmaps BeatmapSet) (bool, []*domain.CheckOutcome) {
	var outcomes []*domain.CheckOutcome
	for _, check := range e.gameChecks {
		reason := check.run(game, beatmaps)
		passed := reason == domain.RejectionNone
		outcomes = append(outcomes, &domain.CheckOutcome{
			MatchOsuID:  matchOsuID,
			Level:       domain.CheckLevelGame,
			EntityOsuID: game.OsuID,
			CheckName:   check.name,
			Passed:      passed,
			Reason:      reason,
		})
		if !passed {
			game.Reject(reason)
			return false, outcomes
		}
	}
	return true, outcomes
}

// ProcessMatch evaluates one match's intrinsic checks, including the aggregate
// over its game verdicts. Games must have been evaluated first.
func (e *Engine) ProcessMatch(match *domain.Match) (bool, []*domain.CheckOutcome) {
	var outcomes []*domain.CheckOutcome
	for _, check := range e.matchChecks {
		reason := check.run(match)
		passed := reason == domain.RejectionNone
		outcomes = append(outcomes, &domain.CheckOutcome{
			MatchOsuID: match.OsuID,
			Level:      domain.CheckLevelMatch,
			CheckName:  check.name,
			Passed:     passed,
			Reason:     reason,
		})
		if !passed {
			match.Reject(reason)
			return false, outcomes
		}
	}
	return true, outcomes
}

// ProcessMatchTree cascades evaluation over one full match graph: every score,
// then every game, then the match itself. A failure at any level fails the
// tree, but evaluation of siblings continues so each entity records its own
// verdict. Returns the aggregate verdict and the full outcome trail.
func (e *Engine) ProcessMatchTree(match *domain.Match, beatmaps BeatmapSet) (bool, []*domain.CheckOutcome) {
	var outcomes []*domain.CheckOutcome

	for _, game := range match.Games {
		for _, score := range game.Scores {
			_, scoreOutcomes := e.ProcessScore(match.OsuID, game, score)
			outcomes = append(outcomes, scoreOutcomes...)
		}

		gamePassed, gameOutcomes := e.ProcessGame(match.OsuID, game, beatmaps)
		outcomes = append(outcomes, gameOutcomes...)
		if gamePassed && game.VerificationStatus == domain.VerificationPending {
			game.VerificationStatus = domain.VerificationPreVerified
		}
	}

	matchPassed, matchOutcomes := e.ProcessMatch(match)
	outcomes = append(outcomes, matchOutcomes...)
	return matchPassed, outcomes
}
