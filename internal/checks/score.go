package checks

import (
	"tournament-verifier/internal/constants"
	"tournament-verifier/internal/domain"

	"github.com/rs/zerolog"
)

// ScoreCheck validates a single score against the minimum-score,
// mod-legality and ruleset-match rules. The ruleset compared against is the
// parent tournament's, not the score's own claim.
type ScoreCheck struct {
	logger zerolog.Logger
}

func NewScoreCheck(logger zerolog.Logger) *ScoreCheck {
	return &ScoreCheck{logger: logger}
}

func (c *ScoreCheck) Process(score *domain.GameScore, tournament *domain.Tournament) domain.ScoreRejectionReason {
	reason := domain.ScoreRejectionNone

	if score.Score <= constants.MinimumScore {
		reason |= domain.ScoreBelowMinimum
	}
	if score.Mods&domain.IllegalMods != 0 {
		reason |= domain.ScoreInvalidMods
	}
	if score.Ruleset != tournament.Ruleset {
		reason |= domain.ScoreRulesetMismatch
	}

	if reason != domain.ScoreRejectionNone {
		c.logger.Debug().
			Int64("score_id", score.ID).
			Int64("player_id", score.PlayerID).
			Stringer("reason", reason).
			Msg("score failed automation checks")
	}
	return reason
}
