package checks

import (
	"testing"

	"tournament-verifier/internal/domain"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func osuTournament() *domain.Tournament {
	return &domain.Tournament{
		ID:           1,
		Name:         "Osu World Cup 2024",
		Abbreviation: "OWC2024",
		Ruleset:      domain.RulesetOsu,
		LobbySize:    2,
	}
}

func TestScoreCheckPasses(t *testing.T) {
	check := NewScoreCheck(zerolog.Nop())
	score := &domain.GameScore{Score: 1001, Ruleset: domain.RulesetOsu, Mods: domain.ModHidden}

	assert.Equal(t, domain.ScoreRejectionNone, check.Process(score, osuTournament()))
}

func TestScoreCheckMinimumIsExclusive(t *testing.T) {
	check := NewScoreCheck(zerolog.Nop())

	at := &domain.GameScore{Score: 1000, Ruleset: domain.RulesetOsu}
	assert.Equal(t, domain.ScoreBelowMinimum, check.Process(at, osuTournament()))

	above := &domain.GameScore{Score: 1001, Ruleset: domain.RulesetOsu}
	assert.Equal(t, domain.ScoreRejectionNone, check.Process(above, osuTournament()))
}

func TestScoreCheckIllegalMods(t *testing.T) {
	check := NewScoreCheck(zerolog.Nop())
	score := &domain.GameScore{Score: 500000, Ruleset: domain.RulesetOsu, Mods: domain.ModHidden | domain.ModRelax}

	assert.Equal(t, domain.ScoreInvalidMods, check.Process(score, osuTournament()))
}

func TestScoreCheckRulesetMismatch(t *testing.T) {
	check := NewScoreCheck(zerolog.Nop())
	score := &domain.GameScore{Score: 500000, Ruleset: domain.RulesetTaiko}

	assert.Equal(t, domain.ScoreRulesetMismatch, check.Process(score, osuTournament()))
}

func TestScoreCheckReasonsAccumulate(t *testing.T) {
	check := NewScoreCheck(zerolog.Nop())
	score := &domain.GameScore{Score: 0, Ruleset: domain.RulesetMania, Mods: domain.ModAutoplay}

	reason := check.Process(score, osuTournament())
	assert.NotZero(t, reason&domain.ScoreBelowMinimum)
	assert.NotZero(t, reason&domain.ScoreInvalidMods)
	assert.NotZero(t, reason&domain.ScoreRulesetMismatch)
}

func TestScoreCheckIsIdempotent(t *testing.T) {
	check := NewScoreCheck(zerolog.Nop())
	score := &domain.GameScore{Score: 900, Ruleset: domain.RulesetOsu}
	tournament := osuTournament()

	first := check.Process(score, tournament)
	second := check.Process(score, tournament)
	assert.Equal(t, first, second)
}
