package processor

import (
	"testing"
	"time"

	"tournament-verifier/internal/checks"
	"tournament-verifier/internal/domain"
	"tournament-verifier/internal/stats"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProcessor() *Processor {
	nop := zerolog.Nop()
	return New(
		checks.NewScoreCheck(nop),
		checks.NewMatchCheck(nop),
		checks.NewTournamentCheck(nop),
		stats.NewMatchStatsAggregator(stats.NewGameStatsAggregator(nop), nop),
		nop,
	)
}

func cleanScore(playerID int64, team domain.Team, value int64) *domain.GameScore {
	return &domain.GameScore{
		PlayerID: playerID,
		Team:     team,
		Score:    value,
		Ruleset:  domain.RulesetOsu,
	}
}

func cleanGame(id int64, minute int) *domain.Game {
	start := time.Date(2024, 6, 1, 12, minute, 0, 0, time.UTC)
	return &domain.Game{
		ID:          id,
		BeatmapID:   id,
		Ruleset:     domain.RulesetOsu,
		ScoringType: domain.ScoringTypeScoreV2,
		TeamType:    domain.TeamTypeTeamVs,
		StartTime:   start,
		EndTime:     start.Add(5 * time.Minute),
		Scores: []*domain.GameScore{
			cleanScore(1, domain.TeamRed, 700000),
			cleanScore(2, domain.TeamBlue, 600000),
		},
	}
}

func cleanMatch(id int64, games ...*domain.Game) *domain.Match {
	return &domain.Match{
		ID:      id,
		Name:    "OWC2024: (A) vs (B)",
		EndTime: time.Date(2024, 6, 1, 14, 0, 0, 0, time.UTC),
		Games:   games,
	}
}

func cleanTournament() *domain.Tournament {
	return &domain.Tournament{
		ID:           1,
		Name:         "Osu World Cup 2024",
		Abbreviation: "OWC2024",
		Ruleset:      domain.RulesetOsu,
		LobbySize:    1,
		Matches: []*domain.Match{
			cleanMatch(10, cleanGame(100, 0), cleanGame(101, 10), cleanGame(102, 20)),
			cleanMatch(11, cleanGame(110, 0), cleanGame(111, 10), cleanGame(112, 20)),
		},
	}
}

func TestProcessTournamentCleanRunVerifiesEverything(t *testing.T) {
	p := newProcessor()
	tournament := cleanTournament()

	p.ProcessTournament(tournament)

	assert.Equal(t, domain.VerificationPreVerified, tournament.VerificationStatus)
	assert.Equal(t, domain.TournamentRejectionNone, tournament.RejectionReason)
	assert.Equal(t, domain.ProcessingNeedsVerification, tournament.ProcessingStatus)
	assert.False(t, tournament.LastProcessingDate.IsZero())

	for _, match := range tournament.Matches {
		assert.Equal(t, domain.VerificationPreVerified, match.VerificationStatus)
		for _, game := range match.Games {
			assert.Equal(t, domain.VerificationPreVerified, game.VerificationStatus)
			for _, score := range game.Scores {
				assert.Equal(t, domain.VerificationPreVerified, score.VerificationStatus)
			}
		}
	}
}

func TestProcessTournamentRejectionsCascade(t *testing.T) {
	p := newProcessor()
	tournament := cleanTournament()

	// Sink one game of the first match: too few valid scores once both
	// scores fail the minimum.
	bad := tournament.Matches[0].Games[0]
	for _, score := range bad.Scores {
		score.Score = 100
	}

	p.ProcessTournament(tournament)

	for _, score := range bad.Scores {
		assert.NotZero(t, score.RejectionReason&domain.ScoreBelowMinimum)
		assert.Equal(t, domain.VerificationPreRejected, score.VerificationStatus)
	}
	assert.NotZero(t, bad.RejectionReason&domain.GameNoValidScores)
	assert.Equal(t, domain.VerificationPreRejected, bad.VerificationStatus)

	// Two valid games remain: even count rejects the match.
	match := tournament.Matches[0]
	assert.NotZero(t, match.RejectionReason&domain.MatchUnexpectedGameCount)
	assert.Equal(t, domain.VerificationPreRejected, match.VerificationStatus)

	// One of two considered matches verified is below the ratio.
	assert.Equal(t, domain.TournamentNotEnoughVerifiedMatches, tournament.RejectionReason)
	assert.Equal(t, domain.VerificationPreRejected, tournament.VerificationStatus)
}

func TestProcessTournamentConvertsHeadToHeadGames(t *testing.T) {
	p := newProcessor()
	tournament := cleanTournament()

	// Clear the explicit teams so conversion has to assign them from the
	// score-sum fallback.
	converted := tournament.Matches[0]
	for _, game := range converted.Games {
		game.TeamType = domain.TeamTypeHeadToHead
		for _, score := range game.Scores {
			score.Team = domain.TeamNone
		}
	}

	p.ProcessTournament(tournament)

	for _, game := range converted.Games {
		assert.Equal(t, domain.TeamTypeTeamVs, game.TeamType)
		assert.Zero(t, game.RejectionReason&domain.GameInvalidTeamType)
		assert.Equal(t, domain.TeamRed, game.Scores[0].Team)
		assert.Equal(t, domain.TeamBlue, game.Scores[1].Team)
	}
	assert.Equal(t, domain.VerificationPreVerified, converted.VerificationStatus)
}

func TestProcessTournamentPreservesHumanDecisions(t *testing.T) {
	p := newProcessor()
	tournament := cleanTournament()

	reviewed := tournament.Matches[0]
	reviewed.VerificationStatus = domain.VerificationRejected

	p.ProcessTournament(tournament)

	// Automation would pass this match, but a reviewer already rejected it.
	assert.Equal(t, domain.VerificationRejected, reviewed.VerificationStatus)
}

func TestProcessTournamentIsIdempotent(t *testing.T) {
	p := newProcessor()
	tournament := cleanTournament()
	for _, score := range tournament.Matches[0].Games[0].Scores {
		score.Score = 100
	}

	p.ProcessTournament(tournament)
	firstReason := tournament.Matches[0].Games[0].RejectionReason

	p.ProcessTournament(tournament)
	assert.Equal(t, firstReason, tournament.Matches[0].Games[0].RejectionReason)
	assert.Equal(t, domain.ProcessingNeedsVerification, tournament.ProcessingStatus)
}

func TestProcessStats(t *testing.T) {
	p := newProcessor()
	tournament := cleanTournament()
	tournament.ProcessingStatus = domain.ProcessingNeedsStatCalculation

	p.ProcessTournament(tournament)

	// Simulate human review accepting the automation verdicts.
	for _, match := range tournament.Matches {
		match.VerificationStatus = domain.VerificationVerified
		for _, game := range match.Games {
			game.VerificationStatus = domain.VerificationVerified
			for _, score := range game.Scores {
				score.VerificationStatus = domain.VerificationVerified
			}
		}
	}

	p.ProcessStats(tournament)

	assert.Equal(t, domain.ProcessingDone, tournament.ProcessingStatus)
	for _, match := range tournament.Matches {
		require.Len(t, match.Rosters, 2)
		require.Len(t, match.PlayerStats, 2)
		assert.True(t, match.PlayerStats[0].Won) // player 1 swept every game
	}
}

func TestProcessStatsSkipsUnverifiedMatches(t *testing.T) {
	p := newProcessor()
	tournament := cleanTournament()
	tournament.ProcessingStatus = domain.ProcessingNeedsStatCalculation

	p.ProcessTournament(tournament)
	// Only pre-verified, never human-verified: no stats are computed.
	p.ProcessStats(tournament)

	assert.Equal(t, domain.ProcessingDone, tournament.ProcessingStatus)
	for _, match := range tournament.Matches {
		assert.Empty(t, match.Rosters)
		assert.Empty(t, match.PlayerStats)
	}
}
