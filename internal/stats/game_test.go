package stats

import (
	"testing"

	"tournament-verifier/internal/domain"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func score(playerID int64, team domain.Team, value int64) *domain.GameScore {
	return &domain.GameScore{
		PlayerID:           playerID,
		Team:               team,
		Score:              value,
		VerificationStatus: domain.VerificationVerified,
	}
}

func verifiedGame(id int64, scores ...*domain.GameScore) *domain.Game {
	return &domain.Game{
		ID:                 id,
		VerificationStatus: domain.VerificationVerified,
		Scores:             scores,
	}
}

func TestGameStatsPlacementsAndRosters(t *testing.T) {
	agg := NewGameStatsAggregator(zerolog.Nop())
	game := verifiedGame(1,
		score(1, domain.TeamRed, 600),
		score(2, domain.TeamBlue, 500),
		score(3, domain.TeamRed, 400),
		score(4, domain.TeamBlue, 300),
		score(5, domain.TeamRed, 500),
		score(6, domain.TeamBlue, 100),
	)

	require.NoError(t, agg.Process(game))

	// Descending by score; the 500 tie resolves in input order.
	placements := make(map[int64]int)
	for _, s := range game.Scores {
		placements[s.PlayerID] = s.Placement
	}
	assert.Equal(t, 1, placements[1])
	assert.Equal(t, 2, placements[2])
	assert.Equal(t, 3, placements[5])
	assert.Equal(t, 4, placements[3])
	assert.Equal(t, 5, placements[4])
	assert.Equal(t, 6, placements[6])

	require.Len(t, game.Rosters, 2)
	blue, red := game.Rosters[0], game.Rosters[1]
	assert.Equal(t, domain.TeamBlue, blue.Team)
	assert.Equal(t, []int64{2, 4, 6}, blue.PlayerIDs)
	assert.Equal(t, int64(900), blue.Score)
	assert.Equal(t, domain.TeamRed, red.Team)
	assert.Equal(t, []int64{1, 3, 5}, red.PlayerIDs)
	assert.Equal(t, int64(1500), red.Score)

	assert.False(t, game.LastProcessingDate.IsZero())
}

func TestGameStatsExcludesUnverifiedScores(t *testing.T) {
	agg := NewGameStatsAggregator(zerolog.Nop())
	rejected := score(3, domain.TeamRed, 999)
	rejected.VerificationStatus = domain.VerificationRejected
	preVerified := score(4, domain.TeamBlue, 998)
	preVerified.VerificationStatus = domain.VerificationPreVerified

	game := verifiedGame(1,
		score(1, domain.TeamRed, 600),
		score(2, domain.TeamBlue, 500),
		rejected,
		preVerified, // pre-verified is not enough for stats
	)

	require.NoError(t, agg.Process(game))

	assert.Equal(t, 1, game.Scores[0].Placement)
	assert.Equal(t, 2, game.Scores[1].Placement)
	assert.Zero(t, rejected.Placement)
	assert.Zero(t, preVerified.Placement)

	require.Len(t, game.Rosters, 2)
	assert.Equal(t, []int64{2}, game.Rosters[0].PlayerIDs)
	assert.Equal(t, []int64{1}, game.Rosters[1].PlayerIDs)
}

func TestGameStatsRequiresVerifiedGame(t *testing.T) {
	agg := NewGameStatsAggregator(zerolog.Nop())
	game := verifiedGame(1, score(1, domain.TeamRed, 600))
	game.VerificationStatus = domain.VerificationPreVerified

	err := agg.Process(game)
	assert.ErrorIs(t, err, ErrGameNotVerified)
	assert.Empty(t, game.Rosters)
	assert.True(t, game.LastProcessingDate.IsZero())
}

func TestGameStatsEmptyVerifiedSetSucceeds(t *testing.T) {
	agg := NewGameStatsAggregator(zerolog.Nop())
	rejected := score(1, domain.TeamRed, 600)
	rejected.VerificationStatus = domain.VerificationRejected
	game := verifiedGame(1, rejected)

	require.NoError(t, agg.Process(game))
	assert.Empty(t, game.Rosters)
	assert.False(t, game.LastProcessingDate.IsZero())
}

func TestGameStatsReplacesStaleRosters(t *testing.T) {
	agg := NewGameStatsAggregator(zerolog.Nop())
	game := verifiedGame(1,
		score(1, domain.TeamRed, 600),
		score(2, domain.TeamBlue, 500),
	)
	game.Rosters = []*domain.GameRoster{
		{GameID: 1, Team: domain.TeamRed, PlayerIDs: []int64{9, 10}, Score: 12345},
	}

	require.NoError(t, agg.Process(game))

	require.Len(t, game.Rosters, 2)
	assert.Equal(t, []int64{2}, game.Rosters[0].PlayerIDs)
	assert.Equal(t, []int64{1}, game.Rosters[1].PlayerIDs)
}
