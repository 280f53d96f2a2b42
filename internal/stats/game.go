// Package stats implements the statistics aggregation pipeline that runs
// once entities pass verification. Rosters and player stats are always
// rebuilt from scratch and replaced wholesale, never patched in place.
package stats

import (
	"cmp"
	"errors"
	"slices"
	"time"

	"tournament-verifier/internal/domain"

	"github.com/rs/zerolog"
)

var (
	ErrGameNotVerified  = errors.New("game is not verified")
	ErrMatchNotVerified = errors.New("match is not verified")
	ErrNoVerifiedGames  = errors.New("verified match has no verified games")
	ErrMissingRosters   = errors.New("verified game produced no rosters")
)

// GameStatsAggregator computes placements and team rosters for a verified
// game from that game's verified scores.
type GameStatsAggregator struct {
	logger zerolog.Logger
}

func NewGameStatsAggregator(logger zerolog.Logger) *GameStatsAggregator {
	return &GameStatsAggregator{logger: logger}
}

// Process assigns placements to the game's verified scores and rebuilds the
// game's rosters. A game with zero verified scores succeeds with empty
// output. Calling this on an unverified game is an error and mutates
// nothing.
func (a *GameStatsAggregator) Process(game *domain.Game) error {
	if game.VerificationStatus != domain.VerificationVerified {
		a.logger.Error().
			Int64("game_id", game.ID).
			Stringer("status", game.VerificationStatus).
			Msg("stats requested for unverified game")
		return ErrGameNotVerified
	}

	var verified []*domain.GameScore
	for _, score := range game.Scores {
		if score.VerificationStatus == domain.VerificationVerified {
			verified = append(verified, score)
		}
	}

	// Descending by score value, stable: ties get strictly sequential
	// placements in input order, never shared ranks.
	slices.SortStableFunc(verified, func(x, y *domain.GameScore) int {
		return cmp.Compare(y.Score, x.Score)
	})
	for i, score := range verified {
		score.Placement = i + 1
	}

	game.Rosters = buildGameRosters(game.ID, verified)
	game.LastProcessingDate = time.Now()

	a.logger.Debug().
		Int64("game_id", game.ID).
		Int("verified_scores", len(verified)).
		Int("rosters", len(game.Rosters)).
		Msg("game stats aggregated")
	return nil
}

func buildGameRosters(gameID int64, verified []*domain.GameScore) []*domain.GameRoster {
	byTeam := make(map[domain.Team][]*domain.GameScore)
	for _, score := range verified {
		byTeam[score.Team] = append(byTeam[score.Team], score)
	}

	teams := make([]domain.Team, 0, len(byTeam))
	for team := range byTeam {
		teams = append(teams, team)
	}
	slices.Sort(teams)

	rosters := make([]*domain.GameRoster, 0, len(teams))
	for _, team := range teams {
		roster := &domain.GameRoster{GameID: gameID, Team: team}
		for _, score := range byTeam[team] {
			roster.PlayerIDs = append(roster.PlayerIDs, score.PlayerID)
			roster.Score += score.Score
		}
		slices.Sort(roster.PlayerIDs)
		rosters = append(rosters, roster)
	}
	return rosters
}
