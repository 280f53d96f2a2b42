package stats

import (
	"slices"
	"time"

	"tournament-verifier/internal/domain"

	"github.com/rs/zerolog"
)

// MatchStatsAggregator computes match rosters and per-player match
// statistics for a verified match from the GameStatsAggregator output of
// each of its verified games.
type MatchStatsAggregator struct {
	games  *GameStatsAggregator
	logger zerolog.Logger
}

func NewMatchStatsAggregator(games *GameStatsAggregator, logger zerolog.Logger) *MatchStatsAggregator {
	return &MatchStatsAggregator{games: games, logger: logger}
}

// Process rebuilds the match's rosters and player stats wholesale. It fails
// without mutating the match when the match is unverified, when a verified
// match has no verified games, or when any verified game yields no rosters;
// partial or stale stats are never left behind on success.
func (a *MatchStatsAggregator) Process(match *domain.Match) error {
	if match.VerificationStatus != domain.VerificationVerified {
		a.logger.Error().
			Int64("match_id", match.ID).
			Stringer("status", match.VerificationStatus).
			Msg("stats requested for unverified match")
		return ErrMatchNotVerified
	}

	var verified []*domain.Game
	for _, game := range match.Games {
		if game.VerificationStatus == domain.VerificationVerified {
			verified = append(verified, game)
		}
	}
	if len(verified) == 0 {
		a.logger.Error().Int64("match_id", match.ID).Msg("verified match has no verified games")
		return ErrNoVerifiedGames
	}

	for _, game := range verified {
		if err := a.games.Process(game); err != nil {
			return err
		}
		if len(game.Rosters) == 0 {
			// Without rosters teammates and opponents cannot be attributed
			// reliably, so the whole match pass fails.
			a.logger.Error().
				Int64("match_id", match.ID).
				Int64("game_id", game.ID).
				Msg("verified game produced no rosters")
			return ErrMissingRosters
		}
	}

	match.Rosters = buildMatchRosters(match.ID, verified)
	match.PlayerStats = buildPlayerStats(match.ID, verified)
	match.LastProcessingDate = time.Now()

	a.logger.Debug().
		Int64("match_id", match.ID).
		Int("verified_games", len(verified)).
		Int("rosters", len(match.Rosters)).
		Int("players", len(match.PlayerStats)).
		Msg("match stats aggregated")
	return nil
}

func buildMatchRosters(matchID int64, verified []*domain.Game) []*domain.MatchRoster {
	players := make(map[domain.Team]map[int64]struct{})
	scores := make(map[domain.Team]int64)
	for _, game := range verified {
		for _, roster := range game.Rosters {
			if players[roster.Team] == nil {
				players[roster.Team] = make(map[int64]struct{})
			}
			for _, id := range roster.PlayerIDs {
				players[roster.Team][id] = struct{}{}
			}
			scores[roster.Team] += roster.Score
		}
	}

	teams := make([]domain.Team, 0, len(players))
	for team := range players {
		teams = append(teams, team)
	}
	slices.Sort(teams)

	rosters := make([]*domain.MatchRoster, 0, len(teams))
	for _, team := range teams {
		roster := &domain.MatchRoster{MatchID: matchID, Team: team, Score: scores[team]}
		for id := range players[team] {
			roster.PlayerIDs = append(roster.PlayerIDs, id)
		}
		slices.Sort(roster.PlayerIDs)
		rosters = append(rosters, roster)
	}
	return rosters
}

type playerAccumulator struct {
	gamesPlayed  int
	gamesWon     int
	gamesLost    int
	scoreSum     int64
	placementSum int
	teammates    map[int64]struct{}
	opponents    map[int64]struct{}
}

func buildPlayerStats(matchID int64, verified []*domain.Game) []*domain.PlayerMatchStats {
	acc := make(map[int64]*playerAccumulator)
	get := func(id int64) *playerAccumulator {
		p, ok := acc[id]
		if !ok {
			p = &playerAccumulator{
				teammates: make(map[int64]struct{}),
				opponents: make(map[int64]struct{}),
			}
			acc[id] = p
		}
		return p
	}

	for _, game := range verified {
		rosterOf := make(map[int64]*domain.GameRoster)
		for _, roster := range game.Rosters {
			for _, id := range roster.PlayerIDs {
				rosterOf[id] = roster
			}
		}

		scoreOf := make(map[int64]*domain.GameScore)
		for _, score := range game.Scores {
			if score.VerificationStatus == domain.VerificationVerified {
				scoreOf[score.PlayerID] = score
			}
		}

		for id, roster := range rosterOf {
			p := get(id)
			p.gamesPlayed++

			// An absent opposing roster counts as zero: an uncontested
			// team still wins on any positive score.
			var opposingScore int64
			for _, other := range game.Rosters {
				if other.Team != roster.Team {
					opposingScore = other.Score
					break
				}
			}
			if roster.Score > opposingScore {
				p.gamesWon++
			} else {
				p.gamesLost++
			}

			if score, ok := scoreOf[id]; ok {
				p.scoreSum += score.Score
				p.placementSum += score.Placement
			}

			for _, other := range game.Rosters {
				for _, otherID := range other.PlayerIDs {
					if otherID == id {
						continue
					}
					if other.Team == roster.Team {
						p.teammates[otherID] = struct{}{}
					} else {
						p.opponents[otherID] = struct{}{}
					}
				}
			}
		}
	}

	ids := make([]int64, 0, len(acc))
	for id := range acc {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	result := make([]*domain.PlayerMatchStats, 0, len(ids))
	for _, id := range ids {
		p := acc[id]
		stats := &domain.PlayerMatchStats{
			MatchID:     matchID,
			PlayerID:    id,
			GamesPlayed: p.gamesPlayed,
			GamesWon:    p.gamesWon,
			GamesLost:   p.gamesLost,
			Won:         p.gamesWon > p.gamesLost,
			TeammateIDs: sortedIDs(p.teammates),
			OpponentIDs: sortedIDs(p.opponents),
		}
		if p.gamesPlayed > 0 {
			stats.AverageScore = float64(p.scoreSum) / float64(p.gamesPlayed)
			stats.AveragePlacement = float64(p.placementSum) / float64(p.gamesPlayed)
		}
		result = append(result, stats)
	}
	return result
}

func sortedIDs(set map[int64]struct{}) []int64 {
	if len(set) == 0 {
		return nil
	}
	ids := make([]int64, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}
