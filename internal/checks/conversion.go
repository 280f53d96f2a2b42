package checks

import (
	"cmp"
	"slices"

	"tournament-verifier/internal/domain"
)

// ProcessConversions attempts the head-to-head to team-vs conversion for a
// match. It runs only for tournaments with lobby size 1 and must run before
// game checks so converted games pass the team-type rule and failed
// candidates carry the conversion flag into their game-level mask.
//
// On success every eligible head-to-head game is switched to TeamVs and its
// scores assigned the resolved colors; the games are not re-flagged. On
// failure FailedTeamVsConversion is ORed onto the match and onto every
// candidate game.
func (c *MatchCheck) ProcessConversions(match *domain.Match, tournament *domain.Tournament) {
	if tournament.LobbySize != 1 {
		return
	}

	var candidates []*domain.Game
	for _, game := range match.Games {
		if game.TeamType == domain.TeamTypeHeadToHead {
			candidates = append(candidates, game)
		}
	}
	if len(candidates) == 0 {
		return
	}

	// A head-to-head game with a score count other than 2 is not a 1v1 at
	// all; conversion is not attempted and nothing is flagged.
	for _, game := range candidates {
		if len(game.Scores) != 2 {
			return
		}
	}

	playerA, playerB, ok := distinctPair(candidates)
	if !ok {
		c.failConversion(match, candidates)
		return
	}

	colorA, ok := c.resolveColor(match, playerA, playerB, candidates)
	if !ok {
		c.failConversion(match, candidates)
		return
	}
	colorB := colorA.Opposite()

	for _, game := range candidates {
		game.TeamType = domain.TeamTypeTeamVs
		for _, score := range game.Scores {
			if score.PlayerID == playerA {
				score.Team = colorA
			} else {
				score.Team = colorB
			}
		}
	}

	c.logger.Debug().
		Int64("match_id", match.ID).
		Int64("player_a", playerA).
		Int64("player_b", playerB).
		Stringer("color_a", colorA).
		Int("games", len(candidates)).
		Msg("converted head-to-head games to team-vs")
}

// distinctPair collects the de-duplicated player set across all candidate
// games. Conversion requires a consistent 1v1: exactly two distinct players.
func distinctPair(candidates []*domain.Game) (int64, int64, bool) {
	players := make(map[int64]struct{})
	for _, game := range candidates {
		for _, score := range game.Scores {
			players[score.PlayerID] = struct{}{}
		}
	}
	if len(players) != 2 {
		return 0, 0, false
	}

	ids := make([]int64, 0, 2)
	for id := range players {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids[0], ids[1], true
}

// resolveColor determines which color playerA should hold in every
// converted game:
//
//  1. Majority vote over the match's existing TeamVs games with the same
//     pair of players. Any nonzero vote difference decides.
//  2. Exact vote ties fall back to the assignment in the second-to-last
//     game of the match's full chronological sequence.
//  3. With no TeamVs reference games at all, the player with the higher
//     score total across the converting games gets Red.
//
// Returns false when no unambiguous determination is possible.
func (c *MatchCheck) resolveColor(match *domain.Match, playerA, playerB int64, candidates []*domain.Game) (domain.Team, bool) {
	refs := referenceGames(match, playerA, playerB)

	if len(refs) == 0 {
		totalA, totalB := int64(0), int64(0)
		for _, game := range candidates {
			for _, score := range game.Scores {
				if score.PlayerID == playerA {
					totalA += score.Score
				} else {
					totalB += score.Score
				}
			}
		}
		if totalA == totalB {
			return domain.TeamNone, false
		}
		if totalA > totalB {
			return domain.TeamRed, true
		}
		return domain.TeamBlue, true
	}

	red, blue := 0, 0
	for _, game := range refs {
		switch teamOf(game, playerA) {
		case domain.TeamRed:
			red++
		case domain.TeamBlue:
			blue++
		}
	}
	if red > blue {
		return domain.TeamRed, true
	}
	if blue > red {
		return domain.TeamBlue, true
	}
	return c.tieBreakColor(match, playerA, playerB)
}

// tieBreakColor uses the second-to-last game in the match's chronological
// game sequence, counting every game regardless of team type.
func (c *MatchCheck) tieBreakColor(match *domain.Match, playerA, playerB int64) (domain.Team, bool) {
	if len(match.Games) < 2 {
		return domain.TeamNone, false
	}

	ordered := slices.Clone(match.Games)
	slices.SortStableFunc(ordered, func(a, b *domain.Game) int {
		if v := a.StartTime.Compare(b.StartTime); v != 0 {
			return v
		}
		return cmp.Compare(a.ID, b.ID)
	})

	game := ordered[len(ordered)-2]
	colorA := teamOf(game, playerA)
	colorB := teamOf(game, playerB)
	if colorA == domain.TeamNone || colorB == domain.TeamNone || colorA == colorB {
		return domain.TeamNone, false
	}
	return colorA, true
}

// referenceGames returns the match's TeamVs games played by exactly the
// given pair of players.
func referenceGames(match *domain.Match, playerA, playerB int64) []*domain.Game {
	var refs []*domain.Game
	for _, game := range match.Games {
		if game.TeamType != domain.TeamTypeTeamVs {
			continue
		}
		players := make(map[int64]struct{})
		for _, score := range game.Scores {
			players[score.PlayerID] = struct{}{}
		}
		if len(players) != 2 {
			continue
		}
		if _, ok := players[playerA]; !ok {
			continue
		}
		if _, ok := players[playerB]; !ok {
			continue
		}
		refs = append(refs, game)
	}
	return refs
}

func teamOf(game *domain.Game, playerID int64) domain.Team {
	for _, score := range game.Scores {
		if score.PlayerID == playerID {
			return score.Team
		}
	}
	return domain.TeamNone
}

func (c *MatchCheck) failConversion(match *domain.Match, candidates []*domain.Game) {
	match.RejectionReason |= domain.MatchFailedTeamVsConversion
	for _, game := range candidates {
		game.RejectionReason |= domain.GameFailedTeamVsConversion
	}
	c.logger.Debug().
		Int64("match_id", match.ID).
		Int("candidates", len(candidates)).
		Msg("head-to-head conversion failed")
}
