package checks

import (
	"tournament-verifier/internal/constants"
	"tournament-verifier/internal/domain"

	"github.com/rs/zerolog"
)

// BeatmapUsage counts, per beatmap, how many games across a single
// tournament-processing run used it. It is built and owned by the
// orchestrator before game checks run and discarded afterwards; GameCheck
// only reads it.
type BeatmapUsage map[int64]int

// CountBeatmapUsage tallies beatmap usage across every game of the
// tournament. Only meaningful for tournaments without a declared pool.
func CountBeatmapUsage(tournament *domain.Tournament) BeatmapUsage {
	usage := make(BeatmapUsage)
	for _, match := range tournament.Matches {
		for _, game := range match.Games {
			if game.BeatmapID != 0 {
				usage[game.BeatmapID]++
			}
		}
	}
	return usage
}

// GameCheck validates a game against its tournament's configuration. It
// depends on the ScoreCheck outcomes of the game's child scores, so scores
// must carry their verification status before a game is processed.
//
// As a side effect it ORs BeatmapUsedOnce onto the game's warning flags
// when the tournament has no declared pool and the game's beatmap appears
// exactly once in the whole run.
type GameCheck struct {
	usage  BeatmapUsage
	logger zerolog.Logger
}

func NewGameCheck(usage BeatmapUsage, logger zerolog.Logger) *GameCheck {
	return &GameCheck{usage: usage, logger: logger}
}

func (c *GameCheck) Process(game *domain.Game, tournament *domain.Tournament) domain.GameRejectionReason {
	reason := domain.GameRejectionNone

	if game.TeamType != domain.TeamTypeTeamVs {
		reason |= domain.GameInvalidTeamType
	}
	if game.ScoringType != domain.ScoringTypeScoreV2 {
		reason |= domain.GameInvalidScoringType
	}
	if game.Ruleset != tournament.Ruleset {
		reason |= domain.GameRulesetMismatch
	}
	if game.Mods&domain.IllegalMods != 0 {
		reason |= domain.GameInvalidMods
	}
	if game.EndTime.IsZero() {
		reason |= domain.GameNoEndTime
	}

	reason |= c.checkScoreCounts(game, tournament)

	if tournament.HasPooledBeatmaps() {
		if !tournament.IsBeatmapPooled(game.BeatmapID) {
			reason |= domain.GameBeatmapNotPooled
		}
	} else if c.usage != nil && c.usage[game.BeatmapID] == 1 {
		game.WarningFlags |= domain.GameWarningBeatmapUsedOnce
	}

	if reason != domain.GameRejectionNone {
		c.logger.Debug().
			Int64("game_id", game.ID).
			Int64("beatmap_id", game.BeatmapID).
			Stringer("reason", reason).
			Msg("game failed automation checks")
	}
	return reason
}

// checkScoreCounts evaluates the mutually exclusive score-count family:
// NoScores, then NoValidScores, then LobbySizeMismatch, in that priority.
func (c *GameCheck) checkScoreCounts(game *domain.Game, tournament *domain.Tournament) domain.GameRejectionReason {
	if len(game.Scores) == 0 {
		return domain.GameNoScores
	}

	var validRed, validBlue, valid int
	for _, score := range game.Scores {
		if !score.VerificationStatus.IsValid() {
			continue
		}
		valid++
		switch score.Team {
		case domain.TeamRed:
			validRed++
		case domain.TeamBlue:
			validBlue++
		}
	}

	if valid < constants.MinimumValidScores {
		return domain.GameNoValidScores
	}
	if validRed != validBlue || validRed != tournament.LobbySize {
		return domain.GameLobbySizeMismatch
	}
	return domain.GameRejectionNone
}
