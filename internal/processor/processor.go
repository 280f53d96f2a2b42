// Package processor drives the automation-check and stats pipelines over a
// single tournament's fully loaded subtree. It processes one tournament per
// call; concurrency is expected across tournaments, never within one.
package processor

import (
	"time"

	"tournament-verifier/internal/checks"
	"tournament-verifier/internal/domain"
	"tournament-verifier/internal/stats"

	"github.com/rs/zerolog"
)

type Processor struct {
	scoreCheck      *checks.ScoreCheck
	matchCheck      *checks.MatchCheck
	tournamentCheck *checks.TournamentCheck
	matchStats      *stats.MatchStatsAggregator
	logger          zerolog.Logger
}

func New(
	scoreCheck *checks.ScoreCheck,
	matchCheck *checks.MatchCheck,
	tournamentCheck *checks.TournamentCheck,
	matchStats *stats.MatchStatsAggregator,
	logger zerolog.Logger,
) *Processor {
	return &Processor{
		scoreCheck:      scoreCheck,
		matchCheck:      matchCheck,
		tournamentCheck: tournamentCheck,
		matchStats:      matchStats,
		logger:          logger,
	}
}

// ProcessTournament runs the automation checks bottom-up: scores, then the
// head-to-head conversion pass, then games, matches and the tournament
// itself. Masks accumulate; verification statuses are set to PreVerified or
// PreRejected from whether the accumulated mask is empty, without touching
// entities a human reviewer already settled.
func (p *Processor) ProcessTournament(tournament *domain.Tournament) {
	now := time.Now()

	var usage checks.BeatmapUsage
	if !tournament.HasPooledBeatmaps() {
		usage = checks.CountBeatmapUsage(tournament)
	}
	gameCheck := checks.NewGameCheck(usage, p.logger)

	for _, match := range tournament.Matches {
		for _, game := range match.Games {
			for _, score := range game.Scores {
				score.RejectionReason |= p.scoreCheck.Process(score, tournament)
				score.VerificationStatus = preStatus(score.VerificationStatus, score.RejectionReason == domain.ScoreRejectionNone)
				score.LastProcessingDate = now
			}
		}
	}

	// Conversion must precede game checks: converted games pass the
	// team-type rule, and failed candidates carry the conversion flag into
	// their game-level mask.
	for _, match := range tournament.Matches {
		p.matchCheck.ProcessConversions(match, tournament)
	}

	for _, match := range tournament.Matches {
		for _, game := range match.Games {
			game.RejectionReason |= gameCheck.Process(game, tournament)
			game.VerificationStatus = preStatus(game.VerificationStatus, game.RejectionReason == domain.GameRejectionNone)
			game.LastProcessingDate = now
		}
	}

	for _, match := range tournament.Matches {
		match.RejectionReason |= p.matchCheck.Process(match, tournament)
		match.VerificationStatus = preStatus(match.VerificationStatus, match.RejectionReason == domain.MatchRejectionNone)
		match.LastProcessingDate = now
	}

	tournament.RejectionReason = p.tournamentCheck.Process(tournament)
	tournament.VerificationStatus = preStatus(tournament.VerificationStatus, tournament.RejectionReason == domain.TournamentRejectionNone)
	tournament.LastProcessingDate = now
	if tournament.ProcessingStatus == domain.ProcessingNeedsAutomationChecks {
		tournament.ProcessingStatus = domain.ProcessingNeedsVerification
	}

	p.logger.Info().
		Int64("tournament_id", tournament.ID).
		Int("matches", len(tournament.Matches)).
		Stringer("status", tournament.VerificationStatus).
		Stringer("reason", tournament.RejectionReason).
		Msg("tournament automation checks completed")
}

// ProcessStats aggregates rosters and player stats for every verified match
// of a reviewed tournament. Aggregation failures are scoped to the single
// match; the remaining matches still get their stats.
func (p *Processor) ProcessStats(tournament *domain.Tournament) {
	now := time.Now()
	failed := 0

	for _, match := range tournament.Matches {
		if match.VerificationStatus != domain.VerificationVerified {
			continue
		}
		if err := p.matchStats.Process(match); err != nil {
			failed++
			p.logger.Error().Err(err).
				Int64("tournament_id", tournament.ID).
				Int64("match_id", match.ID).
				Msg("match stats aggregation failed")
		}
	}

	tournament.LastProcessingDate = now
	if tournament.ProcessingStatus == domain.ProcessingNeedsStatCalculation {
		tournament.ProcessingStatus = domain.ProcessingDone
	}

	p.logger.Info().
		Int64("tournament_id", tournament.ID).
		Int("failed_matches", failed).
		Msg("tournament stats aggregation completed")
}

// preStatus applies the automation verdict without clobbering a
// human-review decision.
func preStatus(current domain.VerificationStatus, passed bool) domain.VerificationStatus {
	if current == domain.VerificationRejected || current == domain.VerificationVerified {
		return current
	}
	if passed {
		return domain.VerificationPreVerified
	}
	return domain.VerificationPreRejected
}
