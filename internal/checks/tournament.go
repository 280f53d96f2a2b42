package checks

import (
	"tournament-verifier/internal/constants"
	"tournament-verifier/internal/domain"

	"github.com/rs/zerolog"
)

// TournamentCheck verifies a tournament as a whole from the proportion of
// its matches that passed MatchCheck. Matches with zero games carry no
// evidence either way and are excluded from both sides of the ratio.
type TournamentCheck struct {
	logger zerolog.Logger
}

func NewTournamentCheck(logger zerolog.Logger) *TournamentCheck {
	return &TournamentCheck{logger: logger}
}

func (c *TournamentCheck) Process(tournament *domain.Tournament) domain.TournamentRejectionReason {
	considered, verified := 0, 0
	for _, match := range tournament.Matches {
		if len(match.Games) == 0 {
			continue
		}
		considered++
		if match.VerificationStatus.IsValid() {
			verified++
		}
	}

	reason := domain.TournamentRejectionNone
	switch {
	case considered == 0 || verified == 0:
		reason = domain.TournamentNoVerifiedMatches
	case float64(verified)/float64(considered) < constants.VerifiedMatchRatio:
		reason = domain.TournamentNotEnoughVerifiedMatches
	}

	if reason != domain.TournamentRejectionNone {
		c.logger.Debug().
			Int64("tournament_id", tournament.ID).
			Int("considered", considered).
			Int("verified", verified).
			Stringer("reason", reason).
			Msg("tournament failed automation checks")
	}
	return reason
}
