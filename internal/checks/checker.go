// Package checks implements the automation-check pipeline: four cascading
// validators over the tournament/match/game/score hierarchy. Every check is
// a deterministic function of its inputs; rule failures are bitmask flags,
// never errors.
package checks

import (
	"tournament-verifier/internal/domain"
)

// Checker is the shared shape of an automation check: one entity plus its
// tournament context in, a rejection verdict out. Checks never clear bits
// that earlier passes set; callers OR the returned mask into the entity.
type Checker[E any, R any] interface {
	Process(entity E, tournament *domain.Tournament) R
}

var (
	_ Checker[*domain.GameScore, domain.ScoreRejectionReason] = (*ScoreCheck)(nil)
	_ Checker[*domain.Game, domain.GameRejectionReason]       = (*GameCheck)(nil)
	_ Checker[*domain.Match, domain.MatchRejectionReason]     = (*MatchCheck)(nil)
)
