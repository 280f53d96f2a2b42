package checks

import (
	"regexp"
	"strings"
	"unicode"

	"tournament-verifier/internal/domain"

	"github.com/rs/zerolog"
)

// lobbyNameFormat is the general lobby-naming convention:
// "<prefix>: (<team A>) vs[.] (<team B>)". Case-insensitive, optional
// period after "vs", free-form team names, no newlines inside the groups.
var lobbyNameFormat = regexp.MustCompile(`(?i)^[^\n]+:\s*\([^\n]+\)\s+vs\.?\s+\([^\n]+\)`)

// MatchCheck validates a match against its tournament. It depends on the
// GameCheck outcomes of the match's child games; the conversion pass
// (ProcessConversions) runs separately, before game checks.
type MatchCheck struct {
	logger zerolog.Logger
}

func NewMatchCheck(logger zerolog.Logger) *MatchCheck {
	return &MatchCheck{logger: logger}
}

func (c *MatchCheck) Process(match *domain.Match, tournament *domain.Tournament) domain.MatchRejectionReason {
	reason := domain.MatchRejectionNone

	if match.EndTime.IsZero() {
		reason |= domain.MatchNoEndTime
	}

	reason |= c.checkGameCounts(match)

	if !hasNamePrefix(match.Name, tournament.Abbreviation) {
		reason |= domain.MatchNamePrefixMismatch
	}
	if !lobbyNameFormat.MatchString(match.Name) {
		match.WarningFlags |= domain.MatchWarningUnexpectedNameFormat
	}

	if reason != domain.MatchRejectionNone {
		c.logger.Debug().
			Int64("match_id", match.ID).
			Str("name", match.Name).
			Stringer("reason", reason).
			Msg("match failed automation checks")
	}
	return reason
}

// checkGameCounts evaluates the mutually exclusive game-count family:
// NoGames, then NoValidGames, then UnexpectedGameCount. Tournament play is
// best-of-odd, so an even valid-game count is suspect.
func (c *MatchCheck) checkGameCounts(match *domain.Match) domain.MatchRejectionReason {
	if len(match.Games) == 0 {
		return domain.MatchNoGames
	}

	valid := 0
	for _, game := range match.Games {
		if game.VerificationStatus.IsValid() {
			valid++
		}
	}

	if valid == 0 {
		return domain.MatchNoValidGames
	}
	if valid%2 == 0 {
		return domain.MatchUnexpectedGameCount
	}
	return domain.MatchRejectionNone
}

// hasNamePrefix reports whether the match name starts with the tournament
// abbreviation followed by a separator. Case-insensitive; any punctuation
// or whitespace counts as a separator. An empty abbreviation enforces
// nothing.
func hasNamePrefix(name, abbreviation string) bool {
	abbreviation = strings.TrimSpace(abbreviation)
	if abbreviation == "" {
		return true
	}

	name = strings.ToLower(strings.TrimSpace(name))
	abbreviation = strings.ToLower(abbreviation)
	if !strings.HasPrefix(name, abbreviation) {
		return false
	}

	rest := name[len(abbreviation):]
	if rest == "" {
		return false
	}
	next := []rune(rest)[0]
	return !unicode.IsLetter(next) && !unicode.IsDigit(next)
}
