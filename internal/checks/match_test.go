package checks

import (
	"testing"
	"time"

	"tournament-verifier/internal/domain"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func validatedGame(status domain.VerificationStatus) *domain.Game {
	game := validGame()
	game.VerificationStatus = status
	return game
}

func validMatch() *domain.Match {
	return &domain.Match{
		ID:        10,
		Name:      "OWC2024: (United States) vs (South Korea)",
		StartTime: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
		EndTime:   time.Date(2024, 6, 1, 13, 0, 0, 0, time.UTC),
		Games: []*domain.Game{
			validatedGame(domain.VerificationPreVerified),
			validatedGame(domain.VerificationPreVerified),
			validatedGame(domain.VerificationPreVerified),
		},
	}
}

func TestMatchCheckPasses(t *testing.T) {
	check := NewMatchCheck(zerolog.Nop())
	match := validMatch()

	assert.Equal(t, domain.MatchRejectionNone, check.Process(match, osuTournament()))
	assert.Equal(t, domain.MatchWarningNone, match.WarningFlags)
}

func TestMatchCheckNoEndTime(t *testing.T) {
	check := NewMatchCheck(zerolog.Nop())
	match := validMatch()
	match.EndTime = time.Time{}

	assert.NotZero(t, check.Process(match, osuTournament())&domain.MatchNoEndTime)
}

func TestMatchCheckGameCountPriority(t *testing.T) {
	check := NewMatchCheck(zerolog.Nop())
	tournament := osuTournament()

	match := validMatch()
	match.Games = nil
	reason := check.Process(match, tournament)
	assert.NotZero(t, reason&domain.MatchNoGames)
	assert.Zero(t, reason&domain.MatchNoValidGames)

	match = validMatch()
	for _, game := range match.Games {
		game.VerificationStatus = domain.VerificationPreRejected
	}
	reason = check.Process(match, tournament)
	assert.Zero(t, reason&domain.MatchNoGames)
	assert.NotZero(t, reason&domain.MatchNoValidGames)
	assert.Zero(t, reason&domain.MatchUnexpectedGameCount)

	// Two valid games out of three: even count is suspect.
	match = validMatch()
	match.Games[2].VerificationStatus = domain.VerificationPreRejected
	reason = check.Process(match, tournament)
	assert.NotZero(t, reason&domain.MatchUnexpectedGameCount)
	assert.Zero(t, reason&domain.MatchNoValidGames)
}

func TestMatchCheckNamePrefix(t *testing.T) {
	check := NewMatchCheck(zerolog.Nop())
	tournament := osuTournament() // abbreviation OWC2024

	cases := []struct {
		name    string
		matches bool
	}{
		{"OWC2024: (A) vs (B)", true},
		{"owc2024: (A) vs (B)", true}, // case-insensitive
		{"OWC2024 Grand Finals: (A) vs (B)", true},
		{"OWC20245: (A) vs (B)", false}, // digit continues the prefix
		{"OWC2024", false},              // nothing after the abbreviation
		{"Something else: (A) vs (B)", false},
	}
	for _, tc := range cases {
		match := validMatch()
		match.Name = tc.name
		reason := check.Process(match, tournament)
		if tc.matches {
			assert.Zero(t, reason&domain.MatchNamePrefixMismatch, tc.name)
		} else {
			assert.NotZero(t, reason&domain.MatchNamePrefixMismatch, tc.name)
		}
	}
}

func TestMatchCheckEmptyAbbreviationEnforcesNothing(t *testing.T) {
	check := NewMatchCheck(zerolog.Nop())
	tournament := osuTournament()
	tournament.Abbreviation = ""

	match := validMatch()
	match.Name = "anything at all: (A) vs (B)"
	assert.Zero(t, check.Process(match, tournament)&domain.MatchNamePrefixMismatch)
}

func TestMatchCheckNameFormatWarning(t *testing.T) {
	check := NewMatchCheck(zerolog.Nop())
	tournament := osuTournament()

	match := validMatch()
	match.Name = "OWC2024 tryouts lobby"
	reason := check.Process(match, tournament)

	// Wrong lobby-name shape warns but does not reject.
	assert.Zero(t, reason&domain.MatchNamePrefixMismatch)
	assert.Equal(t, domain.MatchWarningUnexpectedNameFormat, match.WarningFlags)

	match = validMatch()
	match.Name = "OWC2024: (United States) vs. (South Korea)"
	check.Process(match, tournament)
	assert.Equal(t, domain.MatchWarningNone, match.WarningFlags)
}
