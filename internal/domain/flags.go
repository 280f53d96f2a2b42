package domain

import "strings"

// Rejection reasons and warning flags are accumulate-only bitmasks. A zero
// value means the entity passed every check at that level.

type ScoreRejectionReason uint32

const (
	ScoreBelowMinimum ScoreRejectionReason = 1 << iota
	ScoreInvalidMods
	ScoreRulesetMismatch
)

const ScoreRejectionNone ScoreRejectionReason = 0

func (r ScoreRejectionReason) String() string {
	return flagString(uint32(r), []flagName{
		{uint32(ScoreBelowMinimum), "ScoreBelowMinimum"},
		{uint32(ScoreInvalidMods), "InvalidMods"},
		{uint32(ScoreRulesetMismatch), "RulesetMismatch"},
	})
}

type GameRejectionReason uint32

const (
	GameInvalidTeamType GameRejectionReason = 1 << iota
	GameInvalidScoringType
	GameRulesetMismatch
	GameInvalidMods
	GameNoEndTime
	GameNoScores
	GameNoValidScores
	GameLobbySizeMismatch
	GameBeatmapNotPooled
	GameFailedTeamVsConversion
)

const GameRejectionNone GameRejectionReason = 0

func (r GameRejectionReason) String() string {
	return flagString(uint32(r), []flagName{
		{uint32(GameInvalidTeamType), "InvalidTeamType"},
		{uint32(GameInvalidScoringType), "InvalidScoringType"},
		{uint32(GameRulesetMismatch), "RulesetMismatch"},
		{uint32(GameInvalidMods), "InvalidMods"},
		{uint32(GameNoEndTime), "NoEndTime"},
		{uint32(GameNoScores), "NoScores"},
		{uint32(GameNoValidScores), "NoValidScores"},
		{uint32(GameLobbySizeMismatch), "LobbySizeMismatch"},
		{uint32(GameBeatmapNotPooled), "BeatmapNotPooled"},
		{uint32(GameFailedTeamVsConversion), "FailedTeamVsConversion"},
	})
}

type GameWarningFlags uint32

const (
	GameWarningBeatmapUsedOnce GameWarningFlags = 1 << iota
)

const GameWarningNone GameWarningFlags = 0

func (w GameWarningFlags) String() string {
	return flagString(uint32(w), []flagName{
		{uint32(GameWarningBeatmapUsedOnce), "BeatmapUsedOnce"},
	})
}

type MatchRejectionReason uint32

const (
	MatchNoEndTime MatchRejectionReason = 1 << iota
	MatchNoGames
	MatchNoValidGames
	MatchUnexpectedGameCount
	MatchNamePrefixMismatch
	MatchFailedTeamVsConversion
)

const MatchRejectionNone MatchRejectionReason = 0

func (r MatchRejectionReason) String() string {
	return flagString(uint32(r), []flagName{
		{uint32(MatchNoEndTime), "NoEndTime"},
		{uint32(MatchNoGames), "NoGames"},
		{uint32(MatchNoValidGames), "NoValidGames"},
		{uint32(MatchUnexpectedGameCount), "UnexpectedGameCount"},
		{uint32(MatchNamePrefixMismatch), "NamePrefixMismatch"},
		{uint32(MatchFailedTeamVsConversion), "FailedTeamVsConversion"},
	})
}

type MatchWarningFlags uint32

const (
	MatchWarningUnexpectedNameFormat MatchWarningFlags = 1 << iota
)

const MatchWarningNone MatchWarningFlags = 0

func (w MatchWarningFlags) String() string {
	return flagString(uint32(w), []flagName{
		{uint32(MatchWarningUnexpectedNameFormat), "UnexpectedNameFormat"},
	})
}

// TournamentRejectionReason is single-valued, not a bitmask: the tournament
// check yields exactly one verdict.
type TournamentRejectionReason int

const (
	TournamentRejectionNone TournamentRejectionReason = iota
	TournamentNoVerifiedMatches
	TournamentNotEnoughVerifiedMatches
)

func (r TournamentRejectionReason) String() string {
	switch r {
	case TournamentNoVerifiedMatches:
		return "NoVerifiedMatches"
	case TournamentNotEnoughVerifiedMatches:
		return "NotEnoughVerifiedMatches"
	}
	return "None"
}

type flagName struct {
	bit  uint32
	name string
}

func flagString(mask uint32, names []flagName) string {
	if mask == 0 {
		return "None"
	}
	var parts []string
	for _, fn := range names {
		if mask&fn.bit != 0 {
			parts = append(parts, fn.name)
		}
	}
	return strings.Join(parts, "|")
}
