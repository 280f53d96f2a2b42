package domain

type Ruleset int

const (
	RulesetOsu Ruleset = iota
	RulesetTaiko
	RulesetCatch
	RulesetMania
)

func (r Ruleset) String() string {
	switch r {
	case RulesetOsu:
		return "osu"
	case RulesetTaiko:
		return "taiko"
	case RulesetCatch:
		return "catch"
	case RulesetMania:
		return "mania"
	}
	return "unknown"
}

type Team int

const (
	TeamNone Team = iota
	TeamBlue
	TeamRed
)

func (t Team) String() string {
	switch t {
	case TeamBlue:
		return "Blue"
	case TeamRed:
		return "Red"
	}
	return "None"
}

// Opposite returns the other lobby color. TeamNone maps to itself.
func (t Team) Opposite() Team {
	switch t {
	case TeamBlue:
		return TeamRed
	case TeamRed:
		return TeamBlue
	}
	return t
}

type TeamType int

const (
	TeamTypeHeadToHead TeamType = iota
	TeamTypeTagCoop
	TeamTypeTeamVs
	TeamTypeTagTeamVs
)

func (t TeamType) String() string {
	switch t {
	case TeamTypeHeadToHead:
		return "HeadToHead"
	case TeamTypeTagCoop:
		return "TagCoop"
	case TeamTypeTeamVs:
		return "TeamVs"
	case TeamTypeTagTeamVs:
		return "TagTeamVs"
	}
	return "unknown"
}

type ScoringType int

const (
	ScoringTypeScore ScoringType = iota
	ScoringTypeAccuracy
	ScoringTypeCombo
	ScoringTypeScoreV2
)

func (s ScoringType) String() string {
	switch s {
	case ScoringTypeScore:
		return "Score"
	case ScoringTypeAccuracy:
		return "Accuracy"
	case ScoringTypeCombo:
		return "Combo"
	case ScoringTypeScoreV2:
		return "ScoreV2"
	}
	return "unknown"
}

// Mods is the osu! mod bitmask as reported by the legacy API.
type Mods uint32

const (
	ModNoFail Mods = 1 << iota
	ModEasy
	ModTouchDevice
	ModHidden
	ModHardRock
	ModSuddenDeath
	ModDoubleTime
	ModRelax
	ModHalfTime
	ModNightcore
	ModFlashlight
	ModAutoplay
	ModSpunOut
	ModRelax2
	ModPerfect
)

const ModNone Mods = 0

// IllegalMods are never allowed in tournament play at any level.
const IllegalMods = ModSuddenDeath | ModPerfect | ModRelax | ModRelax2 | ModAutoplay

type VerificationStatus int

const (
	VerificationNone VerificationStatus = iota
	VerificationPreRejected
	VerificationPreVerified
	VerificationRejected
	VerificationVerified
)

// IsValid reports whether the entity counts as valid for aggregation
// purposes: either pre-verified by automation or verified by review.
func (v VerificationStatus) IsValid() bool {
	return v == VerificationPreVerified || v == VerificationVerified
}

func (v VerificationStatus) String() string {
	switch v {
	case VerificationNone:
		return "None"
	case VerificationPreRejected:
		return "PreRejected"
	case VerificationPreVerified:
		return "PreVerified"
	case VerificationRejected:
		return "Rejected"
	case VerificationVerified:
		return "Verified"
	}
	return "unknown"
}

// ProcessingStatus tracks pipeline progress. Forward-only.
type ProcessingStatus int

const (
	ProcessingNeedsAutomationChecks ProcessingStatus = iota
	ProcessingNeedsVerification
	ProcessingNeedsStatCalculation
	ProcessingDone
)

func (p ProcessingStatus) String() string {
	switch p {
	case ProcessingNeedsAutomationChecks:
		return "NeedsAutomationChecks"
	case ProcessingNeedsVerification:
		return "NeedsVerification"
	case ProcessingNeedsStatCalculation:
		return "NeedsStatCalculation"
	case ProcessingDone:
		return "Done"
	}
	return "unknown"
}
