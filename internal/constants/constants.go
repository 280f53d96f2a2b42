package constants

import "time"

const (
	// MinimumScore is the exclusive lower bound for a counted score; a
	// score of exactly this value is rejected.
	MinimumScore = 1000

	// MinimumValidScores is the fewest individually valid scores a game
	// needs before lobby sizes are even compared.
	MinimumValidScores = 2

	// VerifiedMatchRatio is the inclusive pass threshold for the fraction
	// of considered matches that must be verified.
	VerifiedMatchRatio = 0.80
)

const (
	DedupPendingTTL   = 10 * time.Minute
	DedupProcessedTTL = 24 * time.Hour
)

const (
	DatabaseTimeout   = 5 * time.Second
	ProcessingTimeout = 60 * time.Second
	ShutdownTimeout   = 5 * time.Second
)

const (
	DBMaxOpenConns    = 100
	DBMaxIdleConns    = 10
	DBConnMaxLifetime = 1 * time.Hour
	DBMaxIdleTime     = 10 * time.Minute
)

const (
	DefaultPollInterval = 10 * time.Second
	ClaimBatchSize      = 25
)
