package domain

import (
	"time"
)

// Tournament is the root of the containment hierarchy. Matches are loaded
// eagerly; the pipeline never lazily fetches children.
type Tournament struct {
	ID                 int64
	Name               string
	Abbreviation       string
	Ruleset            Ruleset
	LobbySize          int
	PooledBeatmapIDs   []int64 // empty means no declared pool
	RejectionReason    TournamentRejectionReason
	VerificationStatus VerificationStatus
	ProcessingStatus   ProcessingStatus
	LastProcessingDate time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time

	Matches []*Match
}

// HasPooledBeatmaps reports whether the tournament declares a beatmap pool.
func (t *Tournament) HasPooledBeatmaps() bool {
	return len(t.PooledBeatmapIDs) > 0
}

// IsBeatmapPooled reports pool membership. A tournament without a declared
// pool accepts every beatmap.
func (t *Tournament) IsBeatmapPooled(beatmapID int64) bool {
	if !t.HasPooledBeatmaps() {
		return true
	}
	for _, id := range t.PooledBeatmapIDs {
		if id == beatmapID {
			return true
		}
	}
	return false
}

type Match struct {
	ID                 int64
	TournamentID       int64
	Name               string
	StartTime          time.Time
	EndTime            time.Time // zero means the lobby never closed
	RejectionReason    MatchRejectionReason
	WarningFlags       MatchWarningFlags
	VerificationStatus VerificationStatus
	LastProcessingDate time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time

	Games       []*Game
	Rosters     []*MatchRoster
	PlayerStats []*PlayerMatchStats
}

// Game is a single beatmap played once within a match.
type Game struct {
	ID                 int64
	MatchID            int64
	BeatmapID          int64
	Ruleset            Ruleset
	ScoringType        ScoringType
	TeamType           TeamType
	Mods               Mods // lobby-forced mods
	StartTime          time.Time
	EndTime            time.Time
	RejectionReason    GameRejectionReason
	WarningFlags       GameWarningFlags
	VerificationStatus VerificationStatus
	LastProcessingDate time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time

	Scores  []*GameScore
	Rosters []*GameRoster
}

type GameScore struct {
	ID                 int64
	GameID             int64
	PlayerID           int64
	Score              int64
	Placement          int
	Ruleset            Ruleset
	Mods               Mods
	Team               Team
	RejectionReason    ScoreRejectionReason
	VerificationStatus VerificationStatus
	LastProcessingDate time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// GameRoster is one team's lineup and aggregate score within one game.
// Unique on (game, team).
type GameRoster struct {
	ID        string // nanoid
	GameID    int64
	Team      Team
	PlayerIDs []int64 // sorted ascending
	Score     int64
}

// MatchRoster is the union of a team's game rosters across a match.
type MatchRoster struct {
	ID        string // nanoid
	MatchID   int64
	Team      Team
	PlayerIDs []int64 // sorted ascending
	Score     int64
}

type PlayerMatchStats struct {
	ID               string // nanoid
	MatchID          int64
	PlayerID         int64
	GamesPlayed      int
	GamesWon         int
	GamesLost        int
	Won              bool
	AverageScore     float64
	AveragePlacement float64
	TeammateIDs      []int64 // sorted ascending
	OpponentIDs      []int64 // sorted ascending
}
