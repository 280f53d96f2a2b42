package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"tournament-verifier/internal/domain"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// SaveStats persists the outcome of a stats aggregation pass. Roster and
// player-stat rows are replaced wholesale per match so stale entries for
// players who no longer appear are dropped.
func (r *TournamentRepository) SaveStats(ctx context.Context, tournament *domain.Tournament) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now()

	for _, match := range tournament.Matches {
		if match.VerificationStatus != domain.VerificationVerified {
			continue
		}
		// A successful aggregation pass always yields at least one roster.
		// An empty collection means this match's pass failed or never ran;
		// its previously stored rows must survive.
		if len(match.Rosters) == 0 {
			r.logger.Warn().
				Int64("match_id", match.ID).
				Msg("verified match has no aggregated rosters, keeping stored stats")
			continue
		}
		if err := r.saveMatchStats(ctx, tx, match, now); err != nil {
			return err
		}
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE tournaments
		SET processing_status = ?, last_processing_date = ?, updated_at = ?
		WHERE id = ?`,
		int(tournament.ProcessingStatus), tournament.LastProcessingDate, now, tournament.ID)
	if err != nil {
		return fmt.Errorf("failed to update tournament %d: %w", tournament.ID, err)
	}

	return tx.Commit()
}

func (r *TournamentRepository) saveMatchStats(ctx context.Context, tx *sql.Tx, match *domain.Match, now time.Time) error {
	for _, game := range match.Games {
		if game.VerificationStatus != domain.VerificationVerified {
			continue
		}
		if err := r.saveGameStats(ctx, tx, game, now); err != nil {
			return err
		}
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM match_rosters WHERE match_id = ?`, match.ID); err != nil {
		return fmt.Errorf("failed to clear match rosters for match %d: %w", match.ID, err)
	}
	for _, roster := range match.Rosters {
		id, err := rowID(roster.ID)
		if err != nil {
			return err
		}
		roster.ID = id

		playerIDs, err := json.Marshal(roster.PlayerIDs)
		if err != nil {
			return fmt.Errorf("failed to encode match roster players: %w", err)
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO match_rosters (id, match_id, team, player_ids, score)
			VALUES (?, ?, ?, ?, ?)`,
			roster.ID, roster.MatchID, int(roster.Team), string(playerIDs), roster.Score)
		if err != nil {
			return fmt.Errorf("failed to insert match roster for match %d: %w", match.ID, err)
		}
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM player_match_stats WHERE match_id = ?`, match.ID); err != nil {
		return fmt.Errorf("failed to clear player stats for match %d: %w", match.ID, err)
	}
	for _, stats := range match.PlayerStats {
		id, err := rowID(stats.ID)
		if err != nil {
			return err
		}
		stats.ID = id

		teammates, err := json.Marshal(stats.TeammateIDs)
		if err != nil {
			return fmt.Errorf("failed to encode teammate ids: %w", err)
		}
		opponents, err := json.Marshal(stats.OpponentIDs)
		if err != nil {
			return fmt.Errorf("failed to encode opponent ids: %w", err)
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO player_match_stats (id, match_id, player_id, games_played,
			    games_won, games_lost, won, average_score, average_placement,
			    teammate_ids, opponent_ids)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			stats.ID, stats.MatchID, stats.PlayerID, stats.GamesPlayed,
			stats.GamesWon, stats.GamesLost, stats.Won, stats.AverageScore,
			stats.AveragePlacement, string(teammates), string(opponents))
		if err != nil {
			return fmt.Errorf("failed to insert player stats for match %d: %w", match.ID, err)
		}
	}

	_, err := tx.ExecContext(ctx, `
		UPDATE matches SET last_processing_date = ?, updated_at = ? WHERE id = ?`,
		match.LastProcessingDate, now, match.ID)
	if err != nil {
		return fmt.Errorf("failed to stamp match %d: %w", match.ID, err)
	}
	return nil
}

func (r *TournamentRepository) saveGameStats(ctx context.Context, tx *sql.Tx, game *domain.Game, now time.Time) error {
	for _, score := range game.Scores {
		_, err := tx.ExecContext(ctx,
			`UPDATE game_scores SET placement = ?, updated_at = ? WHERE id = ?`,
			score.Placement, now, score.ID)
		if err != nil {
			return fmt.Errorf("failed to update placement for score %d: %w", score.ID, err)
		}
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM game_rosters WHERE game_id = ?`, game.ID); err != nil {
		return fmt.Errorf("failed to clear game rosters for game %d: %w", game.ID, err)
	}
	for _, roster := range game.Rosters {
		id, err := rowID(roster.ID)
		if err != nil {
			return err
		}
		roster.ID = id

		playerIDs, err := json.Marshal(roster.PlayerIDs)
		if err != nil {
			return fmt.Errorf("failed to encode game roster players: %w", err)
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO game_rosters (id, game_id, team, player_ids, score)
			VALUES (?, ?, ?, ?, ?)`,
			roster.ID, roster.GameID, int(roster.Team), string(playerIDs), roster.Score)
		if err != nil {
			return fmt.Errorf("failed to insert game roster for game %d: %w", game.ID, err)
		}
	}

	_, err := tx.ExecContext(ctx, `
		UPDATE games SET last_processing_date = ?, updated_at = ? WHERE id = ?`,
		game.LastProcessingDate, now, game.ID)
	if err != nil {
		return fmt.Errorf("failed to stamp game %d: %w", game.ID, err)
	}
	return nil
}

func rowID(existing string) (string, error) {
	if existing != "" {
		return existing, nil
	}
	id, err := gonanoid.New()
	if err != nil {
		return "", fmt.Errorf("failed to generate nanoid: %w", err)
	}
	return id, nil
}
