package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"tournament-verifier/internal/domain"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

type TournamentRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewTournamentRepository(db *sql.DB, logger zerolog.Logger) *TournamentRepository {
	return &TournamentRepository{db: db, logger: logger}
}

// GetTournamentsForProcessing returns ids of tournaments waiting at the
// given pipeline stage, oldest first.
func (r *TournamentRepository) GetTournamentsForProcessing(ctx context.Context, status domain.ProcessingStatus, limit int) ([]int64, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id FROM tournaments WHERE processing_status = ? ORDER BY id LIMIT ?`,
		int(status), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query tournaments for processing: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// LoadTournament loads one tournament's full subtree with all navigational
// collections populated. Matches, games and scores are fetched in parallel
// and assembled in memory.
func (r *TournamentRepository) LoadTournament(ctx context.Context, id int64) (*domain.Tournament, error) {
	tournament, err := r.getTournament(ctx, id)
	if err != nil {
		return nil, err
	}

	var (
		matches []*domain.Match
		games   []*domain.Game
		scores  []*domain.GameScore
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		matches, err = r.getMatches(gCtx, id)
		return err
	})
	g.Go(func() error {
		var err error
		games, err = r.getGames(gCtx, id)
		return err
	})
	g.Go(func() error {
		var err error
		scores, err = r.getScores(gCtx, id)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load tournament %d subtree: %w", id, err)
	}

	gamesByMatch := make(map[int64][]*domain.Game)
	for _, game := range games {
		gamesByMatch[game.MatchID] = append(gamesByMatch[game.MatchID], game)
	}
	scoresByGame := make(map[int64][]*domain.GameScore)
	for _, score := range scores {
		scoresByGame[score.GameID] = append(scoresByGame[score.GameID], score)
	}
	for _, game := range games {
		game.Scores = scoresByGame[game.ID]
	}
	for _, match := range matches {
		match.Games = gamesByMatch[match.ID]
	}
	tournament.Matches = matches

	r.logger.Debug().
		Int64("tournament_id", id).
		Int("matches", len(matches)).
		Int("games", len(games)).
		Int("scores", len(scores)).
		Msg("tournament subtree loaded")
	return tournament, nil
}

func (r *TournamentRepository) getTournament(ctx context.Context, id int64) (*domain.Tournament, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, name, abbreviation, ruleset, lobby_size, pooled_beatmap_ids,
		       rejection_reason, verification_status, processing_status,
		       last_processing_date, created_at, updated_at
		FROM tournaments WHERE id = ?`, id)

	var (
		t          domain.Tournament
		pooledJSON string
		lastProc   sql.NullTime
	)
	err := row.Scan(&t.ID, &t.Name, &t.Abbreviation, &t.Ruleset, &t.LobbySize,
		&pooledJSON, &t.RejectionReason, &t.VerificationStatus,
		&t.ProcessingStatus, &lastProc, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to load tournament %d: %w", id, err)
	}
	if pooledJSON != "" {
		if err := json.Unmarshal([]byte(pooledJSON), &t.PooledBeatmapIDs); err != nil {
			return nil, fmt.Errorf("failed to decode pooled beatmaps for tournament %d: %w", id, err)
		}
	}
	t.LastProcessingDate = lastProc.Time
	return &t, nil
}

func (r *TournamentRepository) getMatches(ctx context.Context, tournamentID int64) ([]*domain.Match, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, tournament_id, name, start_time, end_time,
		       rejection_reason, warning_flags, verification_status,
		       last_processing_date, created_at, updated_at
		FROM matches WHERE tournament_id = ? ORDER BY start_time, id`, tournamentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var matches []*domain.Match
	for rows.Next() {
		var (
			m        domain.Match
			endTime  sql.NullTime
			lastProc sql.NullTime
		)
		err := rows.Scan(&m.ID, &m.TournamentID, &m.Name, &m.StartTime, &endTime,
			&m.RejectionReason, &m.WarningFlags, &m.VerificationStatus,
			&lastProc, &m.CreatedAt, &m.UpdatedAt)
		if err != nil {
			return nil, err
		}
		m.EndTime = endTime.Time
		m.LastProcessingDate = lastProc.Time
		matches = append(matches, &m)
	}
	return matches, rows.Err()
}

func (r *TournamentRepository) getGames(ctx context.Context, tournamentID int64) ([]*domain.Game, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT g.id, g.match_id, g.beatmap_id, g.ruleset, g.scoring_type,
		       g.team_type, g.mods, g.start_time, g.end_time,
		       g.rejection_reason, g.warning_flags, g.verification_status,
		       g.last_processing_date, g.created_at, g.updated_at
		FROM games g
		JOIN matches m ON g.match_id = m.id
		WHERE m.tournament_id = ? ORDER BY g.start_time, g.id`, tournamentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var games []*domain.Game
	for rows.Next() {
		var (
			g        domain.Game
			endTime  sql.NullTime
			lastProc sql.NullTime
		)
		err := rows.Scan(&g.ID, &g.MatchID, &g.BeatmapID, &g.Ruleset,
			&g.ScoringType, &g.TeamType, &g.Mods, &g.StartTime, &endTime,
			&g.RejectionReason, &g.WarningFlags, &g.VerificationStatus,
			&lastProc, &g.CreatedAt, &g.UpdatedAt)
		if err != nil {
			return nil, err
		}
		g.EndTime = endTime.Time
		g.LastProcessingDate = lastProc.Time
		games = append(games, &g)
	}
	return games, rows.Err()
}

func (r *TournamentRepository) getScores(ctx context.Context, tournamentID int64) ([]*domain.GameScore, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT s.id, s.game_id, s.player_id, s.score, s.placement, s.ruleset,
		       s.mods, s.team, s.rejection_reason, s.verification_status,
		       s.last_processing_date, s.created_at, s.updated_at
		FROM game_scores s
		JOIN games g ON s.game_id = g.id
		JOIN matches m ON g.match_id = m.id
		WHERE m.tournament_id = ? ORDER BY s.id`, tournamentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var scores []*domain.GameScore
	for rows.Next() {
		var (
			s        domain.GameScore
			lastProc sql.NullTime
		)
		err := rows.Scan(&s.ID, &s.GameID, &s.PlayerID, &s.Score, &s.Placement,
			&s.Ruleset, &s.Mods, &s.Team, &s.RejectionReason,
			&s.VerificationStatus, &lastProc, &s.CreatedAt, &s.UpdatedAt)
		if err != nil {
			return nil, err
		}
		s.LastProcessingDate = lastProc.Time
		scores = append(scores, &s)
	}
	return scores, rows.Err()
}

// SaveVerification persists the outcome of an automation-check pass for the
// whole subtree in one transaction: masks, warning flags, verification and
// processing statuses, converted team fields, and processing timestamps.
func (r *TournamentRepository) SaveVerification(ctx context.Context, tournament *domain.Tournament) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now()

	_, err = tx.ExecContext(ctx, `
		UPDATE tournaments
		SET rejection_reason = ?, verification_status = ?, processing_status = ?,
		    last_processing_date = ?, updated_at = ?
		WHERE id = ?`,
		int(tournament.RejectionReason), int(tournament.VerificationStatus),
		int(tournament.ProcessingStatus), tournament.LastProcessingDate, now, tournament.ID)
	if err != nil {
		return fmt.Errorf("failed to update tournament %d: %w", tournament.ID, err)
	}

	for _, match := range tournament.Matches {
		_, err = tx.ExecContext(ctx, `
			UPDATE matches
			SET rejection_reason = ?, warning_flags = ?, verification_status = ?,
			    last_processing_date = ?, updated_at = ?
			WHERE id = ?`,
			uint32(match.RejectionReason), uint32(match.WarningFlags),
			int(match.VerificationStatus), match.LastProcessingDate, now, match.ID)
		if err != nil {
			return fmt.Errorf("failed to update match %d: %w", match.ID, err)
		}

		for _, game := range match.Games {
			_, err = tx.ExecContext(ctx, `
				UPDATE games
				SET team_type = ?, rejection_reason = ?, warning_flags = ?,
				    verification_status = ?, last_processing_date = ?, updated_at = ?
				WHERE id = ?`,
				int(game.TeamType), uint32(game.RejectionReason),
				uint32(game.WarningFlags), int(game.VerificationStatus),
				game.LastProcessingDate, now, game.ID)
			if err != nil {
				return fmt.Errorf("failed to update game %d: %w", game.ID, err)
			}

			for _, score := range game.Scores {
				_, err = tx.ExecContext(ctx, `
					UPDATE game_scores
					SET team = ?, rejection_reason = ?, verification_status = ?,
					    last_processing_date = ?, updated_at = ?
					WHERE id = ?`,
					int(score.Team), uint32(score.RejectionReason),
					int(score.VerificationStatus), score.LastProcessingDate, now, score.ID)
				if err != nil {
					return fmt.Errorf("failed to update score %d: %w", score.ID, err)
				}
			}
		}
	}

	return tx.Commit()
}

// CountByProcessingStatus reports how many tournaments sit at each pipeline
// stage.
func (r *TournamentRepository) CountByProcessingStatus(ctx context.Context) (map[domain.ProcessingStatus]int, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT processing_status, COUNT(*) FROM tournaments GROUP BY processing_status`)
	if err != nil {
		return nil, fmt.Errorf("failed to count tournaments: %w", err)
	}
	defer rows.Close()

	counts := make(map[domain.ProcessingStatus]int)
	for rows.Next() {
		var (
			status int
			count  int
		)
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		counts[domain.ProcessingStatus(status)] = count
	}
	return counts, rows.Err()
}
