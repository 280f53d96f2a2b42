// Package worker drives the pipeline: it polls for tournaments waiting at
// a processing stage, claims each through the dedup guard, runs the
// in-memory pass and persists the result atomically.
package worker

import (
	"context"
	"time"

	"tournament-verifier/internal/config"
	"tournament-verifier/internal/constants"
	"tournament-verifier/internal/dedup"
	"tournament-verifier/internal/domain"
	"tournament-verifier/internal/processor"
	"tournament-verifier/internal/repository"

	"github.com/rs/zerolog"
)

const (
	resourceChecks = "tournament:checks"
	resourceStats  = "tournament:stats"
	platformOsu    = "osu"
)

// stageResource keys claims per pipeline stage. A completed automation-check
// claim must not block the same tournament's later stat-calculation claim
// for the processed TTL.
func stageResource(status domain.ProcessingStatus) string {
	if status == domain.ProcessingNeedsStatCalculation {
		return resourceStats
	}
	return resourceChecks
}

type Worker struct {
	repo   *repository.TournamentRepository
	dedup  *dedup.Service
	proc   *processor.Processor
	cfg    *config.Config
	logger zerolog.Logger
}

func New(
	repo *repository.TournamentRepository,
	dedupSvc *dedup.Service,
	proc *processor.Processor,
	cfg *config.Config,
	logger zerolog.Logger,
) *Worker {
	return &Worker{repo: repo, dedup: dedupSvc, proc: proc, cfg: cfg, logger: logger}
}

// Run polls until the context is cancelled. Each tick drains one batch of
// tournaments needing automation checks and one needing stat calculation.
func (w *Worker) Run(ctx context.Context) {
	interval := w.cfg.PollInterval
	if interval <= 0 {
		interval = constants.DefaultPollInterval
	}

	t := time.NewTicker(interval)
	defer t.Stop()

	w.logger.Info().Dur("poll_interval", interval).Msg("worker started")
	for {
		w.runBatch(ctx, domain.ProcessingNeedsAutomationChecks)
		w.runBatch(ctx, domain.ProcessingNeedsStatCalculation)

		select {
		case <-ctx.Done():
			w.logger.Info().Msg("worker stopped")
			return
		case <-t.C:
		}
	}
}

func (w *Worker) runBatch(ctx context.Context, status domain.ProcessingStatus) {
	ids, err := w.repo.GetTournamentsForProcessing(ctx, status, constants.ClaimBatchSize)
	if err != nil {
		w.logger.Error().Err(err).Stringer("stage", status).Msg("failed to list tournaments")
		return
	}

	for _, id := range ids {
		select {
		case <-ctx.Done():
			return
		default:
		}
		w.processOne(ctx, id, status)
	}
}

func (w *Worker) processOne(ctx context.Context, id int64, status domain.ProcessingStatus) {
	resource := stageResource(status)

	reserved, err := w.dedup.TryReserve(ctx, resource, id, platformOsu)
	if err != nil {
		w.logger.Error().Err(err).Int64("tournament_id", id).Msg("failed to reserve tournament")
		return
	}
	if !reserved {
		w.logger.Debug().Int64("tournament_id", id).Str("resource", resource).Msg("tournament already claimed, skipping")
		return
	}

	procCtx, cancel := context.WithTimeout(ctx, constants.ProcessingTimeout)
	defer cancel()

	if err := w.runPass(procCtx, id, status); err != nil {
		w.logger.Error().Err(err).Int64("tournament_id", id).Stringer("stage", status).Msg("tournament pass failed")
		if relErr := w.dedup.Release(ctx, resource, id, platformOsu); relErr != nil {
			w.logger.Warn().Err(relErr).Int64("tournament_id", id).Msg("failed to release reservation")
		}
		return
	}

	if err := w.dedup.MarkCompleted(ctx, resource, id, platformOsu); err != nil {
		w.logger.Warn().Err(err).Int64("tournament_id", id).Msg("failed to mark reservation completed")
	}
}

func (w *Worker) runPass(ctx context.Context, id int64, status domain.ProcessingStatus) error {
	tournament, err := w.repo.LoadTournament(ctx, id)
	if err != nil {
		return err
	}

	switch status {
	case domain.ProcessingNeedsAutomationChecks:
		w.proc.ProcessTournament(tournament)
		return w.repo.SaveVerification(ctx, tournament)
	case domain.ProcessingNeedsStatCalculation:
		w.proc.ProcessStats(tournament)
		return w.repo.SaveStats(ctx, tournament)
	}
	return nil
}
