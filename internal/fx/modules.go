package fx

import (
	"tournament-verifier/internal/checks"
	"tournament-verifier/internal/config"
	"tournament-verifier/internal/database"
	"tournament-verifier/internal/dedup"
	"tournament-verifier/internal/logger"
	"tournament-verifier/internal/processor"
	"tournament-verifier/internal/repository"
	"tournament-verifier/internal/server"
	"tournament-verifier/internal/stats"
	"tournament-verifier/internal/worker"

	"go.uber.org/fx"
)

var Module = fx.Options(
	fx.Provide(logger.New),
	fx.Provide(config.Load),
	fx.Provide(database.New),
	fx.Provide(dedup.New),
	// repos
	fx.Provide(repository.NewTournamentRepository),
	// checks
	fx.Provide(checks.NewScoreCheck),
	fx.Provide(checks.NewMatchCheck),
	fx.Provide(checks.NewTournamentCheck),
	// stats
	fx.Provide(stats.NewGameStatsAggregator),
	fx.Provide(stats.NewMatchStatsAggregator),
	// pipeline
	fx.Provide(processor.New),
	fx.Provide(worker.New),
	// server
	fx.Provide(server.NewStatusServer),
)
