package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"

	"tournament-verifier/internal/config"
	"tournament-verifier/internal/constants"
	"tournament-verifier/internal/dedup"
	fxmodules "tournament-verifier/internal/fx"
	"tournament-verifier/internal/middleware"
	"tournament-verifier/internal/server"
	"tournament-verifier/internal/worker"

	"github.com/rs/cors"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

func main() {
	fx.New(
		fxmodules.Module,
		fx.Invoke(runWorker),
		fx.Invoke(runServer),
	).Run()
}

func runWorker(lc fx.Lifecycle, w *worker.Worker, logger zerolog.Logger) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				defer close(done)
				w.Run(ctx)
			}()
			return nil
		},
		OnStop: func(stopCtx context.Context) error {
			cancel()
			select {
			case <-done:
				return nil
			case <-stopCtx.Done():
				logger.Warn().Msg("worker did not stop before shutdown deadline")
				return stopCtx.Err()
			}
		},
	})
}

func runServer(
	lc fx.Lifecycle,
	statusServer *server.StatusServer,
	cfg *config.Config,
	db *sql.DB,
	dedupSvc *dedup.Service,
	logger zerolog.Logger,
) {
	mux := http.NewServeMux()
	statusServer.Routes(mux)

	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	})

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.ServerPort),
		Handler: middleware.RequestID(logger)(c.Handler(mux)),
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				logger.Info().Str("addr", srv.Addr).Msg("server starting")
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					logger.Fatal().Err(err).Msg("server failed")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info().Msg("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
			defer cancel()

			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Error().Err(err).Msg("server shutdown failed")
				return err
			}

			if err := dedupSvc.Close(); err != nil {
				logger.Warn().Err(err).Msg("error closing redis connection")
			}
			if err := db.Close(); err != nil {
				logger.Warn().Err(err).Msg("error closing database connection")
			}

			logger.Info().Msg("server stopped gracefully")
			return nil
		},
	})
}
