package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"tournament-verifier/internal/constants"
	"tournament-verifier/internal/dedup"
	"tournament-verifier/internal/domain"
	"tournament-verifier/internal/repository"

	"github.com/rs/zerolog"
)

// StatusServer exposes a small read-only surface for operators: liveness,
// pipeline queue depths and dedup key inspection.
type StatusServer struct {
	repo   *repository.TournamentRepository
	dedup  *dedup.Service
	logger zerolog.Logger
}

func NewStatusServer(repo *repository.TournamentRepository, dedupSvc *dedup.Service, logger zerolog.Logger) *StatusServer {
	return &StatusServer{repo: repo, dedup: dedupSvc, logger: logger}
}

func (s *StatusServer) Routes(mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /v1/status", s.handleStatus)
	mux.HandleFunc("GET /v1/tournaments/{id}/claim", s.handleClaimStatus)
}

func (s *StatusServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type statusResponse struct {
	Queues      map[string]int `json:"queues"`
	GeneratedAt time.Time      `json:"generated_at"`
}

func (s *StatusServer) handleStatus(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), constants.DatabaseTimeout)
	defer cancel()

	counts, err := s.repo.CountByProcessingStatus(ctx)
	if err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("failed to count tournaments")
		s.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to query pipeline state"})
		return
	}

	queues := make(map[string]int, len(counts))
	for status := domain.ProcessingNeedsAutomationChecks; status <= domain.ProcessingDone; status++ {
		queues[status.String()] = counts[status]
	}

	s.writeJSON(w, http.StatusOK, statusResponse{Queues: queues, GeneratedAt: time.Now().UTC()})
}

// handleClaimStatus reports whether a tournament is currently claimed by a
// worker or was processed recently, per pipeline stage. Claims are keyed per
// stage so a completed check pass never blocks the stat pass.
func (s *StatusServer) handleClaimStatus(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid tournament id"})
		return
	}

	claims := make(map[string]string, 2)
	for _, resource := range []string{"tournament:checks", "tournament:stats"} {
		status, err := s.dedup.GetStatus(r.Context(), resource, id, "osu")
		if err != nil {
			zerolog.Ctx(r.Context()).Error().Err(err).Int64("tournament_id", id).Msg("failed to query claim status")
			s.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to query claim status"})
			return
		}
		claims[resource] = status.String()
	}

	s.writeJSON(w, http.StatusOK, map[string]any{"claims": claims})
}

func (s *StatusServer) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Warn().Err(err).Msg("failed to write response")
	}
}
