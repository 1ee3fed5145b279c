// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/okian/hbelo/internal/adapters/repository"
	service "github.com/okian/hbelo/internal/app"
	"github.com/okian/hbelo/internal/domain/engine"
	"github.com/okian/hbelo/internal/domain/types"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	Leagues() []string
	Players(ctx context.Context, league string, n int, filters ...repository.Filter) ([]types.Entry, error)
	Player(ctx context.Context, league, name string) (types.PlayerDetail, error)
	Season(ctx context.Context, league, season string) (*engine.SeasonResult, error)
}

// Server wires HTTP routes for the read API.
type Server struct {
	healthHandler  *HealthHandler
	statsHandler   *StatsHandler
	playersHandler *PlayersHandler
	playerHandler  *PlayerHandler
	seasonHandler  *SeasonHandler
}

// NewServer creates a new API server with all handlers. maxLimit caps the
// players limit parameter.
func NewServer(deps Dependencies, statsProvider StatsProvider, maxLimit int) *Server {
	return &Server{
		healthHandler:  NewHealthHandler(),
		statsHandler:   NewStatsHandler(statsProvider),
		playersHandler: NewPlayersHandler(deps, maxLimit),
		playerHandler:  NewPlayerHandler(deps),
		seasonHandler:  NewSeasonHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}
	mux.HandleFunc("GET /healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("GET /metrics", MetricsMiddleware(s.healthHandler.HandleHealth, "metrics"))
	mux.HandleFunc("GET /stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("GET /leagues", MetricsMiddleware(s.seasonHandler.HandleLeagues, "leagues"))
	mux.HandleFunc("GET /leagues/{league}/players", MetricsMiddleware(s.playersHandler.HandleGetPlayers, "players"))
	mux.HandleFunc("GET /leagues/{league}/players/{name}", MetricsMiddleware(s.playerHandler.HandleGetPlayer, "player"))
	mux.HandleFunc("GET /leagues/{league}/teams", MetricsMiddleware(s.seasonHandler.HandleTeams, "teams"))
	mux.HandleFunc("GET /leagues/{league}/deltas", MetricsMiddleware(s.seasonHandler.HandleDeltas, "deltas"))
	mux.HandleFunc("GET /leagues/{league}/skips", MetricsMiddleware(s.seasonHandler.HandleSkips, "skips"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeQueryError maps service and leaderboard errors onto HTTP statuses.
func writeQueryError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrUnknownLeague),
		errors.Is(err, service.ErrUnknownSeason),
		errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", err)
	case errors.Is(err, repository.ErrInvalidLimit):
		writeError(w, http.StatusBadRequest, "bad_request", err)
	case errors.Is(err, service.ErrNotRated), errors.Is(err, service.ErrNotStarted):
		writeError(w, http.StatusServiceUnavailable, "not_ready", err)
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err)
	}
}
