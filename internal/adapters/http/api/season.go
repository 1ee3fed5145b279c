package api

import (
	"context"
	"net/http"

	"github.com/okian/hbelo/internal/domain/engine"
)

// SeasonDependencies defines the interface for season table lookups.
type SeasonDependencies interface {
	Leagues() []string
	Season(ctx context.Context, league, season string) (*engine.SeasonResult, error)
}

// SeasonHandler serves the tables of a rated season. The season query
// parameter selects a season; without it the latest one is used.
type SeasonHandler struct {
	deps SeasonDependencies
}

// NewSeasonHandler creates a new season handler.
func NewSeasonHandler(deps SeasonDependencies) *SeasonHandler {
	return &SeasonHandler{deps: deps}
}

type leaguesResponse struct {
	Leagues []string `json:"leagues"`
}

type teamsResponse struct {
	League string           `json:"league"`
	Season string           `json:"season"`
	Teams  []engine.TeamRow `json:"teams"`
}

type deltasResponse struct {
	League string              `json:"league"`
	Season string              `json:"season"`
	Deltas []engine.MatchDelta `json:"deltas"`
}

type skipsResponse struct {
	League    string        `json:"league"`
	Season    string        `json:"season"`
	Processed int           `json:"matches_processed"`
	Skips     []skipPayload `json:"skips"`
}

type skipPayload struct {
	MatchID string `json:"match_id"`
	Reason  string `json:"reason"`
	Detail  string `json:"detail"`
}

// HandleLeagues handles GET /leagues.
func (h *SeasonHandler) HandleLeagues(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, leaguesResponse{Leagues: h.deps.Leagues()})
}

// HandleTeams handles GET /leagues/{league}/teams.
func (h *SeasonHandler) HandleTeams(w http.ResponseWriter, r *http.Request) {
	res, ok := h.season(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, teamsResponse{League: res.League, Season: res.Season, Teams: nonNil(res.Teams)})
}

// HandleDeltas handles GET /leagues/{league}/deltas.
func (h *SeasonHandler) HandleDeltas(w http.ResponseWriter, r *http.Request) {
	res, ok := h.season(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, deltasResponse{League: res.League, Season: res.Season, Deltas: nonNil(res.Deltas)})
}

// HandleSkips handles GET /leagues/{league}/skips.
func (h *SeasonHandler) HandleSkips(w http.ResponseWriter, r *http.Request) {
	res, ok := h.season(w, r)
	if !ok {
		return
	}
	out := skipsResponse{League: res.League, Season: res.Season, Processed: res.Processed, Skips: []skipPayload{}}
	for _, sk := range res.Skips {
		out.Skips = append(out.Skips, skipPayload{MatchID: sk.MatchID, Reason: sk.Reason, Detail: sk.Error()})
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *SeasonHandler) season(w http.ResponseWriter, r *http.Request) (*engine.SeasonResult, bool) {
	res, err := h.deps.Season(r.Context(), r.PathValue("league"), r.URL.Query().Get("season"))
	if err != nil {
		writeQueryError(w, err)
		return nil, false
	}
	return res, true
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
