package api

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/okian/hbelo/internal/adapters/repository"
	m "github.com/okian/hbelo/internal/domain/model"
	"github.com/okian/hbelo/internal/domain/types"
)

const defaultPlayersLimit = 50

// PlayersDependencies defines the interface for leaderboard operations.
type PlayersDependencies interface {
	Players(ctx context.Context, league string, n int, filters ...repository.Filter) ([]types.Entry, error)
}

// PlayersHandler handles leaderboard requests.
type PlayersHandler struct {
	deps     PlayersDependencies
	maxLimit int
}

// NewPlayersHandler creates a new leaderboard handler.
func NewPlayersHandler(deps PlayersDependencies, maxLimit int) *PlayersHandler {
	return &PlayersHandler{
		deps:     deps,
		maxLimit: maxLimit,
	}
}

// HandleGetPlayers handles GET /leagues/{league}/players?limit=N&role=R&team=T.
func (h *PlayersHandler) HandleGetPlayers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	n := min(defaultPlayersLimit, h.maxLimit)
	if v := q.Get("limit"); v != "" {
		var err error
		n, err = strconv.Atoi(v)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("limit %q: %w", v, ErrBadRequest))
			return
		}
	}
	if n > h.maxLimit {
		writeError(w, http.StatusBadRequest, "limit_exceeded", fmt.Errorf("%d > %d: %w", n, h.maxLimit, ErrLimitExceeded))
		return
	}

	var filters []repository.Filter
	if v := strings.TrimSpace(q.Get("role")); v != "" {
		role := m.Role(strings.ToUpper(v))
		if !role.IsPure() {
			writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("role %q: %w", v, ErrBadRequest))
			return
		}
		filters = append(filters, repository.ByRole(role))
	}
	if v := strings.TrimSpace(q.Get("team")); v != "" {
		filters = append(filters, repository.ByTeam(m.TeamID(v)))
	}

	entries, err := h.deps.Players(r.Context(), r.PathValue("league"), n, filters...)
	if err != nil {
		writeQueryError(w, err)
		return
	}
	if entries == nil {
		entries = []types.Entry{}
	}
	writeJSON(w, http.StatusOK, entries)
}
