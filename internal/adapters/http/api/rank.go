package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/okian/hbelo/internal/domain/types"
)

// PlayerDependencies defines the interface for single-player lookups.
type PlayerDependencies interface {
	Player(ctx context.Context, league, name string) (types.PlayerDetail, error)
}

// PlayerHandler handles rank requests.
type PlayerHandler struct {
	deps PlayerDependencies
}

// NewPlayerHandler creates a new player handler.
func NewPlayerHandler(deps PlayerDependencies) *PlayerHandler {
	return &PlayerHandler{deps: deps}
}

// HandleGetPlayer handles GET /leagues/{league}/players/{name}.
func (h *PlayerHandler) HandleGetPlayer(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(r.PathValue("name"))
	if name == "" {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	d, err := h.deps.Player(r.Context(), r.PathValue("league"), name)
	if err != nil {
		writeQueryError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}
