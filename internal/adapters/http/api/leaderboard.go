package api

import (
	"context"
	"net/http"
	"strconv"

	service "github.com/okian/bounty/internal/app"
)

// LeaderboardDependencies defines the interface for leaderboard operations.
type LeaderboardDependencies interface {
	Standings(ctx context.Context, eventID uint64) (*service.Standings, error)
}

// LeaderboardHandler handles leaderboard requests.
type LeaderboardHandler struct {
	deps LeaderboardDependencies
	out  *responder
}

// NewLeaderboardHandler creates a new leaderboard handler.
func NewLeaderboardHandler(deps LeaderboardDependencies, out *responder) *LeaderboardHandler {
	return &LeaderboardHandler{deps: deps, out: out}
}

// HandleGet handles GET /events/{id}/leaderboard?limit=N. Without a limit the
// whole board is returned.
func (h *LeaderboardHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_leaderboard"
	id, err := pathUint(r, "id", op)
	if err != nil {
		h.out.fail(w, r, op, err)
		return
	}

	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		limit, err = strconv.Atoi(v)
		if err != nil || limit < 1 {
			h.out.fail(w, r, op, NewKind(op, ErrBadRequest))
			return
		}
	}

	st, err := h.deps.Standings(r.Context(), id)
	if err != nil {
		h.out.fail(w, r, op, err)
		return
	}
	if limit > 0 && limit < len(st.Entries) {
		st.Entries = st.Entries[:limit]
	}
	writeJSON(w, http.StatusOK, st)
}
