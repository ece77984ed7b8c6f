package api

import (
	"context"
	"net/http"

	"github.com/okian/bounty/internal/domain/model"
)

// WinnerDependencies defines the interface for winner snapshot operations.
type WinnerDependencies interface {
	FinishEvent(ctx context.Context, caller model.Identity, eventID uint64) (*model.WinnerSnapshot, error)
	GetWinners(ctx context.Context, eventID uint64) (*model.WinnerSnapshot, error)
}

// WinnersHandler handles winner snapshot requests.
type WinnersHandler struct {
	deps WinnerDependencies
	out  *responder
}

// NewWinnersHandler creates a new winners handler.
func NewWinnersHandler(deps WinnerDependencies, out *responder) *WinnersHandler {
	return &WinnersHandler{deps: deps, out: out}
}

// HandleFinish handles POST /events/{id}/finish.
func (h *WinnersHandler) HandleFinish(w http.ResponseWriter, r *http.Request) {
	const op = "api.finish_event"
	id, err := pathUint(r, "id", op)
	if err != nil {
		h.out.fail(w, r, op, err)
		return
	}
	snap, err := h.deps.FinishEvent(r.Context(), CallerFrom(r.Context()), id)
	if err != nil {
		h.out.fail(w, r, op, err)
		return
	}
	writeJSON(w, http.StatusCreated, snap)
}

// HandleGet handles GET /events/{id}/winners.
func (h *WinnersHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_winners"
	id, err := pathUint(r, "id", op)
	if err != nil {
		h.out.fail(w, r, op, err)
		return
	}
	snap, err := h.deps.GetWinners(r.Context(), id)
	if err != nil {
		h.out.fail(w, r, op, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}
