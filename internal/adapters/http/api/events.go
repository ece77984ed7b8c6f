package api

import (
	"context"
	"net/http"
	"time"

	service "github.com/okian/bounty/internal/app"
	"github.com/okian/bounty/internal/domain/model"
)

// EventDependencies defines the interface for event registry operations.
type EventDependencies interface {
	CreateEvent(ctx context.Context, caller model.Identity, in service.CreateEventInput) (*model.Event, error)
	GetEvent(ctx context.Context, eventID uint64) (*model.Event, error)
}

// EventsHandler handles event requests.
type EventsHandler struct {
	deps EventDependencies
	out  *responder
}

// NewEventsHandler creates a new events handler.
func NewEventsHandler(deps EventDependencies, out *responder) *EventsHandler {
	return &EventsHandler{deps: deps, out: out}
}

type createEventRequest struct {
	EventID        uint64      `json:"event_id"`
	Name           string      `json:"name"`
	Maintainer     string      `json:"maintainer"`
	StartDate      time.Time   `json:"start_date"`
	EndDate        time.Time   `json:"end_date"`
	RewardSplit    model.Split `json:"reward_split_percentage"`
	CollectibleID  string      `json:"collectible_id,omitempty"`
	InitialDeposit uint64      `json:"initial_deposit,omitempty"`
}

// HandleCreate handles POST /events.
func (h *EventsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	const op = "api.create_event"
	var req createEventRequest
	if err := decodeJSON(r, op, &req); err != nil {
		h.out.fail(w, r, op, err)
		return
	}

	ev, err := h.deps.CreateEvent(r.Context(), CallerFrom(r.Context()), service.CreateEventInput{
		EventID:        req.EventID,
		Name:           req.Name,
		Maintainer:     model.Identity(req.Maintainer),
		StartDate:      req.StartDate,
		EndDate:        req.EndDate,
		RewardSplit:    req.RewardSplit,
		CollectibleID:  req.CollectibleID,
		InitialDeposit: req.InitialDeposit,
	})
	if err != nil {
		h.out.fail(w, r, op, err)
		return
	}
	writeJSON(w, http.StatusCreated, ev)
}

// HandleGet handles GET /events/{id}.
func (h *EventsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_event"
	id, err := pathUint(r, "id", op)
	if err != nil {
		h.out.fail(w, r, op, err)
		return
	}
	ev, err := h.deps.GetEvent(r.Context(), id)
	if err != nil {
		h.out.fail(w, r, op, err)
		return
	}
	writeJSON(w, http.StatusOK, ev)
}
