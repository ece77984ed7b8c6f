package api

import (
	"context"
	"net/http"

	service "github.com/okian/bounty/internal/app"
	"github.com/okian/bounty/internal/domain/model"
)

// EscrowDependencies defines the interface for escrow and distribution.
type EscrowDependencies interface {
	DepositRewards(ctx context.Context, caller model.Identity, eventID, amount uint64) (uint64, error)
	DepositCollectible(ctx context.Context, caller model.Identity, eventID uint64, collectibleID string) (*model.Event, error)
	Claim(ctx context.Context, caller model.Identity, eventID uint64) (*service.ClaimReceipt, error)
	ReclaimRemainder(ctx context.Context, caller model.Identity, eventID uint64) (uint64, error)
	Escrow(ctx context.Context, eventID uint64) (*service.EscrowState, error)
	Balance(ctx context.Context, holder model.Holder) (uint64, error)
}

// EscrowHandler handles escrow requests.
type EscrowHandler struct {
	deps EscrowDependencies
	out  *responder
}

// NewEscrowHandler creates a new escrow handler.
func NewEscrowHandler(deps EscrowDependencies, out *responder) *EscrowHandler {
	return &EscrowHandler{deps: deps, out: out}
}

type depositRequest struct {
	Amount uint64 `json:"amount"`
}

type collectibleRequest struct {
	CollectibleID string `json:"collectible_id"`
}

type amountResponse struct {
	EventID uint64 `json:"event_id,omitempty"`
	Holder  string `json:"holder,omitempty"`
	Amount  uint64 `json:"amount"`
}

// HandleDeposit handles POST /events/{id}/deposits.
func (h *EscrowHandler) HandleDeposit(w http.ResponseWriter, r *http.Request) {
	const op = "api.deposit_rewards"
	id, err := pathUint(r, "id", op)
	if err != nil {
		h.out.fail(w, r, op, err)
		return
	}
	var req depositRequest
	if err := decodeJSON(r, op, &req); err != nil {
		h.out.fail(w, r, op, err)
		return
	}
	balance, err := h.deps.DepositRewards(r.Context(), CallerFrom(r.Context()), id, req.Amount)
	if err != nil {
		h.out.fail(w, r, op, err)
		return
	}
	writeJSON(w, http.StatusOK, amountResponse{EventID: id, Amount: balance})
}

// HandleDepositCollectible handles POST /events/{id}/collectible.
func (h *EscrowHandler) HandleDepositCollectible(w http.ResponseWriter, r *http.Request) {
	const op = "api.deposit_collectible"
	id, err := pathUint(r, "id", op)
	if err != nil {
		h.out.fail(w, r, op, err)
		return
	}
	var req collectibleRequest
	if err := decodeJSON(r, op, &req); err != nil {
		h.out.fail(w, r, op, err)
		return
	}
	ev, err := h.deps.DepositCollectible(r.Context(), CallerFrom(r.Context()), id, req.CollectibleID)
	if err != nil {
		h.out.fail(w, r, op, err)
		return
	}
	writeJSON(w, http.StatusOK, ev)
}

// HandleClaim handles POST /events/{id}/claim.
func (h *EscrowHandler) HandleClaim(w http.ResponseWriter, r *http.Request) {
	const op = "api.claim"
	id, err := pathUint(r, "id", op)
	if err != nil {
		h.out.fail(w, r, op, err)
		return
	}
	receipt, err := h.deps.Claim(r.Context(), CallerFrom(r.Context()), id)
	if err != nil {
		h.out.fail(w, r, op, err)
		return
	}
	writeJSON(w, http.StatusOK, receipt)
}

// HandleReclaim handles POST /events/{id}/reclaim.
func (h *EscrowHandler) HandleReclaim(w http.ResponseWriter, r *http.Request) {
	const op = "api.reclaim"
	id, err := pathUint(r, "id", op)
	if err != nil {
		h.out.fail(w, r, op, err)
		return
	}
	amount, err := h.deps.ReclaimRemainder(r.Context(), CallerFrom(r.Context()), id)
	if err != nil {
		h.out.fail(w, r, op, err)
		return
	}
	writeJSON(w, http.StatusOK, amountResponse{EventID: id, Amount: amount})
}

// HandleGet handles GET /events/{id}/escrow.
func (h *EscrowHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	const op = "api.escrow"
	id, err := pathUint(r, "id", op)
	if err != nil {
		h.out.fail(w, r, op, err)
		return
	}
	st, err := h.deps.Escrow(r.Context(), id)
	if err != nil {
		h.out.fail(w, r, op, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// HandleBalance handles GET /balances/{holder}.
func (h *EscrowHandler) HandleBalance(w http.ResponseWriter, r *http.Request) {
	const op = "api.balance"
	holder := r.PathValue("holder")
	amount, err := h.deps.Balance(r.Context(), model.Holder(holder))
	if err != nil {
		h.out.fail(w, r, op, err)
		return
	}
	writeJSON(w, http.StatusOK, amountResponse{Holder: holder, Amount: amount})
}
