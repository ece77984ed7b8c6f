package api

import (
	"context"
	"net/http"

	service "github.com/okian/bounty/internal/app"
	"github.com/okian/bounty/internal/domain/model"
)

// IssueDependencies defines the interface for issue ledger operations.
type IssueDependencies interface {
	AddIssues(ctx context.Context, caller model.Identity, eventID uint64, issues []service.IssueInput) (*model.IssueBook, error)
	ResolveIssue(ctx context.Context, caller model.Identity, eventID, issueID uint64, contributor model.Identity) (model.Issue, error)
	GetIssueBook(ctx context.Context, eventID uint64) (*model.IssueBook, error)
}

// IssuesHandler handles issue book requests.
type IssuesHandler struct {
	deps IssueDependencies
	out  *responder
}

// NewIssuesHandler creates a new issues handler.
func NewIssuesHandler(deps IssueDependencies, out *responder) *IssuesHandler {
	return &IssuesHandler{deps: deps, out: out}
}

type issueRequest struct {
	IssueID uint64 `json:"issue_id"`
	Points  uint64 `json:"points"`
}

type addIssuesRequest struct {
	Issues []issueRequest `json:"issues"`
}

type resolveRequest struct {
	Contributor string `json:"contributor"`
}

// HandleAdd handles POST /events/{id}/issues.
func (h *IssuesHandler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	const op = "api.add_issues"
	id, err := pathUint(r, "id", op)
	if err != nil {
		h.out.fail(w, r, op, err)
		return
	}
	var req addIssuesRequest
	if err := decodeJSON(r, op, &req); err != nil {
		h.out.fail(w, r, op, err)
		return
	}

	batch := make([]service.IssueInput, 0, len(req.Issues))
	for _, is := range req.Issues {
		batch = append(batch, service.IssueInput{IssueID: is.IssueID, Points: is.Points})
	}
	book, err := h.deps.AddIssues(r.Context(), CallerFrom(r.Context()), id, batch)
	if err != nil {
		h.out.fail(w, r, op, err)
		return
	}
	writeJSON(w, http.StatusOK, book)
}

// HandleResolve handles POST /events/{id}/issues/{issue_id}/resolve.
func (h *IssuesHandler) HandleResolve(w http.ResponseWriter, r *http.Request) {
	const op = "api.resolve_issue"
	id, err := pathUint(r, "id", op)
	if err != nil {
		h.out.fail(w, r, op, err)
		return
	}
	issueID, err := pathUint(r, "issue_id", op)
	if err != nil {
		h.out.fail(w, r, op, err)
		return
	}
	var req resolveRequest
	if err := decodeJSON(r, op, &req); err != nil {
		h.out.fail(w, r, op, err)
		return
	}

	issue, err := h.deps.ResolveIssue(r.Context(), CallerFrom(r.Context()), id, issueID, model.Identity(req.Contributor))
	if err != nil {
		h.out.fail(w, r, op, err)
		return
	}
	writeJSON(w, http.StatusOK, issue)
}

// HandleList handles GET /events/{id}/issues.
func (h *IssuesHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_issues"
	id, err := pathUint(r, "id", op)
	if err != nil {
		h.out.fail(w, r, op, err)
		return
	}
	book, err := h.deps.GetIssueBook(r.Context(), id)
	if err != nil {
		h.out.fail(w, r, op, err)
		return
	}
	writeJSON(w, http.StatusOK, book)
}
