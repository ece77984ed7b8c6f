// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	service "github.com/okian/bounty/internal/app"
	"github.com/okian/bounty/internal/domain/model"
	"github.com/okian/bounty/pkg/logger"
	"github.com/okian/bounty/pkg/metrics"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	EventDependencies
	IssueDependencies
	LeaderboardDependencies
	WinnerDependencies
	EscrowDependencies
	StatsProvider
}

// Verifier resolves a bearer token to the caller identity.
type Verifier interface {
	Verify(raw string) (model.Identity, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	log      logger.Logger
	verifier Verifier

	healthHandler      *HealthHandler
	statsHandler       *StatsHandler
	eventsHandler      *EventsHandler
	issuesHandler      *IssuesHandler
	leaderboardHandler *LeaderboardHandler
	winnersHandler     *WinnersHandler
	escrowHandler      *EscrowHandler
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger used for server-side failures.
func WithLogger(l logger.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.log = l
		}
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, verifier Verifier, opts ...Option) *Server {
	s := &Server{verifier: verifier}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = logger.Named("api")
	}

	r := &responder{log: s.log}
	s.healthHandler = NewHealthHandler()
	s.statsHandler = NewStatsHandler(deps)
	s.eventsHandler = NewEventsHandler(deps, r)
	s.issuesHandler = NewIssuesHandler(deps, r)
	s.leaderboardHandler = NewLeaderboardHandler(deps, r)
	s.winnersHandler = NewWinnersHandler(deps, r)
	s.escrowHandler = NewEscrowHandler(deps, r)
	return s
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	auth := func(h http.HandlerFunc) http.HandlerFunc { return Authenticate(s.verifier, h) }
	route := func(pattern, endpoint string, h http.HandlerFunc) {
		mux.HandleFunc(pattern, RequestIDMiddleware(MetricsMiddleware(h, endpoint)))
	}

	route("GET /healthz", "healthz", s.healthHandler.HandleHealth)
	route("GET /stats", "stats", s.statsHandler.HandleStats)
	mux.Handle("GET /metrics", promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{}))

	route("POST /events", "create_event", auth(s.eventsHandler.HandleCreate))
	route("GET /events/{id}", "get_event", s.eventsHandler.HandleGet)

	route("POST /events/{id}/issues", "add_issues", auth(s.issuesHandler.HandleAdd))
	route("GET /events/{id}/issues", "get_issues", s.issuesHandler.HandleList)
	route("POST /events/{id}/issues/{issue_id}/resolve", "resolve_issue", auth(s.issuesHandler.HandleResolve))

	route("GET /events/{id}/leaderboard", "leaderboard", s.leaderboardHandler.HandleGet)

	route("POST /events/{id}/finish", "finish_event", auth(s.winnersHandler.HandleFinish))
	route("GET /events/{id}/winners", "get_winners", s.winnersHandler.HandleGet)

	route("POST /events/{id}/deposits", "deposit_rewards", auth(s.escrowHandler.HandleDeposit))
	route("POST /events/{id}/collectible", "deposit_collectible", auth(s.escrowHandler.HandleDepositCollectible))
	route("POST /events/{id}/claim", "claim", auth(s.escrowHandler.HandleClaim))
	route("POST /events/{id}/reclaim", "reclaim", auth(s.escrowHandler.HandleReclaim))
	route("GET /events/{id}/escrow", "escrow", s.escrowHandler.HandleGet)
	route("GET /balances/{holder...}", "balance", s.escrowHandler.HandleBalance)

	s.log.Debug(ctx, "routes registered")
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

// responder writes service results, logging failures that are not the
// caller's fault.
type responder struct {
	log logger.Logger
}

func (rs *responder) fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	status, code := statusFor(err)
	if status >= http.StatusInternalServerError {
		rs.log.Error(r.Context(), "request failed",
			logger.String("operation", op),
			logger.String("request_id", RequestIDFrom(r.Context())),
			logger.Error(err),
		)
	}
	writeError(w, status, code, Wrap(op, err))
}

func decodeJSON(r *http.Request, op string, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return WrapKind(op, ErrBadRequest, err)
	}
	return nil
}

func pathUint(r *http.Request, name, op string) (uint64, error) {
	v, err := strconv.ParseUint(r.PathValue(name), 10, 64)
	if err != nil {
		return 0, WrapKind(op, ErrBadRequest, err)
	}
	return v, nil
}

// Compile-time check that the service satisfies the handler contracts.
var _ Dependencies = (*service.Service)(nil)
