package api

import (
	"context"
	"net/http"
)

// StatsProvider reports the state of the reward service: whether it is
// started, which store backs it and how many events it tracks.
type StatsProvider interface {
	GetStats(ctx context.Context) map[string]any
}

// StatsHandler serves the reward service stats.
type StatsHandler struct {
	provider StatsProvider
}

// NewStatsHandler creates a stats handler over provider.
func NewStatsHandler(provider StatsProvider) *StatsHandler {
	return &StatsHandler{provider: provider}
}

// HandleStats handles GET /stats. A stopped service answers 503 with the same
// body, since its store is closed and every event route would fail.
func (h *StatsHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	stats := h.provider.GetStats(r.Context())
	status := http.StatusOK
	if started, _ := stats["started"].(bool); !started {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, stats)
}
