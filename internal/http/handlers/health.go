package handlers

import (
	"context"
	"net/http"
	"time"
)

const storePingTimeout = 2 * time.Second

// Pinger is implemented by stores that can check their own reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

type healthStatus struct {
	Status         string `json:"status"`
	Store          string `json:"store,omitempty"`
	EditorSessions int    `json:"editor_sessions"`
}

// Health reports liveness, the number of open editor sessions and, when the
// store supports it, whether the store answers. An unreachable store gives 503.
func (a *App) Health(w http.ResponseWriter, r *http.Request) {
	status := healthStatus{Status: "ok"}
	if a.Sessions != nil {
		status.EditorSessions = a.Sessions.Len()
	}

	if p, ok := a.Store.(Pinger); ok {
		ctx, cancel := context.WithTimeout(r.Context(), storePingTimeout)
		defer cancel()
		if err := p.Ping(ctx); err != nil {
			a.log(r).Warn().Err(err).Msg("partner store unreachable")
			status.Status = "degraded"
			status.Store = "unavailable"
			a.json(w, http.StatusServiceUnavailable, status)
			return
		}
		status.Store = "ok"
	}
	a.json(w, http.StatusOK, status)
}
