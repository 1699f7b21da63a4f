package http

import (
	"context"
	"net/http"

	"github.com/aussiebroadwan/scaconnect/pkg/httpx"
	"github.com/aussiebroadwan/scaconnect/pkg/slogx"
)

// HealthResponse is the body of /livez and /readyz.
type HealthResponse struct {
	Status string            `json:"status" example:"ok"`
	Checks map[string]string `json:"checks,omitempty"`
}

// Check is one readiness dependency, e.g. the ledgers backend or redis.
type Check struct {
	Name string
	Fn   func(ctx context.Context) error
}

// LivezHandler answers as long as the process serves requests.
//
//	@Summary	Liveness check
//	@Tags		System
//	@Produce	json
//	@Success	200	{object}	HealthResponse
//	@Router		/livez [get]
func LivezHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
	}
}

// ReadyzHandler runs every check and reports degraded if one fails.
//
//	@Summary	Readiness check
//	@Tags		System
//	@Produce	json
//	@Success	200	{object}	HealthResponse
//	@Failure	503	{object}	HealthResponse
//	@Router		/readyz [get]
func ReadyzHandler(checks ...Check) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res := HealthResponse{Status: "ok", Checks: make(map[string]string, len(checks))}
		code := http.StatusOK

		for _, c := range checks {
			if err := c.Fn(r.Context()); err != nil {
				slogx.FromContext(r.Context()).Warn("dependency not ready", "check", c.Name, "err", err)
				res.Checks[c.Name] = "down"
				res.Status = "degraded"
				code = http.StatusServiceUnavailable
				continue
			}
			res.Checks[c.Name] = "ok"
		}
		httpx.WriteJSON(w, code, res)
	}
}
