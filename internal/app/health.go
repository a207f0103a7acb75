package app

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/shandysiswandi/quickcart/internal/pkg/router"
)

const (
	healthUp   = "up"
	healthDown = "down"
)

type pinger func(ctx context.Context) error

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

func (h healthResponse) StatusCode() int {
	if h.Status == healthUp {
		return http.StatusOK
	}
	return http.StatusServiceUnavailable
}

func (h healthResponse) Message() string {
	if h.Status == healthUp {
		return "Service is healthy"
	}
	return "Service is unhealthy"
}

func checkHealth(ctx context.Context, checks map[string]pinger) healthResponse {
	resp := healthResponse{Status: healthUp, Checks: make(map[string]string, len(checks))}
	for name, ping := range checks {
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		err := ping(pingCtx)
		cancel()

		if err != nil {
			slog.WarnContext(ctx, "health check failed", "check", name, "error", err)
			resp.Status = healthDown
			resp.Checks[name] = healthDown
			continue
		}
		resp.Checks[name] = healthUp
	}
	return resp
}

// health godoc
// @Summary      Health check
// @Description  Pings Postgres and Redis. Reports down while the server drains.
// @Tags         System
// @Produce      json
// @Success      200  {object}  healthResponse
// @Failure      503  {object}  healthResponse
// @Router       /health [get]
func (a *App) health(r *router.Request) (any, error) {
	if a.draining.Load() {
		return healthResponse{Status: healthDown, Checks: map[string]string{"server": "draining"}}, nil
	}
	return checkHealth(r.Context(), map[string]pinger{
		"postgres": a.dbConn.Ping,
		"redis": func(ctx context.Context) error {
			return a.cacheConn.Ping(ctx).Err()
		},
	}), nil
}
