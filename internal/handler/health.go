package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/deppfellow/storefront/internal/middleware"
	"github.com/deppfellow/storefront/internal/server"
	"github.com/labstack/echo/v4"
)

const (
	StatusHealthy   = "healthy"
	StatusUnhealthy = "unhealthy"

	defaultHealthCheckTimeout = 5 * time.Second
)

// HealthHandler reports whether the store and redis are reachable.
type HealthHandler struct {
	Handler
}

func NewHealthHandler(s *server.Server) *HealthHandler {
	return &HealthHandler{
		Handler: NewHandler(s),
	}
}

// CheckResult is the outcome of one dependency ping.
type CheckResult struct {
	Status       string `json:"status"`
	ResponseTime string `json:"response_time"`
	Error        string `json:"error,omitempty"`
}

type HealthResponse struct {
	Status      string                 `json:"status"`
	Timestamp   time.Time              `json:"timestamp"`
	Environment string                 `json:"environment"`
	Driver      string                 `json:"driver"`
	Checks      map[string]CheckResult `json:"checks"`
}

// CheckHealth pings every enabled dependency and answers 200 when all of them
// respond, 503 otherwise.
func (h *HealthHandler) CheckHealth(c echo.Context) error {
	start := time.Now()
	logger := middleware.GetLogger(c).With().Str("operation", "health_check").Logger()

	response := HealthResponse{
		Status:      StatusHealthy,
		Timestamp:   time.Now().UTC(),
		Environment: h.server.Config.Primary.Env,
		Driver:      h.server.Config.Database.Driver,
		Checks:      make(map[string]CheckResult),
	}

	timeout := defaultHealthCheckTimeout
	shouldCheck := func(string) bool { return true }
	if obs := h.server.Config.Observability; obs != nil {
		if obs.HealthChecks.Timeout > 0 {
			timeout = obs.HealthChecks.Timeout
		}
		shouldCheck = obs.HealthChecks.ShouldCheck
	}

	run := func(name string, ping func(ctx context.Context) error) {
		ctx, cancel := context.WithTimeout(c.Request().Context(), timeout)
		defer cancel()

		checkStart := time.Now()
		err := ping(ctx)
		result := CheckResult{Status: StatusHealthy, ResponseTime: time.Since(checkStart).String()}

		if err != nil {
			result.Status = StatusUnhealthy
			result.Error = err.Error()
			response.Status = StatusUnhealthy

			logger.Error().Err(err).Str("check", name).Dur("response_time", time.Since(checkStart)).Msg("health check failed")

			if app := h.server.LoggerService.GetApplication(); app != nil {
				app.RecordCustomEvent("HealthCheckError", map[string]any{
					"check_type":       name,
					"response_time_ms": time.Since(checkStart).Milliseconds(),
					"error_message":    err.Error(),
				})
			}
		}

		response.Checks[name] = result
	}

	if h.server.DB != nil && shouldCheck("database") {
		run("database", h.server.DB.Ping)
	}

	if h.server.Redis != nil && shouldCheck("redis") {
		run("redis", func(ctx context.Context) error {
			return h.server.Redis.Ping(ctx).Err()
		})
	}

	status := http.StatusOK
	if response.Status != StatusHealthy {
		status = http.StatusServiceUnavailable
	}

	logger.Debug().
		Str("status", response.Status).
		Dur("total_duration", time.Since(start)).
		Msg("health check completed")

	return c.JSON(status, response)
}
