package api

import (
	"context"
	"time"

	"SynapseFund/internal/service/events"
	pcache "SynapseFund/pkg/cache"
	xhttp "SynapseFund/pkg/http"
	xlogger "SynapseFund/pkg/logger"

	"github.com/labstack/echo/v4"
)

// HealthHandler reports dependency status and the recent error log ring.
type HealthHandler struct {
	logger *xlogger.Logger
	cache  pcache.Service
	hub    *events.Hub
}

func NewHealthHandler(logger *xlogger.Logger, cache pcache.Service, hub *events.Hub) *HealthHandler {
	return &HealthHandler{logger: logger, cache: cache, hub: hub}
}

func (h *HealthHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/api/health", h.Health)
}

// HealthResponse is the payload of GET /api/health.
type HealthResponse struct {
	Status       string                       `json:"status"`
	Components   map[string]string            `json:"components"`
	Subscribers  int                          `json:"ws_subscribers"`
	RecentErrors []xlogger.AggregatedLogEntry `json:"recent_errors,omitempty"`
}

func (h *HealthHandler) Health(c echo.Context) error {
	resp := HealthResponse{
		Status:     "ok",
		Components: make(map[string]string),
	}

	if h.cache != nil {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
		defer cancel()
		if _, err := h.cache.Exists(ctx, "health:probe"); err != nil {
			resp.Components["cache"] = "down: " + err.Error()
			resp.Status = "degraded"
		} else {
			resp.Components["cache"] = "ok"
		}
	}

	if h.hub != nil {
		resp.Components["events"] = "ok"
		resp.Subscribers = h.hub.Subscribers()
	}

	if collector := h.logger.Collector(); collector != nil {
		resp.RecentErrors = collector.Recent()
	}

	return xhttp.SuccessResponse(c, resp)
}
