package api

import (
	"SynapseFund/internal/service/events"
	xlogger "SynapseFund/pkg/logger"

	"github.com/labstack/echo/v4"
)

// WSHandler attaches WebSocket subscribers to the event hub.
type WSHandler struct {
	logger *xlogger.Logger
	hub    *events.Hub
}

func NewWSHandler(logger *xlogger.Logger, hub *events.Hub) *WSHandler {
	return &WSHandler{logger: logger, hub: hub}
}

func (h *WSHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/ws", h.Subscribe)
}

func (h *WSHandler) Subscribe(c echo.Context) error {
	if err := h.hub.Serve(c.Response(), c.Request()); err != nil {
		h.logger.Error("websocket upgrade failed", xlogger.Error(err))
		return err
	}
	return nil
}
