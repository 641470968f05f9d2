package api

import (
	"errors"

	"SynapseFund/internal/domain/models"
	domrepo "SynapseFund/internal/domain/repository"
	"SynapseFund/internal/usecase"
	xhttp "SynapseFund/pkg/http"
	xlogger "SynapseFund/pkg/logger"

	"github.com/labstack/echo/v4"
)

// ExplorationHandler serves the card-exploration session surface.
type ExplorationHandler struct {
	logger  *xlogger.Logger
	machine *usecase.ExplorationStateMachine
}

func NewExplorationHandler(logger *xlogger.Logger, machine *usecase.ExplorationStateMachine) *ExplorationHandler {
	return &ExplorationHandler{logger: logger, machine: machine}
}

func (h *ExplorationHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api/explore")
	g.POST("/session", h.CreateSession)
	g.GET("/session/:id", h.GetSession)
	g.POST("/session/:id/analyze", h.Analyze)
	g.POST("/session/:id/dismiss", h.Dismiss)
	g.POST("/session/:id/category", h.ChangeCategory)
	g.DELETE("/session/:id", h.CloseSession)
}

func (h *ExplorationHandler) CreateSession(c echo.Context) error {
	req := &models.CreateSessionBody{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	pool, err := h.machine.CreateSession(domrepo.Category(req.Category))
	if err != nil {
		return xhttp.BadRequestResponse(c, err.Error())
	}

	return xhttp.CreatedResponse(c, pool)
}

func (h *ExplorationHandler) GetSession(c echo.Context) error {
	pool, err := h.machine.Session(c.Param("id"))
	if err != nil {
		return h.sessionError(c, err)
	}
	return xhttp.SuccessResponse(c, pool)
}

func (h *ExplorationHandler) Analyze(c echo.Context) error {
	req := &models.AnalyzeBody{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	pool, err := h.machine.AnalyzeFront(c.Param("id"), *req)
	if err != nil {
		return h.sessionError(c, err)
	}
	return xhttp.SuccessResponse(c, pool)
}

func (h *ExplorationHandler) Dismiss(c echo.Context) error {
	pool, err := h.machine.DismissFront(c.Param("id"))
	if err != nil {
		return h.sessionError(c, err)
	}
	return xhttp.SuccessResponse(c, pool)
}

func (h *ExplorationHandler) ChangeCategory(c echo.Context) error {
	req := &models.ChangeCategoryBody{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	pool, err := h.machine.ChangeCategory(c.Param("id"), domrepo.Category(req.Category))
	if err != nil {
		return h.sessionError(c, err)
	}
	return xhttp.SuccessResponse(c, pool)
}

func (h *ExplorationHandler) CloseSession(c echo.Context) error {
	h.machine.CloseSession(c.Param("id"))
	return xhttp.NoContentResponse(c)
}

func (h *ExplorationHandler) sessionError(c echo.Context, err error) error {
	if errors.Is(err, usecase.ErrSessionNotFound) {
		return xhttp.NotFoundResponse(c, "session not found")
	}
	h.logger.Error("exploration usecase error", xlogger.Error(err))
	return xhttp.BadRequestResponse(c, err.Error())
}
