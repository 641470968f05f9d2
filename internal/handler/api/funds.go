package api

import (
	"strings"

	domrepo "SynapseFund/internal/domain/repository"
	xhttp "SynapseFund/pkg/http"
	xlogger "SynapseFund/pkg/logger"

	"github.com/labstack/echo/v4"
)

// FundsHandler serves fund search against the external data source.
type FundsHandler struct {
	logger *xlogger.Logger
	funds  domrepo.FundDataSource
}

func NewFundsHandler(logger *xlogger.Logger, funds domrepo.FundDataSource) *FundsHandler {
	return &FundsHandler{logger: logger, funds: funds}
}

func (h *FundsHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/api/funds/search", h.Search)
}

func (h *FundsHandler) Search(c echo.Context) error {
	query := strings.TrimSpace(c.QueryParam("q"))
	if query == "" {
		return xhttp.BadRequestResponse(c, "q is required")
	}

	hits, err := h.funds.Search(c.Request().Context(), query)
	if err != nil {
		h.logger.Error("fund search failed", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, xhttp.InternalError("fund search unavailable").WithError(err))
	}
	return xhttp.SuccessResponse(c, hits)
}
