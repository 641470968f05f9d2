package api

import (
	"time"

	"SynapseFund/internal/usecase"
	xhttp "SynapseFund/pkg/http"
	xlogger "SynapseFund/pkg/logger"
	"SynapseFund/pkg/util"

	"github.com/labstack/echo/v4"
)

// RecommendationHandler serves the rotating recommended-fund slot.
type RecommendationHandler struct {
	logger *xlogger.Logger
	cycle  *usecase.RecommendationRefreshCycle
}

func NewRecommendationHandler(logger *xlogger.Logger, cycle *usecase.RecommendationRefreshCycle) *RecommendationHandler {
	return &RecommendationHandler{logger: logger, cycle: cycle}
}

func (h *RecommendationHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api/recommendation")
	g.GET("", h.Current)
	g.POST("/refresh", h.Refresh)
}

// Current returns the slot. The chart window can be narrowed with
// ?from=DD-MM-YYYY or ?years=N.
func (h *RecommendationHandler) Current(c echo.Context) error {
	slot := h.cycle.Current()

	from, ok := xhttp.ParseDate(c.QueryParam("from"))
	if !ok {
		if years := xhttp.ParseIntDefault(c.QueryParam("years"), 0); years > 0 {
			from, ok = util.YearsAgo(time.Now(), years), true
		}
	}
	if ok {
		filtered := slot.Chart[:0:0]
		for _, p := range slot.Chart {
			if d, pok := util.ParseNavDate(p.Date); pok && d.Before(from) {
				continue
			}
			filtered = append(filtered, p)
		}
		slot.Chart = filtered
	}

	return xhttp.SuccessResponse(c, slot)
}

func (h *RecommendationHandler) Refresh(c echo.Context) error {
	return xhttp.SuccessResponse(c, h.cycle.Refresh())
}
