package api

import (
	"SynapseFund/internal/domain/models"
	domrepo "SynapseFund/internal/domain/repository"
	"SynapseFund/internal/usecase"
	xhttp "SynapseFund/pkg/http"
	xlogger "SynapseFund/pkg/logger"

	"github.com/labstack/echo/v4"
)

const crossSourceTopK = 5

// PredictionsHandler serves the aggregation surface: cached top
// predictions per category and the single-fund predict passthrough.
type PredictionsHandler struct {
	logger       *xlogger.Logger
	orchestrator *usecase.AggregationOrchestrator
	predictor    domrepo.Predictor
}

func NewPredictionsHandler(logger *xlogger.Logger, orchestrator *usecase.AggregationOrchestrator, predictor domrepo.Predictor) *PredictionsHandler {
	return &PredictionsHandler{logger: logger, orchestrator: orchestrator, predictor: predictor}
}

func (h *PredictionsHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/predictions/top", h.Top)
	g.POST("/predict", h.Predict)
}

// TopPredictionsResponse is the payload of GET /api/predictions/top.
type TopPredictionsResponse struct {
	Category   string               `json:"category"`
	Generation uint64               `json:"generation"`
	Top        []models.RankedEntry `json:"top"`
	Failures   map[string]string    `json:"failures,omitempty"`
}

func (h *PredictionsHandler) Top(c echo.Context) error {
	category := domrepo.Category(c.QueryParam("category"))
	if category == "" {
		category = domrepo.CategoryEquity
	}
	if !category.IsValid() {
		return xhttp.BadRequestResponse(c, "unknown category")
	}

	limit := xhttp.ParseIntDefault(c.QueryParam("limit"), crossSourceTopK)
	if limit < 1 || limit > crossSourceTopK {
		limit = crossSourceTopK
	}

	snapshot, top := h.orchestrator.TopPredictions(c.Request().Context(), category, limit)

	failures := make(map[string]string)
	for source, outcome := range snapshot.Outcomes {
		if !outcome.OK() {
			failures[source] = outcome.Failure
		}
	}

	return xhttp.SuccessResponse(c, TopPredictionsResponse{
		Category:   snapshot.Category,
		Generation: snapshot.Generation,
		Top:        top,
		Failures:   failures,
	})
}

func (h *PredictionsHandler) Predict(c echo.Context) error {
	req := &models.PredictBody{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	category := domrepo.Category(req.Category)
	if !category.IsValid() {
		return xhttp.BadRequestResponse(c, "unknown category")
	}
	if req.SubCategory == "" {
		req.SubCategory = category.DefaultSubCategory()
	} else if !category.HasSubCategory(req.SubCategory) {
		return xhttp.BadRequestResponse(c, "sub_category does not belong to category")
	}

	results, err := h.predictor.Predict(c.Request().Context(), req.ToRequest())
	if err != nil {
		h.logger.Error("predict call failed", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, predictionAppError(err))
	}

	return xhttp.SuccessResponse(c, results)
}
