package api

import (
	"errors"
	"net/http"

	"SynapseFund/internal/domain/models"
	xhttp "SynapseFund/pkg/http"
)

// predictionAppError maps the prediction error taxonomy onto the HTTP
// error envelope. Service-reported failures surface as 422 with the
// upstream message; everything else is a 502 against the remote.
func predictionAppError(err error) *xhttp.AppError {
	var perr *models.PredictionError
	if !errors.As(err, &perr) {
		return xhttp.InternalError("prediction failed").WithError(err)
	}

	switch perr.Kind {
	case models.ErrKindService:
		return xhttp.NewAppError("ERR_PREDICTION_REJECTED", "", perr.Message, http.StatusUnprocessableEntity).WithError(err)
	case models.ErrKindEmpty:
		return xhttp.NewAppError("ERR_PREDICTION_EMPTY", "", "no usable prediction", http.StatusBadGateway).WithError(err)
	case models.ErrKindParse:
		return xhttp.NewAppError("ERR_PREDICTION_PARSE", "", "malformed prediction response", http.StatusBadGateway).WithError(err)
	default:
		return xhttp.NewAppError("ERR_PREDICTION_UNAVAILABLE", "", "prediction service unreachable", http.StatusBadGateway).WithError(err)
	}
}
