package predictor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"SynapseFund/internal/domain/models"
	"SynapseFund/internal/domain/repository"
	phttp "SynapseFund/pkg/http"
	"SynapseFund/pkg/logger"
)

// Client calls the remote prediction service. One outbound call per
// Predict; no internal retry.
type Client struct {
	http    *phttp.Client
	baseURL string
	log     *logger.Logger
	metrics repository.MetricsRecorder
}

// Option configures the client.
type Option func(*Client)

// WithLogger sets the client logger.
func WithLogger(log *logger.Logger) Option {
	return func(c *Client) {
		c.log = log
	}
}

// WithMetrics sets the metrics recorder.
func WithMetrics(m repository.MetricsRecorder) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// NewClient creates a prediction client with a per-call timeout.
func NewClient(baseURL string, timeout time.Duration, opts ...Option) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	c := &Client{
		http:    phttp.NewClient(phttp.WithTimeout(timeout)),
		baseURL: baseURL,
	}

	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Predict posts one prediction request and classifies the response.
// The returned error, when non-nil, is always a *models.PredictionError.
func (c *Client) Predict(ctx context.Context, req models.PredictionRequest) ([]models.PredictionResult, error) {
	body, status, err := c.http.SendAndRead(ctx, &phttp.RequestOptions{
		Method: phttp.MethodPost,
		URL:    c.baseURL + "/predict",
		Body:   req,
	})
	if err != nil {
		c.record(req.AMCName, string(models.ErrKindNetwork))
		return nil, models.NewPredictionError(models.ErrKindNetwork, "transport failure", err)
	}

	results, perr := classify(body)
	if perr != nil {
		c.record(req.AMCName, string(perr.Kind))
		if c.log != nil {
			c.log.Debug("prediction call failed",
				logger.String("amc", req.AMCName),
				logger.Int("status", status),
				logger.String("kind", string(perr.Kind)))
		}
		return nil, perr
	}

	c.record(req.AMCName, "success")
	return results, nil
}

func (c *Client) record(source, outcome string) {
	if c.metrics != nil {
		c.metrics.RecordPredictionCall(source, outcome)
	}
}

// classify maps a response body onto the result-or-error taxonomy. The
// service answers with an array of results, an object with a funds
// array, a single result object, or an object carrying a detail field.
func classify(body []byte) ([]models.PredictionResult, *models.PredictionError) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, models.NewPredictionError(models.ErrKindEmpty, "empty body", nil)
	}

	if trimmed[0] == '[' {
		var results []models.PredictionResult
		if err := json.Unmarshal(trimmed, &results); err != nil {
			return nil, models.NewPredictionError(models.ErrKindParse, "malformed array body", err)
		}
		if len(results) == 0 {
			return nil, models.NewPredictionError(models.ErrKindEmpty, "no results", nil)
		}
		return results, nil
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &fields); err != nil {
		return nil, models.NewPredictionError(models.ErrKindParse, "malformed body", err)
	}

	if detail, ok := fields["detail"]; ok {
		return nil, models.NewPredictionError(models.ErrKindService, detailMessage(detail), nil)
	}

	if rawFunds, ok := fields["funds"]; ok {
		var results []models.PredictionResult
		if err := json.Unmarshal(rawFunds, &results); err != nil {
			return nil, models.NewPredictionError(models.ErrKindParse, "malformed funds array", err)
		}
		if len(results) == 0 {
			return nil, models.NewPredictionError(models.ErrKindEmpty, "no results", nil)
		}
		return results, nil
	}

	if hasAny(fields, "returns_1yr", "returns_3yr", "returns_5yr") {
		var single models.PredictionResult
		if err := json.Unmarshal(trimmed, &single); err != nil {
			return nil, models.NewPredictionError(models.ErrKindParse, "malformed result object", err)
		}
		return []models.PredictionResult{single}, nil
	}

	return nil, models.NewPredictionError(models.ErrKindEmpty, "no prediction fields", nil)
}

func detailMessage(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}

func hasAny(fields map[string]json.RawMessage, keys ...string) bool {
	for _, k := range keys {
		if _, ok := fields[k]; ok {
			return true
		}
	}
	return false
}

var _ repository.Predictor = (*Client)(nil)

// ErrUnconfigured is returned by health checks when no base URL is set.
var ErrUnconfigured = fmt.Errorf("predictor: base url not configured")

// Healthy reports whether the client is usable.
func (c *Client) Healthy() error {
	if c.baseURL == "" {
		return ErrUnconfigured
	}
	return nil
}
