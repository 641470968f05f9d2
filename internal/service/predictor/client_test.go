package predictor

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"SynapseFund/internal/domain/models"
)

func newTestClient(t *testing.T, status int, body string) *Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/predict" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, 2*time.Second)
}

func kindOf(t *testing.T, err error) models.ErrorKind {
	t.Helper()
	var perr *models.PredictionError
	if !errors.As(err, &perr) {
		t.Fatalf("expected *models.PredictionError, got %T: %v", err, err)
	}
	return perr.Kind
}

func TestPredictArrayBody(t *testing.T) {
	c := newTestClient(t, http.StatusOK,
		`[{"fund_name":"Alpha","returns_3yr":18.5},{"fund_name":"Beta","returns_3yr":12.1}]`)

	results, err := c.Predict(context.Background(), models.DefaultPredictionRequest())
	if err != nil {
		t.Fatalf("predict: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].FundName != "Alpha" || results[0].Returns3YrOrZero() != 18.5 {
		t.Fatalf("wrong first result: %+v", results[0])
	}
}

func TestPredictFundsWrapper(t *testing.T) {
	c := newTestClient(t, http.StatusOK,
		`{"funds":[{"fund_name":"Gamma","returns_3yr":9.9}]}`)

	results, err := c.Predict(context.Background(), models.DefaultPredictionRequest())
	if err != nil {
		t.Fatalf("predict: %v", err)
	}
	if len(results) != 1 || results[0].FundName != "Gamma" {
		t.Fatalf("wrong results: %+v", results)
	}
}

func TestPredictSingleObject(t *testing.T) {
	c := newTestClient(t, http.StatusOK,
		`{"fund_name":"Delta","returns_1yr":4.2,"returns_3yr":11.0}`)

	results, err := c.Predict(context.Background(), models.DefaultPredictionRequest())
	if err != nil {
		t.Fatalf("predict: %v", err)
	}
	if len(results) != 1 || results[0].Returns3YrOrZero() != 11.0 {
		t.Fatalf("wrong results: %+v", results)
	}
}

func TestPredictDetailIsServiceError(t *testing.T) {
	c := newTestClient(t, http.StatusUnprocessableEntity,
		`{"detail":"no funds matched the filters"}`)

	_, err := c.Predict(context.Background(), models.DefaultPredictionRequest())
	if kindOf(t, err) != models.ErrKindService {
		t.Fatalf("expected service error, got %v", err)
	}
	var perr *models.PredictionError
	errors.As(err, &perr)
	if perr.Message != "no funds matched the filters" {
		t.Fatalf("detail message not surfaced: %q", perr.Message)
	}
}

func TestPredictEmptyVariants(t *testing.T) {
	for name, body := range map[string]string{
		"empty array":   `[]`,
		"empty funds":   `{"funds":[]}`,
		"empty object":  `{}`,
		"blank body":    ``,
		"unknown shape": `{"status":"ok"}`,
	} {
		t.Run(name, func(t *testing.T) {
			c := newTestClient(t, http.StatusOK, body)
			_, err := c.Predict(context.Background(), models.DefaultPredictionRequest())
			if kindOf(t, err) != models.ErrKindEmpty {
				t.Fatalf("expected empty-result error, got %v", err)
			}
		})
	}
}

func TestPredictMalformedBody(t *testing.T) {
	for name, body := range map[string]string{
		"broken json":  `{"funds":`,
		"broken array": `[{"fund_name":`,
	} {
		t.Run(name, func(t *testing.T) {
			c := newTestClient(t, http.StatusOK, body)
			_, err := c.Predict(context.Background(), models.DefaultPredictionRequest())
			if kindOf(t, err) != models.ErrKindParse {
				t.Fatalf("expected parse error, got %v", err)
			}
		})
	}
}

func TestPredictTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()
	c := NewClient(srv.URL, time.Second)

	_, err := c.Predict(context.Background(), models.DefaultPredictionRequest())
	if kindOf(t, err) != models.ErrKindNetwork {
		t.Fatalf("expected network error, got %v", err)
	}
}

func TestHealthy(t *testing.T) {
	if err := NewClient("http://localhost:1", time.Second).Healthy(); err != nil {
		t.Fatalf("configured client should be healthy: %v", err)
	}
	if err := NewClient("", time.Second).Healthy(); !errors.Is(err, ErrUnconfigured) {
		t.Fatalf("expected ErrUnconfigured, got %v", err)
	}
}
