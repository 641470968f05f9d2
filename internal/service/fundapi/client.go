package fundapi

import (
	"context"
	"fmt"
	"time"

	"SynapseFund/internal/domain/models"
	"SynapseFund/internal/domain/repository"
	pcache "SynapseFund/pkg/cache"
	phttp "SynapseFund/pkg/http"
	"SynapseFund/pkg/logger"
	"SynapseFund/pkg/util"
)

// Client serves fund NAV time series and free-text search from the
// external fund data service, with a read-through response cache.
type Client struct {
	http      *phttp.Client
	baseURL   string
	cache     pcache.Service
	seriesTTL time.Duration
	searchTTL time.Duration
	log       *logger.Logger
	metrics   repository.MetricsRecorder
}

// Option configures the client.
type Option func(*Client)

// WithCache enables the response cache.
func WithCache(c pcache.Service, seriesTTL, searchTTL time.Duration) Option {
	return func(cl *Client) {
		cl.cache = c
		cl.seriesTTL = seriesTTL
		cl.searchTTL = searchTTL
	}
}

// WithLogger sets the client logger.
func WithLogger(log *logger.Logger) Option {
	return func(cl *Client) {
		cl.log = log
	}
}

// WithMetrics sets the metrics recorder.
func WithMetrics(m repository.MetricsRecorder) Option {
	return func(cl *Client) {
		cl.metrics = m
	}
}

// NewClient creates a fund data client.
func NewClient(baseURL string, timeout time.Duration, opts ...Option) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	c := &Client{
		http:      phttp.NewClient(phttp.WithTimeout(timeout)),
		baseURL:   baseURL,
		seriesTTL: 5 * time.Minute,
		searchTTL: 10 * time.Minute,
	}

	for _, opt := range opts {
		opt(c)
	}
	return c
}

// seriesResponse is the wire shape of the series endpoint: metadata plus
// (date, nav-as-string) points, most-recent first.
type seriesResponse struct {
	Meta struct {
		SchemeName string `json:"scheme_name"`
	} `json:"meta"`
	Data []struct {
		Date string `json:"date"`
		Nav  string `json:"nav"`
	} `json:"data"`
}

// Series fetches the NAV history for a fund code.
func (c *Client) Series(ctx context.Context, code string) (*models.FundSeries, error) {
	key := pcache.GenerateKey("fundapi:series", code)

	if c.cache != nil {
		var cached models.FundSeries
		if err := c.cache.Get(ctx, key, &cached); err == nil {
			c.recordLookup("series", true)
			return &cached, nil
		}
		c.recordLookup("series", false)
	}

	var raw seriesResponse
	err := c.http.SendAndParse(ctx, &phttp.RequestOptions{
		Method: phttp.MethodGet,
		URL:    fmt.Sprintf("%s/mf/%s", c.baseURL, code),
	}, &raw)
	if err != nil {
		return nil, fmt.Errorf("fetch series for %s: %w", code, err)
	}

	series := &models.FundSeries{SchemeName: raw.Meta.SchemeName}
	for _, p := range raw.Data {
		series.Points = append(series.Points, models.NavPoint{
			Date: p.Date,
			Nav:  util.ParseFloatDefault(p.Nav, 0),
		})
	}

	if c.cache != nil {
		if err := c.cache.Set(ctx, key, series, c.seriesTTL); err != nil && c.log != nil {
			c.log.Warn("series cache write failed", logger.Error(err))
		}
	}
	return series, nil
}

// Search runs a free-text fund search.
func (c *Client) Search(ctx context.Context, query string) ([]models.FundSearchHit, error) {
	key := pcache.GenerateKey("fundapi:search", query)

	if c.cache != nil {
		var cached []models.FundSearchHit
		if err := c.cache.Get(ctx, key, &cached); err == nil {
			c.recordLookup("search", true)
			return cached, nil
		}
		c.recordLookup("search", false)
	}

	var hits []models.FundSearchHit
	err := c.http.SendAndParse(ctx, &phttp.RequestOptions{
		Method:      phttp.MethodGet,
		URL:         c.baseURL + "/mf/search",
		QueryParams: map[string][]string{"q": {query}},
	}, &hits)
	if err != nil {
		return nil, fmt.Errorf("search funds %q: %w", query, err)
	}

	if c.cache != nil {
		if err := c.cache.Set(ctx, key, hits, c.searchTTL); err != nil && c.log != nil {
			c.log.Warn("search cache write failed", logger.Error(err))
		}
	}
	return hits, nil
}

func (c *Client) recordLookup(kind string, hit bool) {
	if c.metrics != nil {
		c.metrics.RecordCacheLookup(kind, hit)
	}
}

var _ repository.FundDataSource = (*Client)(nil)
