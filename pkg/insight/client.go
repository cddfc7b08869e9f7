package insight

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	pkgerrors "github.com/nazmulcodes/deshcart-backend/pkg/errors"
)

const (
	queryTypeTimeSeries       = "time-series"
	queryTypeCustomerSegments = "customer-segments"
	queryTypeGrowthPrediction = "growth-prediction"

	errorBodyReadLimit int64 = 1024
)

// Client wraps the analytics service endpoints the dashboard consumes.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithAPIKey attaches the analytics service API key to every request.
func WithAPIKey(apiKey string) Option {
	return func(c *Client) {
		c.apiKey = strings.TrimSpace(apiKey)
	}
}

// WithTimeout overrides the default request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient.Timeout = timeout
		}
	}
}

// NewClient builds an analytics client for the given base URL.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	trimmed := strings.TrimSpace(baseURL)
	if trimmed == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "analytics base URL is required")
	}

	client := &Client{
		baseURL:    strings.TrimRight(trimmed, "/"),
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}

	return client, nil
}

// TimeSeries fetches day-bucketed order counts for the timeframe, optionally
// narrowed to one division.
func (c *Client) TimeSeries(ctx context.Context, timeframeMonths int, division string) ([]DayBucket, error) {
	if c == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "analytics client not configured")
	}
	if timeframeMonths <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "timeframe must be positive")
	}

	var payload struct {
		TimeSeries []DayBucket `json:"timeSeries"`
	}
	params := url.Values{}
	params.Set("type", queryTypeTimeSeries)
	params.Set("timeframe", strconv.Itoa(timeframeMonths))
	if err := c.get(ctx, params, division, &payload); err != nil {
		return nil, err
	}
	return payload.TimeSeries, nil
}

// CustomerSegments fetches the six-bucket customer classification.
func (c *Client) CustomerSegments(ctx context.Context, division string) (SegmentsPayload, error) {
	if c == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "analytics client not configured")
	}

	var payload struct {
		Segments SegmentsPayload `json:"segments"`
	}
	params := url.Values{}
	params.Set("type", queryTypeCustomerSegments)
	if err := c.get(ctx, params, division, &payload); err != nil {
		return nil, err
	}
	if payload.Segments == nil {
		payload.Segments = SegmentsPayload{}
	}
	return payload.Segments, nil
}

// GrowthPredictions fetches per-location growth forecasts.
func (c *Client) GrowthPredictions(ctx context.Context, timeframeMonths int, division string) ([]GrowthPrediction, error) {
	if c == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "analytics client not configured")
	}
	if timeframeMonths <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "timeframe must be positive")
	}

	var payload struct {
		Predictions []GrowthPrediction `json:"predictions"`
	}
	params := url.Values{}
	params.Set("type", queryTypeGrowthPrediction)
	params.Set("timeframe", strconv.Itoa(timeframeMonths))
	if err := c.get(ctx, params, division, &payload); err != nil {
		return nil, err
	}
	return payload.Predictions, nil
}

func (c *Client) get(ctx context.Context, params url.Values, division string, dest any) error {
	if division = strings.TrimSpace(division); division != "" {
		params.Set("division", division)
	}
	endpoint := fmt.Sprintf("%s/analytics?%s", c.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build analytics request")
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("X-Insight-Api-Key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "execute analytics request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyReadLimit))
		return pkgerrors.Wrap(
			pkgerrors.CodeDependency,
			fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg))),
			"analytics request failed",
		)
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode analytics response")
	}
	return nil
}
