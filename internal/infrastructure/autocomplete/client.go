// Package autocomplete adapts the marketplace completion endpoint into a
// suggestion source for seed expansion.
package autocomplete

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/turtacn/KeyRank-Intelligence/internal/application/expansion"
	"github.com/turtacn/KeyRank-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/KeyRank-Intelligence/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/KeyRank-Intelligence/pkg/errors"
	ktypes "github.com/turtacn/KeyRank-Intelligence/pkg/types/keyword"
)

const (
	suggestionsPath = "/api/2017/suggestions"

	// DefaultTimeout bounds one completion request.
	DefaultTimeout = 10 * time.Second

	// maxResponseBytes caps how much of a completion payload is read.
	maxResponseBytes = 1 << 20

	// defaultUserAgent identifies as a desktop browser; the completion
	// endpoint serves an empty suggestion set to unidentified clients.
	defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

var _ expansion.SuggestionSource = (*Client)(nil)

// Client fetches autocomplete suggestions from one marketplace's completion
// endpoint. It is safe for concurrent use.
type Client struct {
	market     ktypes.Marketplace
	baseURL    string
	httpClient *http.Client
	userAgent  string
	logger     logging.Logger
	metrics    *prometheus.AppMetrics
}

// Option adjusts client construction.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client, its timeout included.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTimeout sets the per-request timeout on the underlying HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithBaseURL points the client at a different completion endpoint. Tests
// use it to target a local server.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.baseURL = strings.TrimRight(u, "/")
		}
	}
}

// WithUserAgent replaces the User-Agent header sent upstream.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// NewClient builds a completion client for the given marketplace code,
// falling back to the default marketplace when the code is unknown. Logger
// and metrics may be nil.
func NewClient(marketCode string, logger logging.Logger, metrics *prometheus.AppMetrics, opts ...Option) *Client {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	market := Lookup(marketCode)
	c := &Client{
		market:     market,
		baseURL:    "https://" + market.Host,
		httpClient: &http.Client{Timeout: DefaultTimeout},
		userAgent:  defaultUserAgent,
		logger:     logger,
		metrics:    metrics,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Marketplace returns the marketplace this client is bound to.
func (c *Client) Marketplace() ktypes.Marketplace {
	return c.market
}

// Fetch returns the completion suggestions for a seed. Errors carry source
// codes so callers can distinguish throttling from outages; the expander
// degrades any of them to an empty contribution.
func (c *Client) Fetch(ctx context.Context, seed string) ([]string, error) {
	start := time.Now()
	suggestions, err := c.fetch(ctx, seed)
	latency := time.Since(start)

	if err != nil {
		prometheus.RecordSourceRequest(c.metrics, c.market.Code, sourceStatus(err), latency)
		c.logger.Warn("completion request failed",
			logging.String("marketplace", c.market.Code),
			logging.String("seed", seed),
			logging.Err(err),
		)
		return nil, err
	}

	prometheus.RecordSourceRequest(c.metrics, c.market.Code, "ok", latency)
	c.logger.Debug("completion request served",
		logging.String("marketplace", c.market.Code),
		logging.String("seed", seed),
		logging.Int("suggestions", len(suggestions)),
		logging.Duration("latency", latency),
	)
	return suggestions, nil
}

type completionResponse struct {
	Suggestions []struct {
		Value string `json:"value"`
	} `json:"suggestions"`
}

func (c *Client) fetch(ctx context.Context, seed string) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+suggestionsPath, nil)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSourceUnavailable, "building completion request")
	}

	q := req.URL.Query()
	q.Set("mid", c.market.MarketplaceID)
	q.Set("alias", "aps")
	q.Set("prefix", seed)
	q.Set("suggestion-type", "KEYWORD")
	q.Set("page-type", "Search")
	q.Set("lop", c.market.Locale)
	q.Set("site-variant", "desktop")
	q.Set("client-info", "search-ui")
	req.URL.RawQuery = q.Encode()
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSourceUnavailable, "completion endpoint unreachable")
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, errors.New(errors.ErrCodeSourceRateLimited, "completion endpoint throttled the request")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, errors.Newf(errors.ErrCodeSourceBadStatus, "completion endpoint returned %s", resp.Status)
	}

	var payload completionResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&payload); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSourceDecodeFailed, "decoding completion payload")
	}

	out := make([]string, 0, len(payload.Suggestions))
	for _, s := range payload.Suggestions {
		if v := strings.TrimSpace(s.Value); v != "" {
			out = append(out, v)
		}
	}
	return out, nil
}

// sourceStatus maps a fetch error to its metrics label.
func sourceStatus(err error) string {
	switch {
	case errors.IsCode(err, errors.ErrCodeSourceRateLimited):
		return "rate_limited"
	case errors.IsCode(err, errors.ErrCodeSourceBadStatus):
		return "bad_status"
	case errors.IsCode(err, errors.ErrCodeSourceDecodeFailed):
		return "decode_failed"
	default:
		return "unavailable"
	}
}
