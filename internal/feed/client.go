// Package feed fetches the NeoWs near-Earth object feed.
package feed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/time/rate"

	"github.com/gustycube/neoview/internal/httpclient"
	"github.com/gustycube/neoview/internal/logging"
	"github.com/gustycube/neoview/internal/metrics"
	"github.com/gustycube/neoview/internal/neo"
	"github.com/gustycube/neoview/internal/telemetry"
)

const (
	DefaultBaseURL = "https://api.nasa.gov"
	DefaultAPIKey  = "DEMO_KEY"
	feedPath       = "/neo/rest/v1/feed"
	maxBodyBytes   = 32 << 20
)

// Range is an inclusive span of approach dates, YYYY-MM-DD.
type Range struct {
	Start string
	End   string
}

// Key identifies the range in the payload cache.
func (r Range) Key() string {
	return r.Start + ":" + r.End
}

// Options configures a Client.
type Options struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
	// PerHour caps outgoing requests; NeoWs enforces hourly quotas per key.
	PerHour int
}

// Client retrieves raw feed documents. It does not retry.
type Client struct {
	baseURL string
	apiKey  string
	hc      *http.Client
	limiter *rate.Limiter
	log     *logging.Logger
}

// New creates a Client. Zero-valued options take the public API defaults.
func New(opts Options, log *logging.Logger) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.APIKey == "" {
		opts.APIKey = DefaultAPIKey
	}
	if opts.PerHour <= 0 {
		opts.PerHour = 30
	}
	return &Client{
		baseURL: opts.BaseURL,
		apiKey:  opts.APIKey,
		hc:      httpclient.Default(opts.Timeout),
		limiter: rate.NewLimiter(rate.Every(time.Hour/time.Duration(opts.PerHour)), opts.PerHour),
		log:     log,
	}
}

func (c *Client) requestURL(rng Range, redact bool) string {
	key := c.apiKey
	if redact {
		key = "REDACTED"
	}
	q := url.Values{}
	q.Set("start_date", rng.Start)
	q.Set("end_date", rng.End)
	q.Set("api_key", key)
	return c.baseURL + feedPath + "?" + q.Encode()
}

// Fetch performs one GET for rng and returns the raw body. Any transport
// failure or non-200 status is a *neo.IngestionError.
func (c *Client) Fetch(ctx context.Context, rng Range) (body []byte, err error) {
	ctx, span := telemetry.Start(ctx, "feed.Fetch",
		attribute.String("neo.start_date", rng.Start),
		attribute.String("neo.end_date", rng.End),
	)
	defer func() { telemetry.End(span, err) }()

	if err := c.limiter.Wait(ctx); err != nil {
		metrics.FeedRequestsTotal.WithLabelValues("rate_limited").Inc()
		return nil, &neo.IngestionError{Op: "fetch", Err: fmt.Errorf("waiting for rate limiter: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.requestURL(rng, false), nil)
	if err != nil {
		return nil, &neo.IngestionError{Op: "fetch", Err: err}
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.hc.Do(req)
	metrics.FeedRequestDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.FeedRequestsTotal.WithLabelValues("transport_error").Inc()
		// Transport errors embed the full URL; keep the key out of them.
		var uerr *url.Error
		if errors.As(err, &uerr) {
			uerr.URL = c.requestURL(rng, true)
		}
		return nil, &neo.IngestionError{Op: "fetch", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
		metrics.FeedRequestsTotal.WithLabelValues("bad_status").Inc()
		return nil, &neo.IngestionError{Op: "fetch", StatusCode: resp.StatusCode}
	}

	body, err = io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes+1))
	if err != nil {
		metrics.FeedRequestsTotal.WithLabelValues("read_error").Inc()
		return nil, &neo.IngestionError{Op: "fetch", Err: fmt.Errorf("reading response body: %w", err)}
	}
	if len(body) > maxBodyBytes {
		metrics.FeedRequestsTotal.WithLabelValues("too_large").Inc()
		return nil, &neo.IngestionError{Op: "fetch", Err: fmt.Errorf("response exceeds %d byte limit", maxBodyBytes)}
	}

	metrics.FeedRequestsTotal.WithLabelValues("ok").Inc()
	c.log.Debugw("fetched feed", "url", c.requestURL(rng, true), "bytes", len(body))
	return body, nil
}
