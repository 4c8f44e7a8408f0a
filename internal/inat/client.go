// Package inat implements the rate-governed client layer for the public
// iNaturalist API: a sliding-window rate governor, a retrying request
// executor, and name-to-id resolvers. All calls are read-only GETs.
package inat

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	apperrors "github.com/biolens/biolens/internal/errors"
)

// DefaultBaseURL is the public iNaturalist API root.
const DefaultBaseURL = "https://api.inaturalist.org/v1"

const defaultUserAgent = "biolens/0.1.0"

// Client executes single GET requests against the upstream API. Every
// attempt, including retries, is admitted through the Governor first.
type Client struct {
	BaseURL    string
	UserAgent  string
	HTTPClient *http.Client
	Governor   *Governor
	Logger     *zap.Logger

	// MaxRetries is the number of additional attempts after the first.
	MaxRetries int

	// Backoff returns the delay before retry attempt n (1-based).
	Backoff func(attempt int) time.Duration

	// Sleep is injectable for tests.
	Sleep func(ctx context.Context, d time.Duration) error
}

// Get issues one GET against path with the given query, decoding the JSON
// body into out. Transient failures (5xx, connection errors) are retried
// with backoff; a 429 is retried only after a full governor window; 4xx
// fails immediately.
func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) error {
	if ctx == nil {
		ctx = context.Background()
	}

	endpoint := c.endpointURL(path, query)
	attempts := c.MaxRetries + 1
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if attempt > 1 {
			if err := c.sleep(ctx, c.retryDelay(attempt-1, lastErr)); err != nil {
				return err
			}
		}

		if c.Governor != nil {
			if err := c.Governor.Admit(ctx); err != nil {
				return err
			}
		}

		done, err := c.attempt(ctx, endpoint, path, out)
		if done {
			return err
		}
		lastErr = err
		c.log().Debug("retrying upstream request",
			zap.String("path", path),
			zap.Int("attempt", attempt),
			zap.Error(err))
	}

	return lastErr
}

// attempt performs one request. done=false means the error is retryable.
func (c *Client) attempt(ctx context.Context, endpoint, path string, out any) (done bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return true, apperrors.NewInternalError(fmt.Sprintf("failed to build request for %s: %v", path, err))
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent())

	resp, err := c.httpClient().Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return true, ctx.Err()
		}
		return false, apperrors.NewNetworkError(path, err)
	}
	defer resp.Body.Close() // nolint:errcheck // best-effort cleanup on HTTP response body

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		if out == nil {
			_, _ = io.Copy(io.Discard, resp.Body)
			return true, nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return true, apperrors.NewUpstreamError(resp.StatusCode, path, fmt.Sprintf("failed to decode response body: %v", err))
		}
		return true, nil

	case resp.StatusCode == http.StatusTooManyRequests:
		_, _ = io.Copy(io.Discard, resp.Body)
		return false, apperrors.NewUpstreamError(resp.StatusCode, path, "rate limited by upstream")

	case resp.StatusCode >= 500:
		_, _ = io.Copy(io.Discard, resp.Body)
		return false, apperrors.NewUpstreamError(resp.StatusCode, path, "upstream server error")

	default:
		// Remaining 4xx: the query itself is invalid, retrying cannot help.
		_, _ = io.Copy(io.Discard, resp.Body)
		return true, apperrors.NewUpstreamError(resp.StatusCode, path, "upstream rejected request")
	}
}

// retryDelay picks the pause before the next attempt. A 429 waits out at
// least one full governor window; the ceiling is evidently misconfigured
// relative to upstream's own limit.
func (c *Client) retryDelay(retry int, lastErr error) time.Duration {
	delay := c.backoff(retry)
	if coded := apperrors.AsError(lastErr); coded != nil && coded.StatusCode == http.StatusTooManyRequests {
		window := DefaultRateWindow
		if c.Governor != nil {
			window = c.Governor.window()
		}
		if window > delay {
			delay = window
		}
	}
	return delay
}

func (c *Client) backoff(retry int) time.Duration {
	if c.Backoff != nil {
		return c.Backoff(retry)
	}
	// 500ms, 1500ms, 4500ms, ...
	delay := 500 * time.Millisecond
	for i := 1; i < retry; i++ {
		delay *= 3
	}
	return delay
}

func (c *Client) endpointURL(path string, query url.Values) string {
	base := strings.TrimRight(c.BaseURL, "/")
	if base == "" {
		base = DefaultBaseURL
	}
	endpoint := base + "/" + strings.TrimLeft(path, "/")
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}
	return endpoint
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return &http.Client{Timeout: 30 * time.Second}
}

func (c *Client) userAgent() string {
	if c.UserAgent != "" {
		return c.UserAgent
	}
	return defaultUserAgent
}

func (c *Client) sleep(ctx context.Context, d time.Duration) error {
	if c.Sleep != nil {
		return c.Sleep(ctx, d)
	}
	return sleepContext(ctx, d)
}

func (c *Client) log() *zap.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return zap.NewNop()
}
