// Package httpretry is a small retrying HTTP client: exponential backoff
// with jitter, rate-limit-header-aware delay, and status-code-driven retry
// classification.
//
// Adapted from the teacher's pkg/httpclient package (same Client/Option
// shape, same DefaultStrategy status-code table), trimmed to what the
// hosted LLM provider needs — the teacher's TLS-transport-preservation
// option handling is dropped since this module never talks to a corporate
// proxy with custom CA certificates.
package httpretry

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"math"
	"math/rand"
	"net/http"
	"time"
)

// RetryStrategy classifies how a response status should be retried.
type RetryStrategy int

const (
	NoRetry RetryStrategy = iota
	ConservativeRetry
	SmartRetry
)

// RateLimitInfo is what a HeaderParser extracts from a response's headers.
type RateLimitInfo struct {
	RetryAfter time.Duration
	ResetTime  int64
}

// HeaderParser extracts rate-limit information from response headers.
type HeaderParser func(http.Header) RateLimitInfo

// Client wraps http.Client with retry and backoff.
type Client struct {
	http         *http.Client
	maxRetries   int
	baseDelay    time.Duration
	maxDelay     time.Duration
	headerParser HeaderParser
}

// Option configures a Client.
type Option func(*Client)

func WithHTTPClient(c *http.Client) Option { return func(cl *Client) { cl.http = c } }
func WithMaxRetries(n int) Option          { return func(cl *Client) { cl.maxRetries = n } }
func WithBaseDelay(d time.Duration) Option { return func(cl *Client) { cl.baseDelay = d } }
func WithMaxDelay(d time.Duration) Option  { return func(cl *Client) { cl.maxDelay = d } }
func WithHeaderParser(p HeaderParser) Option {
	return func(cl *Client) { cl.headerParser = p }
}

// New builds a Client with the given options. Defaults mirror spec.md §4.2:
// exponential backoff starting at 1s, doubling, capped at 30s, 5 retries.
func New(opts ...Option) *Client {
	c := &Client{
		http:       &http.Client{Timeout: 120 * time.Second},
		maxRetries: 5,
		baseDelay:  1 * time.Second,
		maxDelay:   30 * time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// DefaultStrategy classifies a status code into a retry strategy, matching
// the teacher's pkg/httpclient.DefaultStrategy table.
func DefaultStrategy(statusCode int) RetryStrategy {
	switch statusCode {
	case http.StatusTooManyRequests, http.StatusServiceUnavailable:
		return SmartRetry
	case http.StatusRequestTimeout, http.StatusInternalServerError,
		http.StatusBadGateway, http.StatusGatewayTimeout:
		return ConservativeRetry
	default:
		return NoRetry
	}
}

// Do executes req with retry/backoff, replaying the body on each attempt.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	var bodyBytes []byte
	if req.Body != nil {
		var err error
		bodyBytes, err = io.ReadAll(req.Body)
		if err != nil {
			return nil, fmt.Errorf("reading request body: %w", err)
		}
		req.Body.Close()
	}

	var lastResp *http.Response
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if bodyBytes != nil {
			req.Body = io.NopCloser(bytes.NewReader(bodyBytes))
		}

		resp, err := c.http.Do(req)
		if err != nil {
			lastErr = err
			if attempt >= c.maxRetries {
				break
			}
			time.Sleep(c.delay(ConservativeRetry, attempt, RateLimitInfo{}))
			continue
		}

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			return resp, nil
		}

		strategy := DefaultStrategy(resp.StatusCode)
		if strategy == NoRetry {
			return resp, nil
		}

		var info RateLimitInfo
		if c.headerParser != nil {
			info = c.headerParser(resp.Header)
		}

		lastResp = resp
		lastErr = fmt.Errorf("http %d", resp.StatusCode)
		if attempt >= c.maxRetries {
			break
		}

		delay := c.delay(strategy, attempt, info)
		slog.Debug("retrying LLM HTTP request", "status", resp.StatusCode, "delay", delay, "attempt", attempt+1)
		time.Sleep(delay)
	}

	return lastResp, fmt.Errorf("max retries (%d) exceeded: %w", c.maxRetries, lastErr)
}

func (c *Client) delay(strategy RetryStrategy, attempt int, info RateLimitInfo) time.Duration {
	switch strategy {
	case SmartRetry:
		if info.RetryAfter > 0 {
			return info.RetryAfter
		}
		if info.ResetTime > 0 {
			if d := time.Until(time.Unix(info.ResetTime, 0)); d > 0 {
				return minDuration(d, c.maxDelay)
			}
		}
		fallthrough
	default:
		delay := time.Duration(math.Pow(2, float64(attempt))) * c.baseDelay
		jitter := time.Duration(rand.Float64() * float64(delay) * 0.1)
		return minDuration(delay+jitter, c.maxDelay)
	}
}

func minDuration(a, b time.Duration) time.Duration {
	if a < b {
		return a
	}
	return b
}

// ParseOpenAIRateLimitHeaders extracts rate-limit info from OpenAI-style
// headers, grounded on the teacher's pkg/httpclient/parsers.go.
func ParseOpenAIRateLimitHeaders(h http.Header) RateLimitInfo {
	info := RateLimitInfo{}
	if ra := h.Get("Retry-After"); ra != "" {
		if d, err := time.ParseDuration(ra + "s"); err == nil {
			info.RetryAfter = d
		}
	}
	return info
}
