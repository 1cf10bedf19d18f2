package llm

import (
	"context"
	"errors"
	"time"
)

// Client is the single entry point C3 (prompt-stage extractors) calls
// through: it consults the cache, dispatches to the selected provider with
// retry, and reports whether the call actually reached a provider (so the
// caller can maintain ProcessingResult.APICalls, which spec.md §4.2 says
// must not increment on a cache hit).
type Client struct {
	registry    *Registry
	cache       *ResponseCache
	provider    string
	model       string
	maxRetries  int
	cacheOn     bool
}

// NewClient builds a Client bound to one active provider name.
func NewClient(registry *Registry, cache *ResponseCache, providerName, model string, maxRetries int, cacheEnabled bool) *Client {
	return &Client{
		registry:   registry,
		cache:      cache,
		provider:   providerName,
		model:      model,
		maxRetries: maxRetries,
		cacheOn:    cacheEnabled,
	}
}

// Generate returns the provider's text for prompt, and whether the call was
// served from cache.
func (c *Client) Generate(ctx context.Context, prompt string, temperature float64) (text string, cacheHit bool, err error) {
	key := Fingerprint(prompt, c.provider, c.model, temperature)

	if c.cacheOn {
		if cached, ok := c.cache.Get(key); ok {
			return cached, true, nil
		}
	}

	provider, err := c.registry.Get(c.provider)
	if err != nil {
		return "", false, err
	}

	text, err = c.generateWithRetry(ctx, provider, prompt, temperature)
	if err != nil {
		return "", false, err
	}

	if c.cacheOn {
		c.cache.Set(key, text)
	}
	return text, false, nil
}

// generateWithRetry retries transient provider errors with exponential
// backoff starting at 1s, doubling, capped at 30s, per spec.md §4.2.
// Non-retryable errors (auth, limit) fail fast.
func (c *Client) generateWithRetry(ctx context.Context, provider Provider, prompt string, temperature float64) (string, error) {
	delay := 1 * time.Second
	const maxDelay = 30 * time.Second

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		text, err := provider.Generate(ctx, prompt, temperature)
		if err == nil {
			return text, nil
		}

		var limitErr *ProviderLimitError
		var authErr *ProviderAuthError
		if errors.As(err, &limitErr) || errors.As(err, &authErr) {
			return "", err
		}

		lastErr = err
		if attempt >= c.maxRetries {
			break
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
		if delay > maxDelay {
			delay = maxDelay
		}
	}
	return "", lastErr
}

// ParseJSON is a convenience forwarding to ParseJSONResponse, exposed on
// Client so callers only need to hold one handle.
func (c *Client) ParseJSON(raw string) (map[string]any, error) {
	return ParseJSONResponse(raw)
}

// CacheStats reports the current cache size, used by the `stats` CLI
// command.
func (c *Client) CacheStats() int {
	return c.cache.Len()
}
