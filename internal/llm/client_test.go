package llm

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scriptedProvider struct {
	name  string
	calls int
	fn    func(call int) (string, error)
}

func (p *scriptedProvider) Name() string { return p.name }
func (p *scriptedProvider) Generate(ctx context.Context, prompt string, temperature float64) (string, error) {
	p.calls++
	return p.fn(p.calls)
}

func newClientWithProvider(t *testing.T, p Provider, cacheEnabled bool, maxRetries int) *Client {
	t.Helper()
	r := NewRegistry()
	r.Register(p.Name(), p)
	cache := NewResponseCache(time.Minute, 100)
	return NewClient(r, cache, p.Name(), "test-model", maxRetries, cacheEnabled)
}

func TestClient_Generate_Success(t *testing.T) {
	p := &scriptedProvider{name: "stub", fn: func(int) (string, error) { return "result", nil }}
	c := newClientWithProvider(t, p, true, 2)

	text, cacheHit, err := c.Generate(context.Background(), "prompt", 0.2)
	require.NoError(t, err)
	assert.Equal(t, "result", text)
	assert.False(t, cacheHit)
	assert.Equal(t, 1, p.calls)
}

func TestClient_Generate_CacheHitSkipsProvider(t *testing.T) {
	p := &scriptedProvider{name: "stub", fn: func(int) (string, error) { return "result", nil }}
	c := newClientWithProvider(t, p, true, 2)

	_, _, err := c.Generate(context.Background(), "prompt", 0.2)
	require.NoError(t, err)

	text, cacheHit, err := c.Generate(context.Background(), "prompt", 0.2)
	require.NoError(t, err)
	assert.True(t, cacheHit)
	assert.Equal(t, "result", text)
	assert.Equal(t, 1, p.calls, "second call must not reach the provider")
}

func TestClient_Generate_CacheDisabledAlwaysCallsProvider(t *testing.T) {
	p := &scriptedProvider{name: "stub", fn: func(int) (string, error) { return "result", nil }}
	c := newClientWithProvider(t, p, false, 2)

	_, _, err := c.Generate(context.Background(), "prompt", 0.2)
	require.NoError(t, err)
	_, _, err = c.Generate(context.Background(), "prompt", 0.2)
	require.NoError(t, err)

	assert.Equal(t, 2, p.calls)
}

func TestClient_Generate_RetriesTransientThenSucceeds(t *testing.T) {
	p := &scriptedProvider{name: "stub", fn: func(call int) (string, error) {
		if call < 2 {
			return "", &ProviderTransientError{Provider: "stub", Cause: errors.New("503")}
		}
		return "eventually", nil
	}}
	c := newClientWithProvider(t, p, false, 3)

	text, _, err := c.Generate(context.Background(), "prompt", 0.2)
	require.NoError(t, err)
	assert.Equal(t, "eventually", text)
	assert.Equal(t, 2, p.calls)
}

func TestClient_Generate_LimitErrorFailsFastWithoutRetry(t *testing.T) {
	p := &scriptedProvider{name: "stub", fn: func(int) (string, error) {
		return "", &ProviderLimitError{Provider: "stub", Detail: "quota exceeded"}
	}}
	c := newClientWithProvider(t, p, false, 5)

	_, _, err := c.Generate(context.Background(), "prompt", 0.2)
	require.Error(t, err)
	var limitErr *ProviderLimitError
	assert.ErrorAs(t, err, &limitErr)
	assert.Equal(t, 1, p.calls, "limit errors must not be retried")
}

func TestClient_Generate_AuthErrorFailsFastWithoutRetry(t *testing.T) {
	p := &scriptedProvider{name: "stub", fn: func(int) (string, error) {
		return "", &ProviderAuthError{Provider: "stub", Cause: errors.New("invalid key")}
	}}
	c := newClientWithProvider(t, p, false, 5)

	_, _, err := c.Generate(context.Background(), "prompt", 0.2)
	require.Error(t, err)
	var authErr *ProviderAuthError
	assert.ErrorAs(t, err, &authErr)
	assert.Equal(t, 1, p.calls)
}

func TestClient_Generate_ExhaustsRetriesOnPersistentTransientError(t *testing.T) {
	p := &scriptedProvider{name: "stub", fn: func(int) (string, error) {
		return "", &ProviderTransientError{Provider: "stub", Cause: errors.New("timeout")}
	}}
	c := newClientWithProvider(t, p, false, 1)

	_, _, err := c.Generate(context.Background(), "prompt", 0.2)
	require.Error(t, err)
	var transientErr *ProviderTransientError
	assert.ErrorAs(t, err, &transientErr)
	assert.Equal(t, 2, p.calls)
}

func TestClient_Generate_UnknownProvider(t *testing.T) {
	r := NewRegistry()
	c := NewClient(r, NewResponseCache(time.Minute, 10), "missing", "model", 1, false)

	_, _, err := c.Generate(context.Background(), "prompt", 0.2)
	assert.Error(t, err)
}

func TestClient_ParseJSON(t *testing.T) {
	c := newClientWithProvider(t, &scriptedProvider{name: "stub", fn: func(int) (string, error) { return "", nil }}, false, 0)
	out, err := c.ParseJSON(`{"a": 1}`)
	require.NoError(t, err)
	assert.Equal(t, float64(1), out["a"])
}

func TestClient_CacheStats(t *testing.T) {
	p := &scriptedProvider{name: "stub", fn: func(int) (string, error) { return "result", nil }}
	c := newClientWithProvider(t, p, true, 1)

	assert.Equal(t, 0, c.CacheStats())
	_, _, err := c.Generate(context.Background(), "prompt", 0.2)
	require.NoError(t, err)
	assert.Equal(t, 1, c.CacheStats())
}
