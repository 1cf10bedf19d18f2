package llm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubProvider struct{ name string }

func (s *stubProvider) Name() string { return s.name }
func (s *stubProvider) Generate(ctx context.Context, prompt string, temperature float64) (string, error) {
	return "stub:" + prompt, nil
}

func TestRegistry_RegisterAndGet(t *testing.T) {
	r := NewRegistry()
	r.Register("anthropic", &stubProvider{name: "anthropic"})

	p, err := r.Get("anthropic")
	require.NoError(t, err)
	assert.Equal(t, "anthropic", p.Name())
}

func TestRegistry_GetUnknown(t *testing.T) {
	r := NewRegistry()
	_, err := r.Get("nonexistent")
	assert.Error(t, err)
}

func TestRegistry_ReRegisterReplaces(t *testing.T) {
	r := NewRegistry()
	r.Register("p", &stubProvider{name: "v1"})
	r.Register("p", &stubProvider{name: "v2"})

	p, err := r.Get("p")
	require.NoError(t, err)
	assert.Equal(t, "v2", p.Name())
}

func TestRegistry_Names(t *testing.T) {
	r := NewRegistry()
	r.Register("a", &stubProvider{name: "a"})
	r.Register("b", &stubProvider{name: "b"})

	assert.ElementsMatch(t, []string{"a", "b"}, r.Names())
}
