package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("LLM_PROVIDER", "")
	t.Setenv("MKSAP_DATA_ROOT", "")
	t.Setenv("USE_HYBRID_PIPELINE", "")
	t.Setenv("MKSAP_LLM_CACHE_ENABLED", "")
	t.Setenv("MKSAP_LLM_CACHE_TTL", "")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "api", cfg.LLMProvider)
	assert.Equal(t, ".", cfg.DataRoot)
	assert.True(t, cfg.UseHybridPipeline)
	assert.True(t, cfg.CacheEnabled)
	assert.Equal(t, defaultCacheTTLSeconds, cfg.CacheTTLSeconds)
}

func TestLoad_EnvOverridesDefaults(t *testing.T) {
	t.Setenv("LLM_PROVIDER", "anthropic")
	t.Setenv("MKSAP_DATA_ROOT", "/data/questions")
	t.Setenv("ANTHROPIC_API_KEY", "test-key")
	t.Setenv("ANTHROPIC_MODEL", "claude-test")
	t.Setenv("USE_HYBRID_PIPELINE", "false")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "anthropic", cfg.LLMProvider)
	assert.Equal(t, "/data/questions", cfg.DataRoot)
	assert.Equal(t, "test-key", cfg.ProviderAPIKey)
	assert.Equal(t, "claude-test", cfg.ProviderModel)
	assert.False(t, cfg.UseHybridPipeline)
}

func TestLoad_EnvTakesPrecedenceOverYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("llm_provider: openai\ndata_root: /from/yaml\n"), 0o644))

	t.Setenv("LLM_PROVIDER", "anthropic")
	t.Setenv("MKSAP_DATA_ROOT", "")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "anthropic", cfg.LLMProvider)
	assert.Equal(t, "/from/yaml", cfg.DataRoot)
}

func TestLoad_MissingConfigFileIsNotFatal(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.NoError(t, err)
}

func TestValidate(t *testing.T) {
	assert.Error(t, (&Config{}).Validate())
	assert.Error(t, (&Config{LLMProvider: "api"}).Validate())
	assert.NoError(t, (&Config{LLMProvider: "api", DataRoot: "."}).Validate())
}

func TestFirstNonEmpty(t *testing.T) {
	assert.Equal(t, "b", firstNonEmpty("", "b", "c"))
	assert.Equal(t, "", firstNonEmpty("", ""))
}
