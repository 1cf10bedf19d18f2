// Package config loads the environment-variable configuration surface from
// spec.md §6, with an optional on-disk YAML overlay.
//
// Grounded on the teacher's pkg/config: env.go's use of github.com/joho/
// godotenv for .env loading, and koanf_loader.go's use of
// github.com/knadh/koanf/v2 for file-backed overlays. Environment variables
// always take precedence over the YAML overlay, matching the teacher's
// layered-config precedence (env > file > defaults).
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config is the resolved runtime configuration.
type Config struct {
	LLMProvider       string
	ProviderAPIKey    string
	ProviderModel     string
	NLPModelPath      string
	UseHybridPipeline bool
	CacheEnabled      bool
	CacheTTLSeconds   int
	DataRoot          string
}

const (
	defaultCacheTTLSeconds = 3600
)

// Load resolves configuration from (in increasing precedence): built-in
// defaults, an optional YAML file at configPath, a .env file in the working
// directory, and the process environment.
func Load(configPath string) (*Config, error) {
	// godotenv.Load is a no-op (and non-fatal) when .env is absent, mirroring
	// the teacher's env.go behavior of treating missing .env as normal.
	_ = godotenv.Load()

	k := koanf.New(".")
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("loading config file %s: %w", configPath, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("stat config file %s: %w", configPath, err)
		}
	}

	cfg := &Config{
		LLMProvider:       firstNonEmpty(os.Getenv("LLM_PROVIDER"), k.String("llm_provider"), "api"),
		NLPModelPath:      firstNonEmpty(os.Getenv("MKSAP_NLP_MODEL"), k.String("nlp_model")),
		DataRoot:          firstNonEmpty(os.Getenv("MKSAP_DATA_ROOT"), k.String("data_root"), "."),
		UseHybridPipeline: parseBoolEnv("USE_HYBRID_PIPELINE", k, "use_hybrid_pipeline", true),
		CacheEnabled:      parseBoolEnv("MKSAP_LLM_CACHE_ENABLED", k, "llm_cache_enabled", true),
		CacheTTLSeconds:   parseIntEnv("MKSAP_LLM_CACHE_TTL", k, "llm_cache_ttl", defaultCacheTTLSeconds),
	}

	providerUpper := strings.ToUpper(cfg.LLMProvider)
	cfg.ProviderAPIKey = os.Getenv(providerUpper + "_API_KEY")
	cfg.ProviderModel = firstNonEmpty(os.Getenv(providerUpper+"_MODEL"), k.String("provider_model"))

	return cfg, nil
}

// Validate checks that the configuration is usable, returning a
// configuration-kind error per spec.md §7 when it is not.
func (c *Config) Validate() error {
	if c.LLMProvider == "" {
		return fmt.Errorf("config: LLM_PROVIDER must be set")
	}
	if c.DataRoot == "" {
		return fmt.Errorf("config: MKSAP_DATA_ROOT must be set")
	}
	return nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

func parseBoolEnv(envName string, k *koanf.Koanf, koanfKey string, def bool) bool {
	if v, ok := os.LookupEnv(envName); ok {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	if k.Exists(koanfKey) {
		return k.Bool(koanfKey)
	}
	return def
}

func parseIntEnv(envName string, k *koanf.Koanf, koanfKey string, def int) int {
	if v, ok := os.LookupEnv(envName); ok {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	if k.Exists(koanfKey) {
		return k.Int(koanfKey)
	}
	return def
}
