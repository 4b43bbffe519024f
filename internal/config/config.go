// Package config loads service configuration from the environment, with an
// optional YAML file overlay pointed at by TRUSTGATE_CONFIG. Environment
// variables win over file values, which win over built-in defaults.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config carries every tunable of the service.
type Config struct {
	Port string `yaml:"port"`

	// Generation oracle.
	GenProvider string  `yaml:"gen_provider"` // ollama|anthropic|openai|google
	GenModel    string  `yaml:"gen_model"`
	Temperature float64 `yaml:"temperature"`
	MaxTokens   int     `yaml:"max_tokens"`

	// Embedding capability.
	EmbedProvider string `yaml:"embed_provider"` // ollama|openai
	EmbedModel    string `yaml:"embed_model"`

	// Similarity index.
	IndexEndpoint string `yaml:"index_endpoint"`
	IndexAPIKey   string `yaml:"index_api_key"`

	// Request signing. Empty secret disables the middleware.
	ServiceKey    string `yaml:"service_key"`
	SigningSecret string `yaml:"signing_secret"`

	// Adapter response cache.
	CacheCapacity int    `yaml:"cache_capacity"`
	CachePolicy   string `yaml:"cache_policy"` // fifo|lru

	// Cross-check prompt profile.
	Profile string `yaml:"profile"`

	WebOrigin string `yaml:"web_origin"`
	LogLevel  string `yaml:"log_level"`
}

// defaults returns the built-in configuration.
func defaults() Config {
	return Config{
		Port:          "8090",
		GenProvider:   "ollama",
		GenModel:      "llama3.1:8b",
		Temperature:   0.2,
		MaxTokens:     1024,
		EmbedProvider: "ollama",
		EmbedModel:    "nomic-embed-text",
		CacheCapacity: 1024,
		CachePolicy:   "fifo",
		Profile:       "general",
		WebOrigin:     "http://localhost:3000",
		LogLevel:      "info",
	}
}

// Load assembles the configuration. A missing TRUSTGATE_CONFIG file is an
// error; an unset TRUSTGATE_CONFIG is not.
func Load() (Config, error) {
	cfg := defaults()

	if path := os.Getenv("TRUSTGATE_CONFIG"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	applyEnv(&cfg)
	return cfg, nil
}

// applyEnv overrides cfg fields from the environment.
func applyEnv(cfg *Config) {
	setenv(&cfg.Port, "PORT")
	setenv(&cfg.GenProvider, "GEN_PROVIDER")
	setenv(&cfg.GenModel, "GEN_MODEL")
	setenv(&cfg.EmbedProvider, "EMBED_PROVIDER")
	setenv(&cfg.EmbedModel, "EMBED_MODEL")
	setenv(&cfg.IndexEndpoint, "INDEX_ENDPOINT")
	setenv(&cfg.IndexAPIKey, "INDEX_API_KEY")
	setenv(&cfg.ServiceKey, "RAG_SERVICE_KEY")
	setenv(&cfg.SigningSecret, "API_SIGNING_SECRET")
	setenv(&cfg.CachePolicy, "CACHE_POLICY")
	setenv(&cfg.Profile, "VERIFY_PROFILE")
	setenv(&cfg.WebOrigin, "PUBLIC_WEB_ORIGIN")
	setenv(&cfg.LogLevel, "LOG_LEVEL")

	if v := os.Getenv("CACHE_CAPACITY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.CacheCapacity = n
		}
	}
	if v := os.Getenv("GEN_TEMPERATURE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Temperature = f
		}
	}
	if v := os.Getenv("GEN_MAX_TOKENS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.MaxTokens = n
		}
	}
}

func setenv(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}
