// Package config loads process configuration from the environment.
// Read-only after startup; nothing else in the process mutates it.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds all process-wide settings.
type Config struct {
	Addr  string `env:"NOVA_ADDR" envDefault:":8080"`
	Debug bool   `env:"NOVA_DEBUG"`

	// Provider selects the generation backend: openai, anthropic, ollama.
	Provider string `env:"NOVA_LLM_PROVIDER" envDefault:"openai"`

	OpenAIAPIKey  string `env:"NOVA_OPENAI_API_KEY"`
	OpenAIModel   string `env:"NOVA_OPENAI_MODEL" envDefault:"llama-3.1-8b-instant"`
	OpenAIBaseURL string `env:"NOVA_OPENAI_BASE_URL" envDefault:"https://api.groq.com/openai/v1"`

	AnthropicAPIKey string `env:"NOVA_ANTHROPIC_API_KEY"`
	AnthropicModel  string `env:"NOVA_ANTHROPIC_MODEL" envDefault:"claude-3-5-haiku-latest"`

	OllamaBaseURL string `env:"NOVA_OLLAMA_BASE_URL" envDefault:"http://localhost:11434"`
	OllamaModel   string `env:"NOVA_OLLAMA_MODEL" envDefault:"llama3.2"`

	DefaultTopK int `env:"NOVA_DEFAULT_TOP_K" envDefault:"5"`

	// SearchCachePath enables the SQLite retrieval cache when set.
	SearchCachePath string        `env:"NOVA_SEARCH_CACHE_PATH"`
	SearchCacheTTL  time.Duration `env:"NOVA_SEARCH_CACHE_TTL" envDefault:"5m"`

	// PromptsDir enables file-backed system prompt overrides when set.
	PromptsDir string `env:"NOVA_PROMPTS_DIR"`
}

// Load parses configuration from the environment.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Provider {
	case "openai":
		if c.OpenAIAPIKey == "" {
			return fmt.Errorf("NOVA_OPENAI_API_KEY is required for provider %q", c.Provider)
		}
	case "anthropic":
		if c.AnthropicAPIKey == "" {
			return fmt.Errorf("NOVA_ANTHROPIC_API_KEY is required for provider %q", c.Provider)
		}
	case "ollama":
		// Local runtime, no credentials.
	default:
		return fmt.Errorf("unknown LLM provider %q", c.Provider)
	}
	if c.DefaultTopK < 1 || c.DefaultTopK > 20 {
		return fmt.Errorf("NOVA_DEFAULT_TOP_K must be between 1 and 20, got %d", c.DefaultTopK)
	}
	return nil
}
