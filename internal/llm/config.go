package llm

import (
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix prefixes every LLM environment variable.
const EnvPrefix = "EARLYBIRD"

// Config holds all LLM provider configuration.
type Config struct {
	// Provider selects which LLM provider to use: "anthropic", "openai",
	// "gemini" or "mock". Empty disables LLM coaching.
	Provider string `envconfig:"LLM_PROVIDER"`

	Anthropic AnthropicConfig `envconfig:"ANTHROPIC"`
	OpenAI    OpenAIConfig    `envconfig:"OPENAI"`
	Gemini    GeminiConfig    `envconfig:"GEMINI"`
	Retry     RetryConfig     `envconfig:"LLM_RETRY"`

	// Timeout bounds a single request including retries.
	Timeout time.Duration `envconfig:"LLM_TIMEOUT" default:"30s"`
}

// AnthropicConfig holds Anthropic-specific configuration.
type AnthropicConfig struct {
	APIKey  string `envconfig:"API_KEY"`
	Model   string `envconfig:"MODEL" default:"claude-haiku"`
	BaseURL string `envconfig:"BASE_URL"`
}

// OpenAIConfig holds OpenAI-specific configuration.
type OpenAIConfig struct {
	APIKey string `envconfig:"API_KEY"`
	Model  string `envconfig:"MODEL" default:"gpt-4o-mini"`
	// BaseURL points at OpenRouter or any other compatible API.
	BaseURL string `envconfig:"BASE_URL"`
}

// GeminiConfig holds Gemini-specific configuration.
type GeminiConfig struct {
	APIKey string `envconfig:"API_KEY"`
	Model  string `envconfig:"MODEL" default:"gemini-flash"`
}

// RetryConfig configures retry behavior for transient failures.
type RetryConfig struct {
	Attempts uint          `envconfig:"ATTEMPTS" default:"3"`
	Delay    time.Duration `envconfig:"DELAY" default:"1s"`
	MaxDelay time.Duration `envconfig:"MAX_DELAY" default:"10s"`
}

// DefaultConfig returns a Config with sensible defaults and no provider.
func DefaultConfig() Config {
	return Config{
		Anthropic: AnthropicConfig{Model: "claude-haiku"},
		OpenAI:    OpenAIConfig{Model: "gpt-4o-mini"},
		Gemini:    GeminiConfig{Model: "gemini-flash"},
		Retry: RetryConfig{
			Attempts: 3,
			Delay:    time.Second,
			MaxDelay: 10 * time.Second,
		},
		Timeout: 30 * time.Second,
	}
}

// ConfigFromEnv reads EARLYBIRD_* variables on top of the defaults.
func ConfigFromEnv() (Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return Config{}, fmt.Errorf("read LLM environment: %w", err)
	}
	return cfg, nil
}

// Enabled reports whether a provider has been selected.
func (c Config) Enabled() bool {
	return c.Provider != ""
}

// DiscoverConfig probes standard API key env vars in priority order
// (Gemini, OpenAI, Anthropic) and returns a Config for the first
// provider whose key is found.
func DiscoverConfig() (Config, bool) {
	cfg := DefaultConfig()

	if k := os.Getenv("GEMINI_API_KEY"); k != "" {
		cfg.Provider = "gemini"
		cfg.Gemini.APIKey = k
		return cfg, true
	}
	if k := os.Getenv("OPENAI_API_KEY"); k != "" {
		cfg.Provider = "openai"
		cfg.OpenAI.APIKey = k
		return cfg, true
	}
	if k := os.Getenv("ANTHROPIC_API_KEY"); k != "" {
		cfg.Provider = "anthropic"
		cfg.Anthropic.APIKey = k
		return cfg, true
	}
	return Config{}, false
}

// Validate checks that the selected provider has its required API key set.
func (c Config) Validate() error {
	switch c.Provider {
	case "anthropic":
		if c.Anthropic.APIKey == "" {
			return fmt.Errorf("EARLYBIRD_ANTHROPIC_API_KEY is required for the anthropic provider")
		}
	case "openai":
		if c.OpenAI.APIKey == "" {
			return fmt.Errorf("EARLYBIRD_OPENAI_API_KEY is required for the openai provider")
		}
	case "gemini":
		if c.Gemini.APIKey == "" {
			return fmt.Errorf("EARLYBIRD_GEMINI_API_KEY is required for the gemini provider")
		}
	case "mock":
	default:
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
	return nil
}
