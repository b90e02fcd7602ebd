package llm

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/earlybird-app/earlybird/internal/store"
)

type constructor func(ctx context.Context, cfg Config) (Provider, error)

var constructors = map[string]constructor{
	"anthropic": func(_ context.Context, cfg Config) (Provider, error) { return NewAnthropicProvider(cfg.Anthropic) },
	"openai":    func(_ context.Context, cfg Config) (Provider, error) { return NewOpenAIProvider(cfg.OpenAI) },
	"gemini":    func(ctx context.Context, cfg Config) (Provider, error) { return NewGeminiProvider(ctx, cfg.Gemini) },
}

// NewProvider builds the configured provider. Real providers are wrapped
// so that each attempt is recorded in repo and transient failures are
// retried: caller -> retry -> logging -> provider. The mock provider is
// returned bare.
func NewProvider(ctx context.Context, cfg Config, repo store.EventRepo, logger *slog.Logger) (Provider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Provider == "mock" {
		return NewMockProvider(), nil
	}

	base, err := constructors[cfg.Provider](ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}
	return WithRetry(WithLogging(base, cfg.Provider, repo, logger), cfg.Retry, logger), nil
}
