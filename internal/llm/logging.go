package llm

import (
	"context"
	"log/slog"
	"time"

	"github.com/earlybird-app/earlybird/internal/store"
)

// loggingProvider records every request, successful or not, in the
// request log and at debug level.
type loggingProvider struct {
	inner    Provider
	provider string
	repo     store.EventRepo
	logger   *slog.Logger
}

// WithLogging wraps p so each request lands in repo. name is the
// provider family ("anthropic", "openai", ...). repo may be nil.
func WithLogging(p Provider, name string, repo store.EventRepo, logger *slog.Logger) Provider {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &loggingProvider{inner: p, provider: name, repo: repo, logger: logger}
}

func (l *loggingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	tag := TagFrom(ctx)
	start := time.Now()
	resp, err := l.inner.Generate(ctx, req)

	data := store.LLMRequestEventData{
		Provider:  l.provider,
		Model:     l.inner.ModelID(),
		Purpose:   tag.Purpose,
		SessionID: tag.SessionID,
		LatencyMs: time.Since(start).Milliseconds(),
		Success:   err == nil,
	}
	if resp != nil {
		data.Model = resp.Model
		data.InputTokens = resp.Usage.InputTokens
		data.OutputTokens = resp.Usage.OutputTokens
	}
	if err != nil {
		data.ErrorMessage = err.Error()
	}

	l.logger.Debug("llm request",
		"purpose", data.Purpose,
		"session_id", data.SessionID,
		"model", data.Model,
		"latency_ms", data.LatencyMs,
		"input_tokens", data.InputTokens,
		"output_tokens", data.OutputTokens,
		"success", data.Success,
	)

	if l.repo != nil {
		// The caller's deadline may already be spent; the record still matters.
		recCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
		defer cancel()
		if logErr := l.repo.AppendLLMRequest(recCtx, data); logErr != nil {
			l.logger.Warn("record llm request", "error", logErr)
		}
	}
	return resp, err
}

func (l *loggingProvider) ModelID() string {
	return l.inner.ModelID()
}
