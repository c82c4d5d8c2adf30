// Package ai wraps the external text-completion providers behind a
// single adapter. The rest of the system only ever sees success with an
// answer, or failure with the fixed fallback text.
package ai

import (
	"context"
	"errors"
	"fmt"

	"github.com/campus-helpdesk/backend/pkg/config"
)

// Provider error kinds. The adapter collapses all of them into the same
// user-facing fallback message; they exist for logging and metrics only.
var (
	ErrAuth        = errors.New("provider authentication failed")
	ErrRateLimited = errors.New("provider rate limit exceeded")
	ErrConnection  = errors.New("provider connection failed")
	ErrEmpty       = errors.New("provider returned empty completion")
)

// Provider is one configured text-completion backend.
type Provider interface {
	Name() string
	Complete(ctx context.Context, systemPrompt, userMessage string) (string, error)
}

// Providers recognized in configuration. The choice is resolved once at
// startup, not per call.
const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
	ProviderGroq   = "groq"
)

// Groq exposes an OpenAI-compatible API.
const groqBaseURL = "https://api.groq.com/openai/v1"

func newProvider(cfg config.LLMConfig) (Provider, error) {
	switch cfg.Provider {
	case ProviderOpenAI:
		return newOpenAIProvider(cfg, ProviderOpenAI, cfg.BaseURL), nil
	case ProviderGroq:
		baseURL := cfg.BaseURL
		if baseURL == "" {
			baseURL = groqBaseURL
		}
		return newOpenAIProvider(cfg, ProviderGroq, baseURL), nil
	case ProviderGemini:
		return newGeminiProvider(cfg), nil
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}
}

// errorKind labels a provider error for logs and metrics.
func errorKind(err error) string {
	switch {
	case errors.Is(err, ErrAuth):
		return "auth"
	case errors.Is(err, ErrRateLimited):
		return "rate_limit"
	case errors.Is(err, ErrConnection):
		return "connection"
	case errors.Is(err, ErrEmpty):
		return "empty"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	default:
		return "generic"
	}
}
