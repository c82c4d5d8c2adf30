package ai

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/campus-helpdesk/backend/pkg/circuitbreaker"
	"github.com/campus-helpdesk/backend/pkg/config"
)

type fakeProvider struct {
	answer string
	err    error
	calls  int
}

func (p *fakeProvider) Name() string { return "fake" }

func (p *fakeProvider) Complete(ctx context.Context, systemPrompt, userMessage string) (string, error) {
	p.calls++
	return p.answer, p.err
}

func newTestAdapter(t *testing.T, provider Provider) *Adapter {
	t.Helper()

	adapter := &Adapter{
		provider:        provider,
		timeout:         5 * time.Second,
		systemPrompt:    "test prompt",
		fallbackMessage: "fallback answer",
		offTopicMessage: "off-topic answer",
	}
	if provider != nil {
		adapter.breaker = circuitbreaker.New(provider.Name(), circuitbreaker.Config{
			FailureThreshold: 5,
			SuccessThreshold: 2,
			Timeout:          30 * time.Second,
		})
	}
	return adapter
}

func TestGetResponseSuccess(t *testing.T) {
	provider := &fakeProvider{answer: "The library opens at 9 AM."}
	adapter := newTestAdapter(t, provider)

	resp := adapter.GetResponse(context.Background(), "library timings?")
	if !resp.Success {
		t.Fatal("expected success")
	}
	if resp.Answer != "The library opens at 9 AM." {
		t.Errorf("Answer = %q", resp.Answer)
	}
	if provider.calls != 1 {
		t.Errorf("provider called %d times, want exactly one attempt", provider.calls)
	}
}

func TestGetResponseErrorsCollapseToFallback(t *testing.T) {
	errs := []error{
		ErrAuth,
		ErrRateLimited,
		ErrConnection,
		ErrEmpty,
		errors.New("something else"),
	}

	for _, providerErr := range errs {
		provider := &fakeProvider{err: providerErr}
		adapter := newTestAdapter(t, provider)

		resp := adapter.GetResponse(context.Background(), "hello")
		if resp.Success {
			t.Errorf("error %v: expected failure", providerErr)
		}
		if resp.Answer != "fallback answer" {
			t.Errorf("error %v: Answer = %q, want the single fallback text", providerErr, resp.Answer)
		}
		if provider.calls != 1 {
			t.Errorf("error %v: provider called %d times, want no retries", providerErr, provider.calls)
		}
	}
}

func TestGetResponseOutOfScopeSubstituted(t *testing.T) {
	provider := &fakeProvider{answer: "You should invest in bitcoin right away."}
	adapter := newTestAdapter(t, provider)

	resp := adapter.GetResponse(context.Background(), "any advice?")
	if !resp.Success {
		t.Fatal("an out-of-scope completion still counts as success")
	}
	if resp.Answer != "off-topic answer" {
		t.Errorf("Answer = %q, want the off-topic substitute", resp.Answer)
	}
}

func TestGetResponseWithoutProvider(t *testing.T) {
	adapter := newTestAdapter(t, nil)

	resp := adapter.GetResponse(context.Background(), "hello")
	if resp.Success {
		t.Fatal("expected fallback without a provider")
	}
	if resp.Answer != "fallback answer" {
		t.Errorf("Answer = %q", resp.Answer)
	}
}

func TestErrorKind(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{ErrAuth, "auth"},
		{ErrRateLimited, "rate_limit"},
		{ErrConnection, "connection"},
		{ErrEmpty, "empty"},
		{context.DeadlineExceeded, "timeout"},
		{errors.New("boom"), "generic"},
	}

	for _, tt := range tests {
		if got := errorKind(tt.err); got != tt.want {
			t.Errorf("errorKind(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}

func TestNewProviderDispatch(t *testing.T) {
	base := config.LLMConfig{APIKey: "key", Model: "m", TimeoutSec: 5}

	for _, name := range []string{ProviderOpenAI, ProviderGemini, ProviderGroq} {
		cfg := base
		cfg.Provider = name
		provider, err := newProvider(cfg)
		if err != nil {
			t.Fatalf("newProvider(%q) error: %v", name, err)
		}
		if provider.Name() != name {
			t.Errorf("Name() = %q, want %q", provider.Name(), name)
		}
	}

	cfg := base
	cfg.Provider = "claude"
	if _, err := newProvider(cfg); err == nil {
		t.Error("expected an error for an unknown provider")
	}
}

func TestIsOutOfScope(t *testing.T) {
	if !isOutOfScope("I think you should vote for this Political Party.") {
		t.Error("expected detection regardless of case")
	}
	if isOutOfScope("The admissions office is open until 4 PM.") {
		t.Error("expected a normal answer to pass")
	}
}
