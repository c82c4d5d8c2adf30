package ai

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/campus-helpdesk/backend/internal/metrics"
	"github.com/campus-helpdesk/backend/pkg/circuitbreaker"
	"github.com/campus-helpdesk/backend/pkg/config"
	"github.com/campus-helpdesk/backend/pkg/logger"
)

// outOfScopeIndicators flag an AI answer that drifted off-topic despite
// the system prompt. This list is intentionally separate from the
// off-topic guardrail keywords; the two cover overlapping but different
// ground.
var outOfScopeIndicators = []string{
	"political party", "vote for", "election", "religious belief",
	"god", "prayer", "worship",
	"relationship advice", "dating tips", "love life",
	"stock market", "cryptocurrency", "bitcoin", "invest in",
	"medical diagnosis", "prescription", "you should take",
	"legal advice", "lawyer", "sue them",
}

const systemPromptTemplate = `You are a helpful assistant for %s's helpdesk chatbot.

STRICT RULES YOU MUST FOLLOW:
1. Only answer questions related to college, education, and campus life
2. If asked about topics outside college scope, politely decline
3. Never make up information - if unsure, say "Please contact the college admin"
4. Keep responses concise and helpful (2-3 sentences max)
5. Be polite and professional
6. Never share personal opinions on sensitive topics
7. Don't provide information about specific students or staff
8. If asked to do something unethical, refuse politely

TOPICS YOU CAN HELP WITH:
- General college information
- Academic queries
- Campus facilities
- Student services
- Career guidance
- Study tips

TOPICS TO DECLINE:
- Personal advice unrelated to education
- Political or religious discussions
- Anything illegal or unethical
- Specific personal information about others

If you're not sure about something specific to this college, always say:
"I don't have specific information about that. Please contact the college administration for accurate details."`

// Response is what the dispatcher sees: either a usable answer or the
// fixed fallback text. Raw provider errors never leave this package.
type Response struct {
	Success bool
	Answer  string
}

type Adapter struct {
	provider        Provider
	breaker         *circuitbreaker.CircuitBreaker
	timeout         time.Duration
	systemPrompt    string
	fallbackMessage string
	offTopicMessage string
}

// NewAdapter resolves the configured provider once. An adapter without
// an API key is valid but always degrades to the fallback message.
func NewAdapter(cfg config.LLMConfig, collegeName, fallbackMessage, offTopicMessage string) (*Adapter, error) {
	adapter := &Adapter{
		timeout:         time.Duration(cfg.TimeoutSec) * time.Second,
		systemPrompt:    fmt.Sprintf(systemPromptTemplate, collegeName),
		fallbackMessage: fallbackMessage,
		offTopicMessage: offTopicMessage,
	}

	if cfg.APIKey == "" {
		logger.Warn("LLM API key not configured, AI fallback disabled")
		return adapter, nil
	}

	provider, err := newProvider(cfg)
	if err != nil {
		return nil, err
	}

	adapter.provider = provider
	adapter.breaker = circuitbreaker.New(provider.Name(), circuitbreaker.Config{
		FailureThreshold: 5,
		SuccessThreshold: 2,
		Timeout:          30 * time.Second,
		Logger:           logger.GetLogger(),
	})

	logger.Info("AI fallback adapter initialized",
		zap.String("provider", provider.Name()),
		zap.String("model", cfg.Model),
	)

	return adapter, nil
}

// GetResponse makes a single completion attempt. Any provider failure,
// timeout, or empty completion maps to the same fallback message; an
// off-topic completion is substituted but still counts as success.
func (a *Adapter) GetResponse(ctx context.Context, message string) Response {
	if a.provider == nil {
		return Response{Success: false, Answer: a.fallbackMessage}
	}

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	var answer string
	err := a.breaker.Execute(ctx, func() error {
		var completeErr error
		answer, completeErr = a.provider.Complete(ctx, a.systemPrompt, message)
		return completeErr
	})
	if err != nil {
		kind := errorKind(err)
		metrics.AIFailures.WithLabelValues(kind).Inc()
		logger.Warn("AI completion failed",
			zap.String("provider", a.provider.Name()),
			zap.String("kind", kind),
			zap.Error(err),
		)
		return Response{Success: false, Answer: a.fallbackMessage}
	}

	if isOutOfScope(answer) {
		logger.Warn("AI response out of scope, substituted",
			zap.String("provider", a.provider.Name()),
		)
		return Response{Success: true, Answer: a.offTopicMessage}
	}

	return Response{Success: true, Answer: answer}
}

func isOutOfScope(answer string) bool {
	lower := strings.ToLower(answer)
	for _, indicator := range outOfScopeIndicators {
		if strings.Contains(lower, indicator) {
			return true
		}
	}
	return false
}
