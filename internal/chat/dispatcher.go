// Package chat runs a message through the three-stage pipeline:
// guardrail filter, rule engine, AI fallback. Each stage either answers
// or hands off to the next; the AI is only ever reached by a message
// that passed the guardrails and missed the knowledge base.
package chat

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/campus-helpdesk/backend/internal/ai"
	"github.com/campus-helpdesk/backend/internal/engine"
	"github.com/campus-helpdesk/backend/internal/guardrail"
	"github.com/campus-helpdesk/backend/internal/metrics"
	"github.com/campus-helpdesk/backend/internal/storage/models"
	"github.com/campus-helpdesk/backend/pkg/logger"
)

// Response sources, in pipeline order.
const (
	SourceSystem        = "system"
	SourceGuardrail     = "guardrail"
	SourceKnowledgeBase = "knowledge_base"
	SourceAI            = "ai"
	SourceFallback      = "fallback"
)

// Reply is the answer returned to the client, tagged with the pipeline
// stage that produced it.
type Reply struct {
	Response string `json:"response"`
	Source   string `json:"source"`
}

// HistoryStore records processed messages. Recording is best effort; a
// storage failure never affects the reply.
type HistoryStore interface {
	InsertChatRecord(record *models.ChatRecord) error
}

type Dispatcher struct {
	guard        *guardrail.Filter
	engine       *engine.Engine
	adapter      *ai.Adapter
	history      HistoryStore
	emptyMessage string
}

// NewDispatcher wires the pipeline. history may be nil to disable chat
// logging.
func NewDispatcher(guard *guardrail.Filter, eng *engine.Engine, adapter *ai.Adapter, history HistoryStore, emptyMessage string) *Dispatcher {
	return &Dispatcher{
		guard:        guard,
		engine:       eng,
		adapter:      adapter,
		history:      history,
		emptyMessage: emptyMessage,
	}
}

// Dispatch processes one user message and always produces a reply.
func (d *Dispatcher) Dispatch(ctx context.Context, message string, profile *models.StudentProfile) Reply {
	start := time.Now()

	trimmed := strings.TrimSpace(message)
	if trimmed == "" {
		return Reply{Response: d.emptyMessage, Source: SourceSystem}
	}

	guardResult := d.guard.Check(trimmed)
	if !guardResult.IsSafe {
		metrics.GuardrailBlocks.WithLabelValues(guardResult.FailedCheck).Inc()
		reply := Reply{Response: guardResult.Message, Source: SourceGuardrail}
		d.record(trimmed, reply, "", 0, start)
		return reply
	}

	ruleResult := d.engine.FindAnswer(trimmed, profile)
	metrics.RuleConfidence.Observe(ruleResult.Confidence)
	if ruleResult.Found {
		reply := Reply{Response: ruleResult.Answer, Source: SourceKnowledgeBase}
		d.record(trimmed, reply, ruleResult.Intent, ruleResult.Confidence, start)
		return reply
	}

	aiResult := d.adapter.GetResponse(ctx, trimmed)
	source := SourceFallback
	if aiResult.Success {
		source = SourceAI
	}

	reply := Reply{Response: aiResult.Answer, Source: source}
	d.record(trimmed, reply, "", 0, start)
	return reply
}

func (d *Dispatcher) record(message string, reply Reply, intent string, confidence float64, start time.Time) {
	elapsed := time.Since(start)
	metrics.ChatTotal.WithLabelValues(reply.Source).Inc()
	metrics.ChatDuration.WithLabelValues(reply.Source).Observe(elapsed.Seconds())

	if d.history == nil {
		return
	}

	record := &models.ChatRecord{
		ID:         uuid.NewString(),
		Message:    message,
		Response:   reply.Response,
		Source:     reply.Source,
		Intent:     intent,
		Confidence: confidence,
		LatencyMS:  int(elapsed.Milliseconds()),
		CreatedAt:  time.Now(),
	}

	if err := d.history.InsertChatRecord(record); err != nil {
		logger.Warn("Failed to record chat", zap.Error(err))
	}
}
