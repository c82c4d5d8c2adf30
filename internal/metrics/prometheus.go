package metrics

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	ChatDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "helpdesk_chat_duration_seconds",
			Help:    "Chat message processing duration in seconds",
			Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 10},
		},
		[]string{"source"},
	)

	ChatTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "helpdesk_chat_total",
			Help: "Total number of chat messages processed",
		},
		[]string{"source"},
	)

	GuardrailBlocks = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "helpdesk_guardrail_blocks_total",
			Help: "Messages blocked by the guardrail filter",
		},
		[]string{"check"},
	)

	RuleConfidence = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "helpdesk_rule_confidence_score",
			Help:    "Rule engine confidence scores",
			Buckets: []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 1.0},
		},
	)

	AIFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "helpdesk_ai_failures_total",
			Help: "AI provider failures by error kind",
		},
		[]string{"kind"},
	)

	AdminLogins = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "helpdesk_admin_logins_total",
			Help: "Admin login attempts by outcome",
		},
		[]string{"outcome"},
	)

	FeedbackTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "helpdesk_feedback_total",
			Help: "User feedback by helpfulness",
		},
		[]string{"helpful"},
	)
)

func Init() {
	prometheus.MustRegister(ChatDuration)
	prometheus.MustRegister(ChatTotal)
	prometheus.MustRegister(GuardrailBlocks)
	prometheus.MustRegister(RuleConfidence)
	prometheus.MustRegister(AIFailures)
	prometheus.MustRegister(AdminLogins)
	prometheus.MustRegister(FeedbackTotal)
}

func MetricsHandler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.Handler())
}
