package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/campus-helpdesk/backend/internal/chat"
	"github.com/campus-helpdesk/backend/internal/metrics"
	"github.com/campus-helpdesk/backend/internal/storage/models"
	"github.com/campus-helpdesk/backend/internal/storage/sqlite"
	"github.com/campus-helpdesk/backend/pkg/logger"
)

type ChatHandler struct {
	dispatcher *chat.Dispatcher
	store      *sqlite.Client
}

func NewChatHandler(dispatcher *chat.Dispatcher, store *sqlite.Client) *ChatHandler {
	return &ChatHandler{
		dispatcher: dispatcher,
		store:      store,
	}
}

func (h *ChatHandler) HandleChat(c *fiber.Ctx) error {
	var req struct {
		Message string                 `json:"message"`
		Profile *models.StudentProfile `json:"profile"`
	}

	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse chat request", zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	reply := h.dispatcher.Dispatch(c.Context(), req.Message, req.Profile)

	return c.JSON(reply)
}

func (h *ChatHandler) GetChatHistory(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 50)
	if limit <= 0 || limit > 500 {
		limit = 50
	}

	records, err := h.store.GetChatHistory(limit)
	if err != nil {
		logger.Error("Failed to load chat history", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load chat history",
		})
	}

	history := make([]fiber.Map, 0, len(records))
	for _, r := range records {
		history = append(history, fiber.Map{
			"id":         r.ID,
			"message":    r.Message,
			"response":   r.Response,
			"source":     r.Source,
			"intent":     r.Intent,
			"confidence": r.Confidence,
			"latency_ms": r.LatencyMS,
			"created_at": r.CreatedAt.Unix(),
		})
	}

	return c.JSON(fiber.Map{
		"history": history,
	})
}

func (h *ChatHandler) SubmitFeedback(c *fiber.Ctx) error {
	var req struct {
		ChatID  string `json:"chat_id"`
		Helpful bool   `json:"helpful"`
		Comment string `json:"comment"`
	}

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if req.ChatID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "chat_id is required",
		})
	}

	err := h.store.StoreFeedback(&models.Feedback{
		ChatID:  req.ChatID,
		Helpful: req.Helpful,
		Comment: req.Comment,
	})
	if err != nil {
		logger.Error("Failed to store feedback", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to store feedback",
		})
	}

	metrics.FeedbackTotal.WithLabelValues(strconv.FormatBool(req.Helpful)).Inc()

	return c.JSON(fiber.Map{
		"success": true,
	})
}
