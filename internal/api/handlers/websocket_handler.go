package handlers

import (
	"context"

	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"

	"github.com/campus-helpdesk/backend/internal/chat"
	"github.com/campus-helpdesk/backend/internal/storage/models"
	"github.com/campus-helpdesk/backend/pkg/logger"
)

type WebSocketHandler struct {
	dispatcher *chat.Dispatcher
}

func NewWebSocketHandler(dispatcher *chat.Dispatcher) *WebSocketHandler {
	return &WebSocketHandler{
		dispatcher: dispatcher,
	}
}

func (h *WebSocketHandler) HandleConnection(c *websocket.Conn) {
	logger.Info("WebSocket connection established")

	defer func() {
		c.Close()
		logger.Info("WebSocket connection closed")
	}()

	for {
		var msg struct {
			Type    string                 `json:"type"`
			Message string                 `json:"message"`
			Profile *models.StudentProfile `json:"profile"`
		}

		err := c.ReadJSON(&msg)
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logger.Warn("Failed to read WebSocket message", zap.Error(err))
			}
			break
		}

		if msg.Type != "chat" {
			continue
		}

		if err := h.streamReply(c, msg.Message, msg.Profile); err != nil {
			logger.Error("Failed to stream reply", zap.Error(err))
			h.sendError(c, "Failed to process message")
		}
	}
}

// streamReply runs the pipeline, then plays the answer back word by
// word so the frontend can render it as it arrives.
func (h *WebSocketHandler) streamReply(c *websocket.Conn, message string, profile *models.StudentProfile) error {
	reply := h.dispatcher.Dispatch(context.Background(), message, profile)

	words := splitIntoWords(reply.Response)
	for i, word := range words {
		chunk := word
		if i < len(words)-1 && word != "\n" {
			chunk += " "
		}

		if err := h.sendChunk(c, chunk); err != nil {
			return err
		}
	}

	return c.WriteJSON(map[string]interface{}{
		"type":   "complete",
		"source": reply.Source,
	})
}

func (h *WebSocketHandler) sendChunk(c *websocket.Conn, content string) error {
	return c.WriteJSON(map[string]interface{}{
		"type":    "chunk",
		"content": content,
	})
}

func (h *WebSocketHandler) sendError(c *websocket.Conn, errorMsg string) {
	c.WriteJSON(map[string]interface{}{
		"type":  "error",
		"error": errorMsg,
	})
}

// splitIntoWords keeps newlines as their own chunks so paragraph breaks
// survive streaming.
func splitIntoWords(text string) []string {
	words := []string{}
	current := ""

	for _, r := range text {
		switch r {
		case ' ', '\n':
			if current != "" {
				words = append(words, current)
				current = ""
			}
			if r == '\n' {
				words = append(words, "\n")
			}
		default:
			current += string(r)
		}
	}

	if current != "" {
		words = append(words, current)
	}

	return words
}
