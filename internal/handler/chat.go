// internal/handler/chat.go
package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "phone-assistant/internal/common/errors"
	"phone-assistant/internal/common/logger"
	"phone-assistant/internal/service"
)

// ChatRequest is the POST /api/chat body.
type ChatRequest struct {
	Message        string `json:"message"`
	ContextPhoneID string `json:"context_phone_id,omitempty"`
}

// ChatHandler handles chat-related HTTP requests.
type ChatHandler struct {
	chatService *service.ChatService
	logger      logger.Logger
}

func NewChatHandler(chatService *service.ChatService, log logger.Logger) *ChatHandler {
	return &ChatHandler{
		chatService: chatService,
		logger:      log.WithFields(map[string]interface{}{"component": "chat-handler"}),
	}
}

// Chat handles POST /api/chat. An empty message is rejected before any
// pipeline stage runs.
func (h *ChatHandler) Chat(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	resp, err := h.chatService.Chat(c.Request.Context(), req.Message)
	if err != nil {
		var stdErr *apperrors.StandardError
		if errors.As(err, &stdErr) {
			c.JSON(apperrors.HTTPStatus(stdErr.Code), gin.H{"error": stdErr.Message, "code": stdErr.Code})
			return
		}
		h.logger.Error("chat turn failed", map[string]interface{}{"error": err.Error()})
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Chat failed"})
		return
	}

	c.JSON(http.StatusOK, resp)
}
