package handlers

import (
	"net/http"
	"strings"

	directoryRepo "citaflow/database/repository/directory"
	"citaflow/services/intelligence"
	"citaflow/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ChatWebhookRequest is what the WhatsApp gateway posts for each
// inbound message.
type ChatWebhookRequest struct {
	Number  string `json:"number" binding:"required"`
	Message string `json:"message" binding:"required"`
}

type ChatHandler struct {
	Chat      intelligence.ChatService
	Directory directoryRepo.DirectoryRepository
}

func NewChatHandler(chat intelligence.ChatService, directory directoryRepo.DirectoryRepository) *ChatHandler {
	return &ChatHandler{Chat: chat, Directory: directory}
}

// WebhookHandler answers one inbound message. Blacklisted contacts get
// an empty 200 so the gateway stays quiet instead of retrying.
func (h *ChatHandler) WebhookHandler(c *gin.Context) {
	var req ChatWebhookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "number and message are required", err.Error())
		return
	}
	contact := strings.TrimSpace(req.Number)
	logger := utils.GetLogger().With(zap.String("contact", contact))

	blocked, err := h.Directory.IsBlacklisted(c.Request.Context(), contact)
	if err != nil {
		logger.Warn("blacklist check failed, letting message through", zap.Error(err))
	}
	if blocked {
		c.JSON(http.StatusOK, gin.H{"reply": ""})
		return
	}

	reply, err := h.Chat.Respond(c.Request.Context(), contact, req.Message)
	if err != nil {
		logger.Error("failed to process inbound message", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "failed to process message", "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"reply": reply})
}
