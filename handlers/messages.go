package handlers

import (
	"net/http"

	"citaflow/services/messenger"
	"citaflow/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type SendMessageRequest struct {
	Number   string `json:"number" binding:"required"`
	Message  string `json:"message" binding:"required"`
	MediaURL string `json:"urlMedia"`
}

type MessageHandler struct {
	Messenger messenger.Messenger
}

func NewMessageHandler(m messenger.Messenger) *MessageHandler {
	return &MessageHandler{Messenger: m}
}

// SendHandler pushes one message through the gateway immediately,
// bypassing the scheduled queue.
func (h *MessageHandler) SendHandler(c *gin.Context) {
	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "number and message are required", err.Error())
		return
	}
	if err := h.Messenger.Send(c.Request.Context(), req.Number, req.Message, req.MediaURL); err != nil {
		utils.GetLogger().Error("manual send failed",
			zap.String("destination", req.Number), zap.Error(err))
		utils.JSONError(c, http.StatusBadGateway, "failed to deliver message", "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "sent"})
}
