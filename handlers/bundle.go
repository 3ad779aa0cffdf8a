package handlers

import (
	"github.com/gin-gonic/gin"
)

// HandlerBundle groups all endpoint handlers into one struct.
type HandlerBundle struct {
	// Inbound conversation webhook.
	ChatWebhookHandler gin.HandlerFunc

	// Manual outbound send.
	SendMessageHandler gin.HandlerFunc

	// Admin endpoints.
	DispatcherStatusHandler gin.HandlerFunc
	RunDispatcherHandler    gin.HandlerFunc
	AppointmentsHandler     gin.HandlerFunc
	BlacklistHandler        gin.HandlerFunc
}
