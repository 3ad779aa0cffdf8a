package middleware

import (
	"net/http"
	"strings"

	"citaflow/config"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// APITokenMiddleware guards operator endpoints with a static bearer
// token. An empty configured token disables the check so local
// development needs no secret.
func APITokenMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		expected := config.AppConfig.AdminAPIToken
		if expected == "" {
			c.Next()
			return
		}
		header := c.GetHeader("Authorization")
		token := strings.TrimPrefix(header, "Bearer ")
		if token == "" || token != expected {
			zap.L().Warn("rejected request with bad API token", zap.String("ip", clientIP(c)))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid API token"})
			return
		}
		c.Next()
	}
}
