package middleware

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestClientIP(t *testing.T) {
	gin.SetMode(gin.TestMode)
	newCtx := func(remote string, headers map[string]string) *gin.Context {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest("POST", "/", nil)
		c.Request.RemoteAddr = remote
		for k, v := range headers {
			c.Request.Header.Set(k, v)
		}
		return c
	}

	assert.Equal(t, "10.0.0.1",
		clientIP(newCtx("1.2.3.4:5678", map[string]string{"X-Forwarded-For": "10.0.0.1, 10.0.0.2"})))
	assert.Equal(t, "10.0.0.3",
		clientIP(newCtx("1.2.3.4:5678", map[string]string{"X-Real-IP": "10.0.0.3"})))
	assert.Equal(t, "1.2.3.4", clientIP(newCtx("1.2.3.4:5678", nil)))
	assert.Equal(t, "1.2.3.4", clientIP(newCtx("1.2.3.4", nil)))
}
