package handler

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const apiKeyHeader = "X-API-Key"

// APIKeyAuth rejects requests whose X-API-Key header does not match key.
// An empty key disables the check.
func APIKeyAuth(key string) gin.HandlerFunc {
	if key == "" {
		return func(c *gin.Context) { c.Next() }
	}
	want := []byte(key)
	return func(c *gin.Context) {
		provided := strings.TrimSpace(c.GetHeader(apiKeyHeader))
		if provided == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing " + apiKeyHeader + " header"})
			return
		}
		if subtle.ConstantTimeCompare([]byte(provided), want) != 1 {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "invalid API key"})
			return
		}
		c.Next()
	}
}
