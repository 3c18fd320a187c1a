package middleware

import (
	"crypto/subtle"
	"net/http"

	"stayflow/config"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const apiKeyHeader = "X-API-Key"

// APIKeyAuthMiddleware guards management endpoints with a static API key.
// Public feed serving and the health check stay outside it.
func APIKeyAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		supplied := c.GetHeader(apiKeyHeader)
		expected := config.AppConfig.APIKey
		if supplied == "" || subtle.ConstantTimeCompare([]byte(supplied), []byte(expected)) != 1 {
			zap.L().Warn("rejected request with invalid API key",
				zap.String("ip", getClientIP(c)), zap.String("path", c.FullPath()))
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Invalid or missing API Key"})
			return
		}
		c.Next()
	}
}
