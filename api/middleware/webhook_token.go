package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// WebhookTokenConfig holds the configuration for webhook token checks
type WebhookTokenConfig struct {
	QueryParam string
	ValidToken string
}

// WebhookTokenMiddleware validates the shared token the relay appends to
// the webhook url. An empty configured token disables the check, which
// is the expected setup in local development.
func WebhookTokenMiddleware(config WebhookTokenConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if config.ValidToken == "" {
			c.Next()
			return
		}

		token := strings.TrimSpace(c.Query(config.QueryParam))

		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Missing webhook token",
			})
			c.Abort()
			return
		}

		if token != config.ValidToken {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid webhook token",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
