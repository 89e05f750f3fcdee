package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/opentracing/opentracing-go"

	"github.com/hearthside/mailroom/api/handlers"
	"github.com/hearthside/mailroom/api/middleware"
	"github.com/hearthside/mailroom/config"
	"github.com/hearthside/mailroom/internal/logger"
	"github.com/hearthside/mailroom/internal/tracing"
	"github.com/hearthside/mailroom/services"
)

// RegisterRoutes sets up all API endpoints
func RegisterRoutes(r *gin.Engine, cfg *config.Config, log logger.Logger, s *services.Services) {
	if s == nil {
		panic("Services cannot be nil")
	}

	// Add recovery middlewares
	r.Use(gin.Recovery())
	r.Use(tracing.RecoveryWithJaeger(opentracing.GlobalTracer()))

	// the relay expects 405 on anything but POST/OPTIONS
	r.HandleMethodNotAllowed = true
	r.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "Method not allowed"})
	})

	apiHandlers := handlers.InitHandlers(log, s)

	r.GET("/health", handlers.HealthCheck)

	tokenMiddleware := middleware.WebhookTokenMiddleware(middleware.WebhookTokenConfig{
		QueryParam: "token",
		ValidToken: cfg.AppConfig.WebhookToken,
	})

	webhooks := r.Group("/webhooks")
	{
		// preflights carry no token, so the check only guards POST
		webhooks.OPTIONS("/email", apiHandlers.InboundEmail.Preflight())
		webhooks.POST("/email", tokenMiddleware, apiHandlers.InboundEmail.Handle())
	}
}
