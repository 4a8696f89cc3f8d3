package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/denisAlshanov/stickerGallery/internal/utils"
)

func CorrelationIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Reuse an upstream correlation ID when present
		correlationID := c.GetHeader("X-Correlation-ID")
		if correlationID == "" {
			correlationID = utils.GenerateCorrelationID()
		}

		requestID := utils.GenerateRequestID()

		c.Set("correlation_id", correlationID)
		c.Set("request_id", requestID)

		c.Header("X-Correlation-ID", correlationID)
		c.Header("X-Request-ID", requestID)

		ctx := c.Request.Context()
		ctx = utils.WithCorrelationID(ctx, correlationID)
		ctx = utils.WithRequestID(ctx, requestID)
		ctx = utils.WithComponent(ctx, "http")
		c.Request = c.Request.WithContext(ctx)

		utils.LogDebug(ctx, "Incoming request", utils.Fields{
			"method": c.Request.Method,
			"path":   c.Request.URL.Path,
			"ip":     c.ClientIP(),
		})

		c.Next()

		utils.LogInfo(ctx, "Request completed", utils.Fields{
			"method": c.Request.Method,
			"path":   c.Request.URL.Path,
			"status": c.Writer.Status(),
		})
	}
}
