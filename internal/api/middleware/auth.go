package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/denisAlshanov/stickerGallery/internal/services/auth"
	"github.com/denisAlshanov/stickerGallery/internal/utils"
)

// AdminAuthMiddleware requires an HS256 bearer token with the admin scope.
// Without a configured secret every request is rejected.
func AdminAuthMiddleware(jwtService *auth.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		if !jwtService.Enabled() {
			abortUnauthorized(c, "Admin API is disabled")
			return
		}

		token := jwtService.ExtractTokenFromBearer(c.GetHeader("Authorization"))
		if token == "" {
			abortUnauthorized(c, "Authorization token required")
			return
		}

		claims, err := jwtService.ValidateAdminToken(token)
		if err != nil {
			utils.LogWarn(ctx, "Rejected admin token", utils.Fields{"reason": err.Error()})
			abortUnauthorized(c, "Invalid or expired token")
			return
		}

		c.Set("admin_subject", claims.Subject)
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, details string) {
	appErr := utils.NewUnauthorizedError()
	appErr.Details = map[string]interface{}{"reason": details}

	c.JSON(http.StatusUnauthorized, gin.H{
		"error":      appErr,
		"request_id": c.GetString("request_id"),
		"timestamp":  time.Now().Format(time.RFC3339),
	})
	c.Abort()
}
