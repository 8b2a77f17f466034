package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Muhannad-Khaled/Ailigent/internal/shared/contextutil"
	"github.com/Muhannad-Khaled/Ailigent/internal/shared/response"
)

const apiKeyHeader = "X-API-Key"

// APIKeyAuth guards the API with a shared key. The comparison is
// constant-time so the key cannot be probed byte by byte.
func APIKeyAuth(apiKey string) gin.HandlerFunc {
	expected := []byte(apiKey)
	return func(c *gin.Context) {
		provided := c.GetHeader(apiKeyHeader)
		if provided == "" {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "API key is required", nil)
			c.Abort()
			return
		}

		if subtle.ConstantTimeCompare([]byte(provided), expected) != 1 {
			response.Error(c, http.StatusForbidden, "FORBIDDEN", "Invalid API key", nil)
			c.Abort()
			return
		}

		ctx := contextutil.WithClient(c.Request.Context(), "api-key")
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
