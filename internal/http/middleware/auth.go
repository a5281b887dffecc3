// README: Webhook auth middleware (shared-secret header from the platform).
package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Auth checks the Authorization header against the configured webhook token.
// An empty token disables the check (local development).
func Auth(token string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token != "" {
			got := c.GetHeader("Authorization")
			if subtle.ConstantTimeCompare([]byte(got), []byte(token)) != 1 {
				c.AbortWithStatus(http.StatusUnauthorized)
				return
			}
		}
		c.Next()
	}
}
