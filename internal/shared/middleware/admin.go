package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"adyen-checkout-backend/internal/shared/response"
)

const RoleAdmin = "admin"

// AdminMiddleware checks if user has admin role
func AdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Get role from context (set by AuthMiddleware)
		role, ok := c.Get(ContextKeyRole)
		if !ok || role != RoleAdmin {
			response.Error(c, http.StatusForbidden, "FORBIDDEN", "Access denied: admin role required")
			c.Abort()
			return
		}

		c.Next()
	}
}
