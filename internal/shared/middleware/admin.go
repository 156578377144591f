package middleware

import (
	"github.com/gin-gonic/gin"

	userModel "cinema-backend/internal/domains/user/model"
	"cinema-backend/internal/shared/response"
)

// AdminMiddleware requires a staff role (admin or moderator) set by
// AuthMiddleware.
func AdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		roleInterface, exists := c.Get("role")
		if !exists {
			response.Forbidden(c, "Access denied: staff role required")
			c.Abort()
			return
		}

		role, ok := roleInterface.(string)
		if !ok || !userModel.IsPrivileged(role) {
			response.Forbidden(c, "Access denied: staff role required")
			c.Abort()
			return
		}

		c.Next()
	}
}
