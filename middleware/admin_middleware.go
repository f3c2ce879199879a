package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/donely-api/models"
)

// AdminMiddleware ensures the user has the admin role.
// It must run after AuthMiddleware.
func AdminMiddleware() gin.HandlerFunc {
	return requireRole(models.RoleAdmin, "Admin privileges required")
}

// ClientMiddleware ensures the user has the client role.
// It must run after AuthMiddleware.
func ClientMiddleware() gin.HandlerFunc {
	return requireRole(models.RoleClient, "Client account required")
}

func requireRole(want models.Role, message string) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Get role from context (set by AuthMiddleware)
		role, exists := c.Get(RoleKey)
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{
				"status":  "error",
				"message": "Authentication required",
			})
			c.Abort()
			return
		}

		if roleStr, ok := role.(string); !ok || models.Role(roleStr) != want {
			c.JSON(http.StatusForbidden, gin.H{
				"status":  "error",
				"message": message,
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
