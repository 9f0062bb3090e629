package middleware

import (
	"net/http"
	"strings"

	"hotel-backoffice/models"
	"hotel-backoffice/services"

	"github.com/gin-gonic/gin"
)

const (
	// Context keys set for downstream handlers.
	ActorUsernameKey = "actorUsername"
	ActorRoleKey     = "actorRole"
)

// Auth validates the Bearer token and places the actor in the context.
func Auth(auth *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false, "error": "authorization header is required",
			})
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false, "error": "expected: Bearer <token>",
			})
			return
		}

		claims, err := auth.Validate(strings.TrimSpace(parts[1]))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false, "error": "invalid or expired token",
			})
			return
		}

		c.Set(ActorUsernameKey, claims.Username)
		c.Set(ActorRoleKey, claims.Role)
		c.Next()
	}
}

// RequireAdmin gates administrative routes (permanent purge, capacity
// edits).
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(ActorRoleKey) != models.RoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"success": false, "error": "admin role required",
			})
			return
		}
		c.Next()
	}
}

// ActorFrom rebuilds the acting user from the request context.
func ActorFrom(c *gin.Context) services.Actor {
	return services.Actor{
		Username: c.GetString(ActorUsernameKey),
		Role:     c.GetString(ActorRoleKey),
	}
}
