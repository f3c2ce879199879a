package middleware

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/donely-api/dto"
	"github.com/donely-api/services"
)

// CookieName is the HttpOnly cookie carrying the access token
const CookieName = "access_token"

// Context keys set by AuthMiddleware
const (
	UserIDKey = "userId"
	RoleKey   = "role"
	EmailKey  = "email"
	ClaimsKey = "claims"
)

// TokenValidator checks an access token and returns its claims
type TokenValidator interface {
	ValidateToken(ctx context.Context, token string) (*dto.TokenClaims, error)
}

// TokenFromRequest reads the access token from the cookie, falling back to a Bearer header
func TokenFromRequest(c *gin.Context) string {
	if token, err := c.Cookie(CookieName); err == nil && token != "" {
		return token
	}
	header := c.GetHeader("Authorization")
	if len(header) > 7 && strings.EqualFold(header[:7], "Bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return ""
}

// AuthMiddleware rejects requests without a valid, unrevoked access token
func AuthMiddleware(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := TokenFromRequest(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"status":  "error",
				"message": "Authentication required",
			})
			return
		}

		claims, err := validator.ValidateToken(c.Request.Context(), token)
		if err != nil {
			if !errors.Is(err, services.ErrUnauthorized) {
				// The session store is unreachable; this is not the caller's fault
				log.Printf("Error validating token: %v", err)
				c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{
					"status":  "error",
					"message": "Could not verify session",
				})
				return
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"status":  "error",
				"message": "Invalid or expired token",
				"error":   err.Error(),
			})
			return
		}

		c.Set(UserIDKey, claims.UserID)
		c.Set(RoleKey, claims.Role)
		c.Set(EmailKey, claims.Email)
		c.Set(ClaimsKey, claims)
		c.Next()
	}
}
