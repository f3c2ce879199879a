package v1

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/donely-api/middleware"
)

// Logout revokes the caller's token and clears the cookie
func (c *AuthController) Logout(ctx *gin.Context) {
	if token := middleware.TokenFromRequest(ctx); token != "" {
		if err := c.authService.Logout(ctx.Request.Context(), token); err != nil {
			log.Printf("Warning: failed to revoke token on logout: %v", err)
		}
	}

	// Clear the cookie by setting max-age to -1 (expired)
	ctx.SetCookie(
		middleware.CookieName,
		"",
		-1,
		"/",
		"",
		c.cookieSecure,
		true,
	)

	ctx.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Logged out successfully",
	})
}

// Session reports whether the caller is signed in. It always answers 200;
// the state field carries the outcome.
func (c *AuthController) Session(ctx *gin.Context) {
	session := c.authService.ResolveSession(ctx.Request.Context(), middleware.TokenFromRequest(ctx))
	respondOK(ctx, http.StatusOK, session)
}
