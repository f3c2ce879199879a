package v1

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/donely-api/dto"
	"github.com/donely-api/middleware"
	"github.com/donely-api/services"
)

// AuthController handles login, session and password endpoints
type AuthController struct {
	authService  *services.AuthService
	cookieTTL    time.Duration
	cookieSecure bool
}

// NewAuthController creates a new auth controller
func NewAuthController(authService *services.AuthService, cookieTTL time.Duration, cookieSecure bool) *AuthController {
	return &AuthController{
		authService:  authService,
		cookieTTL:    cookieTTL,
		cookieSecure: cookieSecure,
	}
}

// RegisterRoutes registers auth routes
func (c *AuthController) RegisterRoutes(router *gin.RouterGroup) {
	auth := router.Group("/auth")
	{
		auth.POST("/login", c.Login)
		auth.POST("/logout", c.Logout)
		auth.GET("/session", c.Session)
		auth.POST("/password/reset", c.RequestPasswordReset)
		auth.POST("/password/reset/confirm", c.ConfirmPasswordReset)
	}

	authenticated := auth.Group("")
	authenticated.Use(middleware.AuthMiddleware(c.authService))
	{
		authenticated.GET("/me", c.GetCurrentUser)
		authenticated.POST("/password", c.ChangePassword)
	}
}

// Login handles user authentication
func (c *AuthController) Login(ctx *gin.Context) {
	var req dto.LoginRequest
	if !bindJSON(ctx, &req) {
		return
	}

	authResponse, err := c.authService.Login(ctx.Request.Context(), req)
	if err != nil {
		respondError(ctx, "Authentication failed", err)
		return
	}

	// Set token as HttpOnly cookie
	ctx.SetSameSite(http.SameSiteLaxMode)
	ctx.SetCookie(
		middleware.CookieName,
		authResponse.Token,
		int(c.cookieTTL.Seconds()),
		"/",
		"",
		c.cookieSecure,
		true,
	)

	// Also return token in response body for clients that prefer Bearer auth
	respondOK(ctx, http.StatusOK, authResponse)
}

// GetCurrentUser returns the currently authenticated user's profile
func (c *AuthController) GetCurrentUser(ctx *gin.Context) {
	user, err := c.authService.GetProfile(ctx.Request.Context(), ctx.GetString(middleware.UserIDKey))
	if err != nil {
		respondError(ctx, "Failed to retrieve user profile", err)
		return
	}
	respondOK(ctx, http.StatusOK, user)
}

// ChangePassword updates the caller's password, falling back to a reset email
func (c *AuthController) ChangePassword(ctx *gin.Context) {
	var req dto.ChangePasswordRequest
	if !bindJSON(ctx, &req) {
		return
	}

	resetSent, err := c.authService.ChangePassword(ctx.Request.Context(), ctx.GetString(middleware.UserIDKey), req)
	if err != nil {
		respondError(ctx, "Failed to change password", err)
		return
	}

	if resetSent {
		ctx.JSON(http.StatusAccepted, gin.H{
			"status":  "success",
			"message": "Password could not be changed directly, a reset link was sent to your email",
			"data":    gin.H{"resetSent": true},
		})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Password changed successfully",
		"data":    gin.H{"resetSent": false},
	})
}

// RequestPasswordReset always answers success so emails cannot be probed
func (c *AuthController) RequestPasswordReset(ctx *gin.Context) {
	var req dto.PasswordResetRequest
	if !bindJSON(ctx, &req) {
		return
	}

	c.authService.RequestPasswordReset(ctx.Request.Context(), req.Email)
	ctx.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "If the address belongs to an account, a reset link is on its way",
	})
}

// ConfirmPasswordReset sets a new password from a reset token
func (c *AuthController) ConfirmPasswordReset(ctx *gin.Context) {
	var req dto.PasswordResetConfirmRequest
	if !bindJSON(ctx, &req) {
		return
	}

	if err := c.authService.ConfirmPasswordReset(ctx.Request.Context(), req); err != nil {
		respondError(ctx, "Failed to reset password", err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Password has been reset",
	})
}
