package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/donely-api/dto"
	"github.com/donely-api/services"
)

type stubValidator struct {
	claims map[string]*dto.TokenClaims
	err    error
}

func (v stubValidator) ValidateToken(_ context.Context, token string) (*dto.TokenClaims, error) {
	if v.err != nil {
		return nil, v.err
	}
	claims, ok := v.claims[token]
	if !ok {
		return nil, fmt.Errorf("%w: unknown token", services.ErrUnauthorized)
	}
	return claims, nil
}

func newRouter(validator TokenValidator, guards ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handlers := append([]gin.HandlerFunc{AuthMiddleware(validator)}, guards...)
	handlers = append(handlers, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"userId": c.GetString(UserIDKey), "role": c.GetString(RoleKey)})
	})
	r.GET("/protected", handlers...)
	return r
}

var testValidator = stubValidator{claims: map[string]*dto.TokenClaims{
	"admin-token":  {UserID: "u-admin", Role: "ADMIN"},
	"client-token": {UserID: "u-client", Role: "CLIENT"},
}}

func serve(r *gin.Engine, prepare func(*http.Request)) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if prepare != nil {
		prepare(req)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddlewareTokenSources(t *testing.T) {
	r := newRouter(testValidator)

	w := serve(r, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = serve(r, func(req *http.Request) {
		req.AddCookie(&http.Cookie{Name: CookieName, Value: "admin-token"})
	})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "u-admin")

	w = serve(r, func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer client-token")
	})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "u-client")

	w = serve(r, func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer forged")
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddlewareStoreFailure(t *testing.T) {
	r := newRouter(stubValidator{err: errors.New("redis down")})
	w := serve(r, func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer admin-token")
	})
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestRoleGuards(t *testing.T) {
	admin := newRouter(testValidator, AdminMiddleware())
	client := newRouter(testValidator, ClientMiddleware())
	asAdmin := func(req *http.Request) { req.Header.Set("Authorization", "Bearer admin-token") }
	asClient := func(req *http.Request) { req.Header.Set("Authorization", "Bearer client-token") }

	assert.Equal(t, http.StatusOK, serve(admin, asAdmin).Code)
	assert.Equal(t, http.StatusForbidden, serve(admin, asClient).Code)
	assert.Equal(t, http.StatusOK, serve(client, asClient).Code)
	assert.Equal(t, http.StatusForbidden, serve(client, asAdmin).Code)
}

func TestRoleGuardWithoutAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", AdminMiddleware(), func(c *gin.Context) { c.Status(http.StatusOK) })
	assert.Equal(t, http.StatusUnauthorized, serve(r, nil).Code)
}
