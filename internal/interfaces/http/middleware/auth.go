package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/marketplace/backend/internal/infrastructure/auth"
	"github.com/marketplace/backend/internal/infrastructure/logger"
	"github.com/marketplace/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// Context keys for authentication data
const (
	ClaimsKey = "claims"
	UserIDKey = "user_id"
)

// Accepted Authorization header schemes
var authSchemes = []string{"Bearer ", "Token "}

// LoginRequiredMessage is returned to anonymous callers of protected routes
const LoginRequiredMessage = "Log in required"

// TokenValidator checks access tokens
type TokenValidator interface {
	ValidateToken(tokenString string) (*auth.Claims, error)
}

// Authenticate resolves the caller from the Authorization header. Requests
// without a valid token pass through anonymously; RequireAuth rejects them
// where a login is needed.
func Authenticate(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c.GetHeader("Authorization"))
		if token == "" {
			c.Next()
			return
		}

		claims, err := validator.ValidateToken(token)
		if err != nil {
			logger.GetGinLogger(c).Debug("Rejected access token", zap.Error(err))
			c.Next()
			return
		}

		c.Set(ClaimsKey, claims)
		c.Set(UserIDKey, claims.UserID)

		ctx, reqLogger := logger.WithUserID(c.Request.Context(), logger.GetGinLogger(c), claims.UserID)
		c.Request = c.Request.WithContext(ctx)
		c.Set(logger.GinLoggerKey, reqLogger)

		c.Next()
	}
}

// RequireAuth rejects anonymous requests
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := GetClaims(c); !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, dto.Fail(LoginRequiredMessage))
			return
		}
		c.Next()
	}
}

// RequireShop rejects callers that are not partner accounts
func RequireShop() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := GetClaims(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, dto.Fail(LoginRequiredMessage))
			return
		}
		if !claims.IsShop() {
			c.AbortWithStatusJSON(http.StatusForbidden, dto.Fail("Только для магазинов"))
			return
		}
		c.Next()
	}
}

// GetClaims returns the claims of the authenticated caller
func GetClaims(c *gin.Context) (*auth.Claims, bool) {
	v, exists := c.Get(ClaimsKey)
	if !exists {
		return nil, false
	}
	claims, ok := v.(*auth.Claims)
	return claims, ok && claims != nil
}

// GetUserID returns the authenticated user id, or 0
func GetUserID(c *gin.Context) uint64 {
	if claims, ok := GetClaims(c); ok {
		return claims.UserID
	}
	return 0
}

func extractToken(header string) string {
	for _, scheme := range authSchemes {
		if len(header) > len(scheme) && strings.EqualFold(header[:len(scheme)], scheme) {
			return strings.TrimSpace(header[len(scheme):])
		}
	}
	return ""
}
