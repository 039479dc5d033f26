package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/solsticehq/solstice-api/internal/pkg/jwt"
	"github.com/solsticehq/solstice-api/internal/pkg/response"
)

const ContextKeySubject = "auth_subject"

// Auth returns a middleware that enforces owner JWT authentication.
func Auth() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := ValidateToken(extractToken(c))
		if err != nil {
			response.Unauthorized(c)
			return
		}
		c.Set(ContextKeySubject, claims.Subject)
		c.Next()
	}
}

// OptionalAuth records the owner identity when a valid token is present but
// never blocks the request. Public routes use it to widen visibility for the
// owner (draft posts in listings).
func OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims, err := ValidateToken(extractToken(c)); err == nil && claims.Subject != "" {
			c.Set(ContextKeySubject, claims.Subject)
		}
		c.Next()
	}
}

// ValidateToken validates a JWT and returns its claims.
func ValidateToken(rawToken string) (*jwt.Claims, error) {
	token := NormalizeToken(rawToken)
	if token == "" {
		return nil, errors.New("token is required")
	}
	return jwt.Parse(token)
}

// IsAuthenticated reports whether the request carries a valid owner token.
func IsAuthenticated(c *gin.Context) bool {
	v, _ := c.Get(ContextKeySubject)
	s, _ := v.(string)
	return s != ""
}

func extractToken(c *gin.Context) string {
	if auth := c.GetHeader("Authorization"); auth != "" {
		return NormalizeToken(auth)
	}
	return NormalizeToken(c.Query("token"))
}

// NormalizeToken trims spaces and strips an optional Bearer prefix.
func NormalizeToken(raw string) string {
	token := strings.TrimSpace(raw)
	if token == "" {
		return ""
	}
	if strings.HasPrefix(strings.ToLower(token), "bearer ") {
		return strings.TrimSpace(token[7:])
	}
	return token
}
