package middleware

import (
	"context"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/hussein221k/Ecommerce/internal/auth"
)

type Mid struct {
	a *auth.Keys
}

func NewMid(a *auth.Keys) (*Mid, error) {
	if a == nil {
		return nil, fmt.Errorf("auth keys are nil")
	}
	return &Mid{a: a}, nil
}

// Authentication verifies the bearer token and stores the claims in the
// request context. Requests without a valid token are rejected.
func (m *Mid) Authentication() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := m.claimsFromHeader(c)
		if err != nil {
			c.AbortWithStatusJSON(401, gin.H{"success": false, "message": "Invalid token"})
			return
		}

		ctx := context.WithValue(c.Request.Context(), auth.ClaimsKey, claims)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// OptionalAuthentication attaches claims when a valid token is present and
// lets the request through anonymously otherwise.
func (m *Mid) OptionalAuthentication() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := m.claimsFromHeader(c)
		if err == nil {
			ctx := context.WithValue(c.Request.Context(), auth.ClaimsKey, claims)
			c.Request = c.Request.WithContext(ctx)
		}
		c.Next()
	}
}

// Authorize wraps a handler and rejects callers whose role claim does not
// match any of the allowed roles. Must run after Authentication.
func (m *Mid) Authorize(next gin.HandlerFunc, roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := c.Request.Context().Value(auth.ClaimsKey).(auth.Claims)
		if !ok {
			c.AbortWithStatusJSON(401, gin.H{"success": false, "message": "Unauthorized"})
			return
		}

		for _, role := range roles {
			if claims.Role == role {
				next(c)
				return
			}
		}

		c.AbortWithStatusJSON(403, gin.H{"success": false, "message": "Access denied"})
	}
}

func (m *Mid) claimsFromHeader(c *gin.Context) (auth.Claims, error) {
	header := c.Request.Header.Get("Authorization")
	parts := strings.Split(header, " ")
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return auth.Claims{}, fmt.Errorf("expected Authorization header format: Bearer <token>")
	}
	return m.a.VerifyToken(parts[1])
}
