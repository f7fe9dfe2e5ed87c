// Package middleware gates protected routes on token verification.
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/devdesk/backend/auth"
)

// Context keys set by RequireAuth for downstream handlers.
const (
	ContextUserID   = "userID"
	ContextUsername = "username"
)

// RequireAuth verifies the bearer token before any protected handler runs.
// The Authorization header carries the raw token; a "Bearer " prefix is
// tolerated. A missing header is a client error (400), a bad or expired
// token is an auth failure (401).
func RequireAuth(tokens *auth.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader("Authorization")
		if raw == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": auth.ErrMissingToken.Error()})
			c.Abort()
			return
		}
		if after, found := strings.CutPrefix(raw, "Bearer "); found {
			raw = after
		}

		claims, err := tokens.Verify(raw)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": auth.ErrInvalidToken.Error()})
			c.Abort()
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextUsername, claims.Username)
		c.Next()
	}
}

// UserID returns the authenticated user id set by RequireAuth.
func UserID(c *gin.Context) (uint, bool) {
	v, ok := c.Get(ContextUserID)
	if !ok {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok
}
