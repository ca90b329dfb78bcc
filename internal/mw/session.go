package mw

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"water-billing-backend/internal/session"
)

// SessionKey is the gin context key holding the caller's session token.
const SessionKey = "session_token"

// SessionHeader is the alternative to a bearer Authorization header.
const SessionHeader = "X-Session-Token"

// TokenFrom extracts the session token from the request headers.
func TokenFrom(c *gin.Context) string {
	if auth := c.GetHeader("Authorization"); auth != "" {
		if token, ok := strings.CutPrefix(auth, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
	}
	return strings.TrimSpace(c.GetHeader(SessionHeader))
}

// RequireSession rejects requests without a live session.
func RequireSession(sessions *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := TokenFrom(c)
		if !sessions.Touch(token) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "login required"})
			return
		}
		c.Set(SessionKey, token)
		c.Next()
	}
}
