package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// SessionKey is the gin context key holding the authenticated session ID.
const SessionKey = "session_id"

// Middleware rejects requests without a valid bearer token and stores the
// session ID on the context for downstream handlers.
func (g *Gate) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}
		sessionID, err := g.Validate(strings.TrimSpace(strings.TrimPrefix(header, "Bearer ")))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}
		c.Set(SessionKey, sessionID)
		c.Next()
	}
}

// SessionID extracts the session ID stored by Middleware.
func SessionID(c *gin.Context) string {
	v, _ := c.Get(SessionKey)
	s, _ := v.(string)
	return s
}
