package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const contextKeyIdentity = "auth_identity"

// IdentityFromContext returns the caller identity set by RequireToken.
// Zero value if the middleware did not run.
func IdentityFromContext(c *gin.Context) Identity {
	v, ok := c.Get(contextKeyIdentity)
	if !ok {
		return Identity{}
	}
	id, ok := v.(Identity)
	if !ok {
		return Identity{}
	}
	return id
}

// RequireToken returns a middleware that enforces Bearer-token auth.
// A missing header is 401; a present but unverifiable token is 403,
// so clients can tell "log in" apart from "token rejected".
func RequireToken(tokens *TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Access token required"})
			return
		}
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Invalid token"})
			return
		}
		identity, err := tokens.Verify(parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Invalid token"})
			return
		}
		c.Set(contextKeyIdentity, identity)
		c.Next()
	}
}
