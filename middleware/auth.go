package middleware

import (
	"net/http"
	"strings"

	"sahara/models"
	"sahara/services/auth"

	"github.com/gin-gonic/gin"
)

// IdentityKey is the gin context key holding the *models.Identity.
const IdentityKey = "identity"

func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if len(authHeader) < 7 || !strings.EqualFold(authHeader[:7], "Bearer ") {
		return ""
	}
	return strings.TrimSpace(authHeader[7:])
}

// RequireAuth rejects requests without a valid bearer token.
func RequireAuth(svc auth.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing or invalid Authorization header"})
			return
		}
		identity, err := svc.Authenticate(c.Request.Context(), token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}
		c.Set(IdentityKey, identity)
		c.Next()
	}
}

// OptionalAuth attaches an identity when a valid bearer token is present and
// otherwise lets the request through anonymously.
func OptionalAuth(svc auth.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := bearerToken(c); token != "" {
			if identity, err := svc.Authenticate(c.Request.Context(), token); err == nil {
				c.Set(IdentityKey, identity)
			}
		}
		c.Next()
	}
}

// GetIdentity returns the identity attached by the auth middleware, if any.
func GetIdentity(c *gin.Context) *models.Identity {
	if v, ok := c.Get(IdentityKey); ok {
		if identity, ok := v.(*models.Identity); ok {
			return identity
		}
	}
	return nil
}
