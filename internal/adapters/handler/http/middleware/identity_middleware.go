package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/skycastapp/skycast/internal/core/domain"
	"github.com/skycastapp/skycast/internal/core/services"
)

const (
	authorizationHeader = "Authorization"
	authorizationType   = "Bearer"
	ContextIdentityKey  = "identity"
)

// IdentityMiddleware resolves the caller's identity. No Authorization
// header means the anonymous guest identity; a well-formed bearer token
// resolves to an account; a malformed or invalid token is rejected so a
// logged-in client cannot silently fall back to guest storage.
func IdentityMiddleware(tokenService *services.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader(authorizationHeader)
		if authHeader == "" {
			c.Set(ContextIdentityKey, domain.Guest)
			c.Next()
			return
		}

		fields := strings.Fields(authHeader)
		if len(fields) < 2 || fields[0] != authorizationType {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization header format"})
			c.Abort()
			return
		}

		tokenString := fields[1]

		userID, err := tokenService.ValidateToken(tokenString)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			c.Abort()
			return
		}

		c.Set(ContextIdentityKey, domain.AccountIdentity(userID))

		c.Next()
	}
}

// GetIdentity returns the identity resolved for this request, defaulting
// to guest when the middleware did not run.
func GetIdentity(c *gin.Context) domain.Identity {
	v, exists := c.Get(ContextIdentityKey)
	if !exists {
		return domain.Guest
	}
	id, ok := v.(domain.Identity)
	if !ok {
		return domain.Guest
	}
	return id
}
