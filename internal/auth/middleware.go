package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

type contextKey string

const identityContextKey contextKey = "golistingsIdentity"

// AuthMiddleware gates private routes: it extracts the bearer token,
// validates it and injects the caller identity. Every failure is the same
// 401 outcome.
func AuthMiddleware(service *Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractBearerToken(c.GetHeader("Authorization"))
		if token == "" {
			unauthorized(c)
			return
		}

		identity, err := service.Authorize(token)
		if err != nil {
			unauthorized(c)
			return
		}

		c.Set(string(identityContextKey), identity)
		c.Next()
	}
}

// CurrentIdentity extracts the authenticated identity from the context.
func CurrentIdentity(c *gin.Context) (Identity, bool) {
	value, exists := c.Get(string(identityContextKey))
	if !exists {
		return Identity{}, false
	}
	identity, ok := value.(Identity)
	return identity, ok
}

func unauthorized(c *gin.Context) {
	c.Header("WWW-Authenticate", "Bearer")
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"error":   "invalid_token",
		"message": "Could not validate credentials.",
	})
}

func extractBearerToken(header string) string {
	if !strings.HasPrefix(strings.ToLower(header), "bearer ") {
		return ""
	}
	return strings.TrimSpace(header[7:])
}
