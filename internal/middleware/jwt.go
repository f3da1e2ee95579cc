package middleware

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"

	"bazaar_back_end/internal/models"
	"bazaar_back_end/internal/services"
	"bazaar_back_end/internal/utils"

	"github.com/gin-gonic/gin"
)

// Context keys set by the auth middlewares.
const (
	CtxUserID   = "user_id"
	CtxUsername = "username"
	CtxRole     = "role"
	CtxClaims   = "claims"
)

// Authenticator validates a bearer token, revocation included.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*utils.Claims, error)
}

func bearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", true
	}
	return strings.TrimSpace(parts[1]), true
}

func authenticate(c *gin.Context, auth Authenticator, token string) bool {
	if token == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid Authorization header"})
		return false
	}

	claims, err := auth.Authenticate(c.Request.Context(), token)
	if err != nil {
		status := http.StatusUnauthorized
		if errors.Is(err, services.ErrUnavailable) {
			status = http.StatusServiceUnavailable
		}
		c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
		return false
	}

	c.Set(CtxUserID, claims.UserID)
	c.Set(CtxUsername, claims.Username)
	c.Set(CtxRole, claims.Role)
	c.Set(CtxClaims, claims)
	return true
}

// AuthRequired rejects requests without a valid, unrevoked bearer token.
func AuthRequired(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, present := bearerToken(c)
		if !present {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing token"})
			return
		}
		if !authenticate(c, auth, token) {
			log.Printf("🔒 Rejected token on %s %s", c.Request.Method, c.FullPath())
			return
		}
		c.Next()
	}
}

// OptionalAuth treats a missing header as a guest. A header that is present must still be valid.
func OptionalAuth(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, present := bearerToken(c)
		if !present {
			c.Set(CtxRole, models.RoleGuest)
			c.Next()
			return
		}
		if !authenticate(c, auth, token) {
			return
		}
		c.Next()
	}
}

func CurrentUserID(c *gin.Context) uint {
	return c.GetUint(CtxUserID)
}

func CurrentRole(c *gin.Context) string {
	if role := c.GetString(CtxRole); role != "" {
		return role
	}
	return models.RoleGuest
}

func CurrentClaims(c *gin.Context) *utils.Claims {
	v, ok := c.Get(CtxClaims)
	if !ok {
		return nil
	}
	claims, _ := v.(*utils.Claims)
	return claims
}

// CurrentViewer describes the caller for service-level visibility rules.
func CurrentViewer(c *gin.Context) services.Viewer {
	return services.Viewer{UserID: CurrentUserID(c), Role: CurrentRole(c)}
}
