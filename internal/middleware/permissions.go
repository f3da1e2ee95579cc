package middleware

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// RequireRoles lets the request through only when the caller's role is in the allowed set.
// It must run after AuthRequired or OptionalAuth.
func RequireRoles(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}

	return func(c *gin.Context) {
		role := CurrentRole(c)
		if _, ok := allowed[role]; !ok {
			log.Printf("🚫 Role %q denied on %s %s", role, c.Request.Method, c.FullPath())
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "You do not have permission to perform this action"})
			return
		}
		c.Next()
	}
}
