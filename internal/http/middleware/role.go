package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RequireRoles only allows requests whose authenticated role is listed.
// Must run after Auth.
//
//	r.DELETE("/items/:id", RequireRoles("owner", "admin"), handler)
func RequireRoles(allowedRoles ...string) gin.HandlerFunc {
	allowed := map[string]bool{}
	for _, r := range allowedRoles {
		allowed[r] = true
	}
	return func(c *gin.Context) {
		rc, ok := GetAuthUser(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "authentication required"})
			return
		}
		if !allowed[rc.Role] {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"success": false, "message": "insufficient role"})
			return
		}
		c.Next()
	}
}
