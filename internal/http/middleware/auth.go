package middleware

import (
	"net/http"
	"strings"

	"garageclient/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const authContextKey = "auth_user"

// Auth validates the bearer token and stores the authenticated identity
// on the context. Requests without a valid token get a 401.
func Auth(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := strings.TrimSpace(c.GetHeader("Authorization"))
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "missing bearer token"})
			return
		}
		raw := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))

		claims := jwt.MapClaims{}
		token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return secret, nil
		})
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "invalid or expired token"})
			return
		}

		rc := domain.RequestContext{}
		if v, ok := claims["user_id"].(string); ok {
			rc.UserID = v
		}
		if v, ok := claims["role"].(string); ok {
			rc.Role = v
		}
		c.Set(authContextKey, rc)
		c.Next()
	}
}

// GetAuthUser returns the identity stored by Auth, if any.
func GetAuthUser(c *gin.Context) (domain.RequestContext, bool) {
	if v, ok := c.Get(authContextKey); ok {
		if rc, ok := v.(domain.RequestContext); ok {
			return rc, true
		}
	}
	return domain.RequestContext{}, false
}
