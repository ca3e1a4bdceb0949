package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RequireAuth rejects requests that carry no authenticated claims. Used on
// routes behind OptionalJWTAuthMiddleware that still need an identity.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if GetJWTClaims(c) == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "UNAUTHORIZED",
					"message": "Authentication required",
				},
			})
			return
		}
		c.Next()
	}
}

// RequireAdmin restricts a route to users carrying the admin role
func RequireAdmin() gin.HandlerFunc {
	return RequireAdminWithLogger(nil)
}

// RequireAdminWithLogger restricts a route to admins, logging denials
func RequireAdminWithLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetJWTClaims(c)
		if claims == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "UNAUTHORIZED",
					"message": "Authentication required",
				},
			})
			return
		}

		if !claims.IsAdmin() {
			if log != nil {
				log.Warn("Admin access denied",
					zap.String("user_id", claims.UserID),
					zap.String("role", claims.Role),
					zap.String("path", c.Request.URL.Path),
					zap.String("method", c.Request.Method),
				)
			}
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "FORBIDDEN",
					"message": "Administrator access required",
				},
			})
			return
		}

		c.Next()
	}
}
