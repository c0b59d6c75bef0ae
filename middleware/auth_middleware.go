package middleware

import (
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/kvbsystems/kvbbackend/models"
	"github.com/kvbsystems/kvbbackend/utils"
)

// AuthMiddleware guards a route group for one principal type. The access
// token travels in an httpOnly cookie whose name is scoped to the role, so
// the four session types never shadow each other.
func AuthMiddleware(role models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr, err := c.Cookie(utils.AccessCookieName(role))
		if err != nil || tokenStr == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
			return
		}

		claims, err := utils.ValidateToken(tokenStr, os.Getenv("JWT_SECRET"))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}

		if claims.Role != string(role) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "role mismatch"})
			return
		}

		c.Set("userID", claims.UserID)
		c.Set("email", claims.Email)
		c.Set("role", claims.Role)
		c.Next()
	}
}
