package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// AdminLookup reports whether userID is an administrator.
// It fails when the user no longer exists.
type AdminLookup func(ctx context.Context, userID int64) (bool, error)

// AuthRequired is a Gin middleware that validates JWT from Authorization: Bearer <token>.
// The admin flag is read fresh on every request so revoking it takes effect immediately.
func AuthRequired(jwtManager *JWTManager, lookup AdminLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "missing Authorization header",
			})
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "invalid Authorization header format",
			})
			return
		}

		tokenStr := parts[1]

		claims, err := jwtManager.ParseAndValidate(tokenStr)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "invalid or expired token",
			})
			return
		}

		userID, err := claims.UserID()
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "invalid or expired token",
			})
			return
		}

		isAdmin := false
		if lookup != nil {
			isAdmin, err = lookup(c.Request.Context(), userID)
			if err != nil {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
					"error": "user not found",
				})
				return
			}
		}

		// Store user info into Gin context for later handlers.
		SetIdentity(c, userID, claims.Email, isAdmin)

		c.Next()
	}
}
