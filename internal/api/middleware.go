package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/nekogravitycat/padel-booking-backend/internal/auth"
)

// RequireAdmin ensures the authenticated user is an administrator.
// It MUST be used after auth.AuthRequired middleware.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if auth.GetUserID(c) == 0 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		if !auth.IsAdmin(c) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden: admin access required"})
			return
		}

		c.Next()
	}
}

// idempotencySubject scopes idempotency keys to the authenticated user.
func idempotencySubject(c *gin.Context) string {
	return strconv.FormatInt(auth.GetUserID(c), 10)
}
