package auth

import "github.com/gin-gonic/gin"

const (
	userIDKey    = "userID"
	userEmailKey = "userEmail"
	isAdminKey   = "isAdmin"
)

// SetIdentity stores the authenticated user on the gin context.
func SetIdentity(c *gin.Context, userID int64, email string, isAdmin bool) {
	c.Set(userIDKey, userID)
	c.Set(userEmailKey, email)
	c.Set(isAdminKey, isAdmin)
}

// GetUserID returns the authenticated user's ID or 0.
func GetUserID(c *gin.Context) int64 {
	if v, ok := c.Get(userIDKey); ok {
		if id, ok := v.(int64); ok {
			return id
		}
	}
	return 0
}

// GetUserEmail returns the authenticated user's email or empty string.
func GetUserEmail(c *gin.Context) string {
	if v, ok := c.Get(userEmailKey); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// IsAdmin reports whether the authenticated user is an administrator.
func IsAdmin(c *gin.Context) bool {
	return c.GetBool(isAdminKey)
}
