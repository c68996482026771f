package httpctx

import "github.com/gin-gonic/gin"

// CurrentUserID retrieves the authenticated user ID from Gin context if present.
func CurrentUserID(c *gin.Context) (uint, bool) {
	val, exists := c.Get("userID")
	if !exists {
		return 0, false
	}
	uid, ok := val.(uint)
	return uid, ok
}

// OptionalViewerID is CurrentUserID for routes that serve both anonymous and
// authenticated viewers. The boolean is the anonymous short-circuit: when it
// is false no relationship lookup may be keyed by the zero user ID.
func OptionalViewerID(c *gin.Context) (uint, bool) {
	return CurrentUserID(c)
}
