package handler

import "github.com/gin-gonic/gin"

// currentUserID pulls the authenticated user's id from the gin context.
// Routes behind RequireRole always have it; the empty string otherwise.
func currentUserID(c *gin.Context) string {
	if v, ok := c.Get("userID"); ok {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}
