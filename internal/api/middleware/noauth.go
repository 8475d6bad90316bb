package middleware

import (
	"github.com/gin-gonic/gin"
)

// NoAuth is a pass-through middleware for when AUTH_MODE=none.
// It allows all requests without authentication.
func NoAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Set a placeholder user for logging purposes
		c.Set("user_id", "anonymous")
		c.Set("user_id_str", "anonymous")
		c.Next()
	}
}
