package handler

import (
	"net/http"
	"strings"

	"go-gin-guestlist/internal/auth"

	"github.com/gin-gonic/gin"
)

// AuthRequired 驗證 Bearer access token 並把 user_id 放進 context
func AuthRequired(tokens *auth.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing bearer token"})
			return
		}

		userID, err := tokens.VerifyAccess(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		c.Set("user_id", userID)
		c.Next()
	}
}
