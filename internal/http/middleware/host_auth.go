package middleware

import (
	"net/http"
	"strings"

	"bingo_webapp/internal/service"

	"github.com/gin-gonic/gin"
)

// HostAuth admits requests carrying a host token for the session in the
// :id path parameter. The token is read from "Authorization: Bearer" or
// X-Host-Token. On success host_id is set in the context.
func HostAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader("X-Host-Token")
		if h := c.GetHeader("Authorization"); token == "" && strings.HasPrefix(h, "Bearer ") {
			token = strings.TrimPrefix(h, "Bearer ")
		}
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "host token required", "code": "unauthorized"})
			return
		}

		claims, err := service.ParseHostJWT(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token", "code": "unauthorized"})
			return
		}
		if claims.SessionID != c.Param("id") {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "token is for another session", "code": "forbidden"})
			return
		}

		c.Set("host_id", claims.HostID)
		c.Next()
	}
}
