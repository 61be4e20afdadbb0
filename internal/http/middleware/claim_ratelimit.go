package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// ClaimRateLimit limits bingo claims per client and session, so one
// participant cannot flood arbitration with invalid claims.
func ClaimRateLimit(maxClaims int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := c.Param("id")
		key := "claim_rl:" + sessionID + ":" + c.ClientIP() + ":" + strconv.FormatInt(int64(window.Seconds()), 10)

		val, ok := hit(c.Request.Context(), key, window)
		if !ok {
			c.Header("X-ClaimRateLimit-Error", "redis-error")
			c.Next()
			return
		}

		c.Header("X-ClaimRateLimit-Limit", strconv.Itoa(maxClaims))
		c.Header("X-ClaimRateLimit-Remaining", strconv.FormatInt(max(0, int64(maxClaims)-val), 10))

		if val > int64(maxClaims) {
			RLBlocked.WithLabelValues("claim:" + c.FullPath()).Inc()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":       "claim rate limit exceeded",
				"code":        "rate_limited",
				"retry_after": int(window.Seconds()),
			})
			return
		}

		RLRequests.WithLabelValues("claim:" + c.FullPath()).Inc()
		c.Next()
	}
}
