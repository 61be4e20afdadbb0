package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

const pruneThreshold = 10000

type clientInfo struct {
	start time.Time
	count int64
}

// windowCounter is the in-process fixed-window counter used when Redis is
// not configured.
type windowCounter struct {
	mu      sync.Mutex
	entries map[string]*clientInfo
	now     func() time.Time
}

func newWindowCounter() *windowCounter {
	return &windowCounter{entries: make(map[string]*clientInfo), now: time.Now}
}

// incr returns the hit count of key within the current window.
func (w *windowCounter) incr(key string, window time.Duration) int64 {
	w.mu.Lock()
	defer w.mu.Unlock()

	now := w.now()
	if len(w.entries) > pruneThreshold {
		for k, ci := range w.entries {
			if now.Sub(ci.start) > window {
				delete(w.entries, k)
			}
		}
	}

	ci, ok := w.entries[key]
	if !ok || now.Sub(ci.start) > window {
		w.entries[key] = &clientInfo{start: now, count: 1}
		return 1
	}
	ci.count++
	return ci.count
}

// SimpleRateLimit blocks clients that send more than maxRequests per window
func SimpleRateLimit(maxRequests int, window time.Duration) gin.HandlerFunc {
	counter := newWindowCounter()
	return func(c *gin.Context) {
		if counter.incr(c.ClientIP(), window) > int64(maxRequests) {
			RLBlocked.WithLabelValues(c.FullPath()).Inc()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}
		RLRequests.WithLabelValues(c.FullPath()).Inc()
		c.Next()
	}
}
