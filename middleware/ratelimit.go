package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// SignInRateLimit allows at most maxAttempts requests per client IP within
// window and answers 429 beyond that.
func SignInRateLimit(maxAttempts int, window time.Duration) gin.HandlerFunc {
	var (
		mu    sync.Mutex
		store = make(map[string][]time.Time)
	)

	// drop idle clients
	go func() {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for range ticker.C {
			mu.Lock()
			cutoff := time.Now().Add(-window)
			for ip, ts := range store {
				if ts = within(ts, cutoff); len(ts) == 0 {
					delete(store, ip)
				} else {
					store[ip] = ts
				}
			}
			mu.Unlock()
		}
	}()

	return func(c *gin.Context) {
		ip := c.ClientIP()
		now := time.Now()

		mu.Lock()
		ts := within(store[ip], now.Add(-window))
		if len(ts) >= maxAttempts {
			store[ip] = ts
			mu.Unlock()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"code":    http.StatusTooManyRequests,
				"message": "too many sign-in attempts, please try again later",
			})
			return
		}
		store[ip] = append(ts, now)
		mu.Unlock()

		c.Next()
	}
}

// within keeps the timestamps after cutoff, reusing ts
func within(ts []time.Time, cutoff time.Time) []time.Time {
	kept := ts[:0]
	for _, t := range ts {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	return kept
}
