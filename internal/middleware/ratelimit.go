package middleware

import (
	"net/http"
	"sync"
	"time"

	"todo-api/internal/config"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimit enforces a per-client request budget keyed by client IP.
// Stale limiters are evicted on the configured cleanup interval.
func RateLimit(cfg config.RateLimitConfig) gin.HandlerFunc {
	var (
		mu      sync.Mutex
		clients = make(map[string]*clientLimiter)
	)

	go func() {
		for range time.Tick(cfg.CleanupInterval) {
			mu.Lock()
			for ip, client := range clients {
				if time.Since(client.lastSeen) > cfg.CleanupInterval {
					delete(clients, ip)
				}
			}
			mu.Unlock()
		}
	}()

	limit := rate.Limit(float64(cfg.RequestsPerMin) / 60.0)

	return func(c *gin.Context) {
		ip := c.ClientIP()

		mu.Lock()
		client, exists := clients[ip]
		if !exists {
			client = &clientLimiter{limiter: rate.NewLimiter(limit, cfg.BurstSize)}
			clients[ip] = client
		}
		client.lastSeen = time.Now()
		allowed := client.limiter.Allow()
		mu.Unlock()

		if !allowed {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "rate limit exceeded",
			})
			return
		}
		c.Next()
	}
}
