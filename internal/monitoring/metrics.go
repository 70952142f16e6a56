package monitoring

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

type Metrics struct {
	mu             sync.RWMutex
	RequestCount   int64            `json:"request_count"`
	ErrorCount     int64            `json:"error_count"`
	ActiveRequests int64            `json:"active_requests"`
	StatusCodes    map[string]int64 `json:"status_codes"`
	Endpoints      map[string]int64 `json:"endpoint_calls"`
	StartTime      time.Time        `json:"start_time"`
	LastRequest    time.Time        `json:"last_request"`
}

var globalMetrics = &Metrics{
	StatusCodes: make(map[string]int64),
	Endpoints:   make(map[string]int64),
	StartTime:   time.Now(),
}

// MetricsMiddleware counts requests, status codes, and per-endpoint calls.
func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		globalMetrics.mu.Lock()
		globalMetrics.ActiveRequests++
		globalMetrics.mu.Unlock()

		c.Next()

		status := strconv.Itoa(c.Writer.Status())
		endpoint := c.Request.Method + " " + c.FullPath()

		globalMetrics.mu.Lock()
		globalMetrics.ActiveRequests--
		globalMetrics.RequestCount++
		globalMetrics.StatusCodes[status]++
		globalMetrics.Endpoints[endpoint]++
		globalMetrics.LastRequest = time.Now()
		if c.Writer.Status() >= http.StatusInternalServerError {
			globalMetrics.ErrorCount++
		}
		globalMetrics.mu.Unlock()
	}
}

func MetricsHandler(c *gin.Context) {
	globalMetrics.mu.RLock()
	defer globalMetrics.mu.RUnlock()
	c.JSON(http.StatusOK, globalMetrics)
}

type HealthCheckFunc func(ctx context.Context) error

type healthChecker struct {
	mu     sync.RWMutex
	checks map[string]HealthCheckFunc
}

var globalHealthChecker = &healthChecker{
	checks: make(map[string]HealthCheckFunc),
}

// RegisterHealthCheck adds a named dependency check evaluated on each
// /health request.
func RegisterHealthCheck(name string, check HealthCheckFunc) {
	globalHealthChecker.mu.Lock()
	defer globalHealthChecker.mu.Unlock()
	globalHealthChecker.checks[name] = check
}

func HealthHandler(c *gin.Context) {
	globalHealthChecker.mu.RLock()
	checks := make(map[string]HealthCheckFunc, len(globalHealthChecker.checks))
	for name, check := range globalHealthChecker.checks {
		checks[name] = check
	}
	globalHealthChecker.mu.RUnlock()

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	status := http.StatusOK
	results := make(map[string]string, len(checks))
	for name, check := range checks {
		if err := check(ctx); err != nil {
			results[name] = err.Error()
			status = http.StatusServiceUnavailable
		} else {
			results[name] = "ok"
		}
	}

	c.JSON(status, gin.H{
		"status": http.StatusText(status),
		"checks": results,
		"uptime": time.Since(globalMetrics.StartTime).String(),
	})
}
