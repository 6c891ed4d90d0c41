package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/tuneboxd/pkg/metrics"
)

// Metrics 按路由模板记录请求数与耗时，未匹配的路由归到 unmatched
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.ObserveHTTP(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}
