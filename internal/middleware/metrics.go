package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/edudesk/school-api/internal/service"
)

// Metrics observes every request on the route template (not the raw URL,
// which would explode label cardinality on :id routes).
func Metrics(metricsSvc *service.MetricsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metricsSvc.ObserveHTTPRequest(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}
