package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"duty-tracker/pkg/metrics"
)

// Metrics 记录每个路由的请求耗时；未匹配路由统一记为 "unmatched"
func Metrics(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.HTTPDuration.
			WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).
			Observe(time.Since(start).Seconds())
	}
}
