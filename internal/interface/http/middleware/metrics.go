package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/xiebiao/cafearoma/pkg/metrics"
)

// Metrics HTTP指标中间件
// path使用路由模板（/api/v1/inventory/items/:sku），未匹配的路由记为unmatched
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		metrics.InitMetrics()
		metrics.HTTPRequestsInProgress.Inc()
		defer metrics.HTTPRequestsInProgress.Dec()

		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		metrics.RecordHTTPRequest(c.Request.Method, path, strconv.Itoa(c.Writer.Status()), time.Since(start))
	}
}
