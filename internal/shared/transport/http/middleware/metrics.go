package middleware

import (
	"BuildpacksDemo/internal/shared/metrics"

	"github.com/gin-gonic/gin"
)

// Metrics 按路由模板（而非原始路径）记录请求数与耗时。
func Metrics(m *metrics.HTTPMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		done := m.Begin()
		defer func() {
			done(c.Request.Method, c.FullPath(), c.Writer.Status())
		}()
		c.Next()
	}
}
