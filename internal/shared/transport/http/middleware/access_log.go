package middleware

import (
	"net/http"

	"BuildpacksDemo/internal/shared/transport"
	"BuildpacksDemo/modules/kit/logx"
	"BuildpacksDemo/modules/kit/tracex"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AccessLog 为每个请求建立 trace 上下文，回写 X-Trace-Id，并在请求结束时输出一条访问日志。
func AccessLog(log logx.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		action := c.Request.Method + " " + route

		ctx := transport.NewContextWithParent(c.Request.Context(), action, c.GetHeader(tracex.HeaderTraceID))
		c.Request = c.Request.WithContext(ctx)
		if tid, ok := tracex.TraceIDFrom(ctx); ok {
			c.Header(tracex.HeaderTraceID, tid)
		}

		defer func() {
			status := c.Writer.Status()
			transport.SetStatus(ctx, status)
			switch {
			case c.FullPath() == "" && status == http.StatusNotFound:
				transport.SetErrorReason(ctx, "route_not_found")
			case len(c.Errors) > 0:
				transport.SetErrorReason(ctx, c.Errors.Last().Error())
			}

			transport.WriteAccessLog(ctx, log,
				zap.String("client_ip", c.ClientIP()),
				zap.Int("size", c.Writer.Size()),
			)
		}()

		c.Next()
	}
}
