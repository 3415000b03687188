package middleware

import (
	"fmt"
	"net/http"

	"BuildpacksDemo/modules/kit/errx"

	"github.com/gin-gonic/gin"
)

// Recovery 把 handler 的 panic 转成 500，并把 ErrInternal 挂到 c.Errors 供访问日志记录原因。
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		_ = c.Error(errx.ErrInternal.WithCause(fmt.Errorf("panic: %v", recovered)))
		c.AbortWithStatus(http.StatusInternalServerError)
	})
}
