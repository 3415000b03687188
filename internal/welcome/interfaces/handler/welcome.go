package handler

import (
	nethttp "net/http"

	"github.com/gin-gonic/gin"
)

// WelcomeMessage 是 GET / 的固定响应体。
const WelcomeMessage = "Welcome to your development environment!"

type WelcomeHandler struct{}

func NewWelcomeHandler() *WelcomeHandler {
	return &WelcomeHandler{}
}

// RegisterRoutes 只注册 GET /，其余方法/路径交给 gin 默认的 404。
func (h *WelcomeHandler) RegisterRoutes(group *gin.RouterGroup) {
	group.GET("/", h.Welcome)
}

func (h *WelcomeHandler) Welcome(c *gin.Context) {
	c.String(nethttp.StatusOK, WelcomeMessage)
}
