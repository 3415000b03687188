package interfaces

import (
	transporthttp "BuildpacksDemo/internal/shared/transport/http"
	"BuildpacksDemo/internal/welcome/interfaces/handler"

	"github.com/gin-gonic/gin"
)

type Module struct {
	httpHandler *handler.WelcomeHandler
}

func New() *Module {
	return &Module{
		httpHandler: handler.NewWelcomeHandler(),
	}
}

func (m *Module) HttpRegister(g *gin.RouterGroup) {
	m.httpHandler.RegisterRoutes(g)
}

var _ transporthttp.Registrar = (*Module)(nil)
