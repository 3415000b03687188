package http

import (
	"context"
	"net"
	nethttp "net/http"
	"sync"

	"BuildpacksDemo/internal/shared/config"
	"BuildpacksDemo/internal/shared/metrics"
	"BuildpacksDemo/internal/shared/transport/http/middleware"
	"BuildpacksDemo/modules/kit/errx"
	"BuildpacksDemo/modules/kit/logx"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrBind 表示监听地址无法绑定，使用 errors.Is(err, ErrBind) 判断。
var ErrBind = errx.ErrBind

// Registrar 由业务模块实现，用于向 HTTP 路由表注册路由。
type Registrar interface {
	HttpRegister(g *gin.RouterGroup)
}

type options struct {
	timeouts *config.HTTPServerConfig
	metrics  *metrics.HTTPMetrics
	healthz  bool
}

type Option func(*options)

// WithTimeouts 使用配置中的读写/空闲超时。
func WithTimeouts(c config.HTTPServerConfig) Option {
	return func(o *options) {
		o.timeouts = &c
	}
}

// WithMetrics 安装请求指标中间件。
func WithMetrics(m *metrics.HTTPMetrics) Option {
	return func(o *options) {
		o.metrics = m
	}
}

// WithHealthz 注册 GET /healthz。
func WithHealthz(enabled bool) Option {
	return func(o *options) {
		o.healthz = enabled
	}
}

type Server struct {
	engine *gin.Engine
	group  *gin.RouterGroup
	srv    *nethttp.Server
	logger logx.Logger

	mu     sync.Mutex
	lis    net.Listener
	closed bool
}

// NewHttpServer 创建 HTTP 服务。中间件顺序固定为 access log -> metrics -> recovery，之后才注册路由；
// recovery 放在最内层，panic 的请求同样以 500 记入访问日志和指标。传入的 engine 不应自带 Recovery。
func NewHttpServer(addr string, engine *gin.Engine, logger logx.Logger, opts ...Option) *Server {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if engine == nil {
		engine = gin.New()
	}
	if logger == nil {
		logger = logx.NewZapLogger(nil)
	}
	engine.Use(middleware.AccessLog(logger))
	if o.metrics != nil {
		engine.Use(middleware.Metrics(o.metrics))
	}
	engine.Use(middleware.Recovery())
	if o.healthz {
		engine.GET("/healthz", func(c *gin.Context) {
			c.JSON(nethttp.StatusOK, gin.H{"status": "ok"})
		})
	}

	srv := &nethttp.Server{
		Addr:    addr,
		Handler: engine,
	}
	if t := o.timeouts; t != nil {
		srv.ReadHeaderTimeout = t.ReadHeaderTimeout
		srv.ReadTimeout = t.ReadTimeout
		srv.WriteTimeout = t.WriteTimeout
		srv.IdleTimeout = t.IdleTimeout
	}

	return &Server{
		engine: engine,
		group:  engine.Group(""),
		srv:    srv,
		logger: logger,
	}
}

// Listen 绑定监听端口。失败时返回 ErrBind（data.addr + 原始 cause），不重试。
func (s *Server) Listen() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nethttp.ErrServerClosed
	}
	if s.lis != nil {
		return nil
	}
	lis, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		return ErrBind.WithData("addr", s.srv.Addr).WithCause(err)
	}
	s.lis = lis
	return nil
}

// Serve 在已绑定的端口上提供服务（阻塞）。Shutdown 后返回 net/http.ErrServerClosed。
func (s *Server) Serve() error {
	s.mu.Lock()
	lis, closed := s.lis, s.closed
	s.mu.Unlock()
	if closed {
		return nethttp.ErrServerClosed
	}
	if lis == nil {
		return errx.ErrUnavailable.WithData("reason", "listener not bound")
	}
	s.logger.Info("http server started", zap.String("addr", lis.Addr().String()))
	return s.srv.Serve(lis)
}

// Start 等价于 Listen + Serve。
func (s *Server) Start() error {
	if err := s.Listen(); err != nil {
		return err
	}
	return s.Serve()
}

// Addr 返回实际绑定的地址（端口为 0 时可取到系统分配的端口），未绑定时返回配置地址。
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lis != nil {
		return s.lis.Addr().String()
	}
	return s.srv.Addr
}

// Shutdown 优雅关闭并释放端口。
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.srv.Shutdown(ctx)
	s.mu.Lock()
	s.closed = true
	if s.lis != nil {
		// 未进入 Serve 的 listener 不会被 Shutdown 关闭，这里兜底释放。
		_ = s.lis.Close()
		s.lis = nil
	}
	s.mu.Unlock()
	return err
}

func (s *Server) Group() *gin.RouterGroup {
	return s.group
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) Handler() nethttp.Handler {
	return s.srv.Handler
}
