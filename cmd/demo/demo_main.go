package main

import (
	"context"
	"errors"
	"fmt"
	nethttp "net/http"
	"os/signal"
	"syscall"
	"time"

	"BuildpacksDemo/internal/shared/config"
	"BuildpacksDemo/internal/shared/logs"
	"BuildpacksDemo/internal/shared/metrics"
	transporthttp "BuildpacksDemo/internal/shared/transport/http"
	"BuildpacksDemo/internal/welcome/interfaces"
	"BuildpacksDemo/modules/kit/logx"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const appName = "demo"

func main() {
	conf, err := config.Load("")
	if err != nil {
		panic(err)
	}
	if err := logs.Init(appName, conf.Log); err != nil {
		panic(err)
	}
	defer logs.Sync()
	logs.Info("conf", zap.Any("conf", conf))

	config.OnChange(func(next config.Config) {
		logs.SetLevel(next.Log.Level)
		logs.Info("配置热更新", zap.String("log_level", logs.Level().String()))
	})
	config.OnReloadError(func(path string, err error) {
		logs.Warn("配置文件变更但校验失败，保留旧配置", zap.String("file", path), zap.Error(err))
	})

	gin.SetMode(conf.HTTPServer.Mode)
	baseLogger := logx.NewZapLogger(logs.Logger())

	httpMetrics := metrics.NewHTTPMetrics(appName)
	httpServer := transporthttp.NewHttpServer(conf.HTTPServer.Addr(), nil, baseLogger.Named("http"),
		transporthttp.WithTimeouts(conf.HTTPServer),
		transporthttp.WithMetrics(httpMetrics),
		transporthttp.WithHealthz(conf.HTTPServer.Healthz),
	)
	httpModules := []transporthttp.Registrar{
		interfaces.New(),
	}
	for _, m := range httpModules {
		m.HttpRegister(httpServer.Group())
	}

	servers := []*transporthttp.Server{httpServer}
	if conf.Metrics.Addr != "" {
		adminServer := transporthttp.NewHttpServer(conf.Metrics.Addr, nil, baseLogger.Named("admin"))
		adminServer.Engine().GET(conf.Metrics.Path, gin.WrapH(httpMetrics.Handler()))
		servers = append(servers, adminServer)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 先同步绑定端口：绑定失败直接非 0 退出，不重试。
	for _, s := range servers {
		if err := s.Listen(); err != nil {
			logx.ReportSysErrorWithLoggerContext(ctx, baseLogger, logx.NewSysLog("http_listen", err))
			logs.Fatal("listen failed", zap.String("addr", s.Addr()), zap.Error(err))
		}
	}

	errCh := make(chan error, len(servers))
	for _, s := range servers {
		go func(s *transporthttp.Server) {
			if err := s.Serve(); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
				errCh <- fmt.Errorf("http serve failed, addr=%s: %w", s.Addr(), err)
			}
		}(s)
	}

	exitCode := 0
	select {
	case <-ctx.Done():
		logs.Info("收到退出信号，准备优雅退出")
	case err := <-errCh:
		logx.ReportSysErrorWithLoggerContext(context.Background(), baseLogger, logx.NewSysLog("http_serve", err))
		exitCode = 1
	}

	shutdownTimeout := conf.HTTPServer.ShutdownTimeout
	if shutdownTimeout <= 0 {
		shutdownTimeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	for _, s := range servers {
		if err := s.Shutdown(shutdownCtx); err != nil {
			logs.Warn("http shutdown failed", zap.String("addr", s.Addr()), zap.Error(err))
		}
	}
	if exitCode != 0 {
		logs.Fatal("服务异常退出")
	}
	logs.Info("服务已退出")
}
