package transport

import (
	"context"
	"net/http"
	"time"

	"BuildpacksDemo/modules/kit/logx"
	"BuildpacksDemo/modules/kit/tracex"

	"go.uber.org/zap"
)

// AccessLog 是请求级日志上下文，由中间件创建并在请求结束时输出。
type AccessLog struct {
	Status      int
	ErrorReason string
	startTime   time.Time
	action      string
}

type accessLogKey struct{}

// NewContextWithParent 创建带 AccessLog 的新 context（保留父 context 的取消/超时信号）。
// upstreamTraceID 为上游透传的 trace_id，非法或为空时重新生成。
func NewContextWithParent(parent context.Context, action, upstreamTraceID string) context.Context {
	ctx := parent
	if ctx == nil {
		ctx = context.Background()
	}
	if action == "" {
		action = "unknown"
	}
	ctx, _ = tracex.EnsureTraceID(ctx, upstreamTraceID)
	ctx = tracex.WithSpanID(ctx, "http")

	al := &AccessLog{
		Status:    http.StatusOK,
		startTime: time.Now(),
		action:    action,
	}
	return context.WithValue(ctx, accessLogKey{}, al)
}

// FromContext 从 context 读取 AccessLog。
func FromContext(ctx context.Context) *AccessLog {
	if ctx == nil {
		return nil
	}
	al, _ := ctx.Value(accessLogKey{}).(*AccessLog)
	return al
}

func SetStatus(ctx context.Context, status int) {
	if al := FromContext(ctx); al != nil {
		al.Status = status
	}
}

// SetErrorReason 设置 access 日志错误原因（失败场景）。
func SetErrorReason(ctx context.Context, reason string) {
	if reason == "" {
		return
	}
	if al := FromContext(ctx); al != nil {
		al.ErrorReason = reason
	}
}

// WriteAccessLog 输出访问日志，每个请求只调用一次。
func WriteAccessLog(ctx context.Context, log logx.Logger, extra ...zap.Field) {
	al := FromContext(ctx)
	if al == nil || log == nil {
		return
	}

	fields := []zap.Field{
		zap.Duration("latency", time.Since(al.startTime)),
	}
	if al.Status < http.StatusBadRequest {
		fields = append(fields, zap.String("result", "success"))
	} else {
		fields = append(fields, zap.String("result", "failure"))
		if al.ErrorReason != "" {
			fields = append(fields, zap.String("error_reason", al.ErrorReason))
		}
	}
	fields = append(fields, extra...)
	logx.ReportAccessWithLoggerContext(ctx, log, al.action, al.Status, fields...)
}
