package logx

import (
	"context"

	"BuildpacksDemo/modules/kit/tracex"

	"go.uber.org/zap"
)

// ZapLogger 内嵌 *zap.Logger 实现 logx.Logger，WithContext 时附带 trace_id/span_id。
type ZapLogger struct {
	*zap.Logger
}

func NewZapLogger(l *zap.Logger) *ZapLogger {
	if l == nil {
		l = zap.NewNop()
	}
	return &ZapLogger{Logger: l}
}

// Named 返回带子名称的 logger，用于区分 http/admin 等组件。
func (z *ZapLogger) Named(name string) *ZapLogger {
	return &ZapLogger{Logger: z.Logger.Named(name)}
}

func (z *ZapLogger) WithContext(ctx context.Context) Logger {
	if z == nil {
		return NewZapLogger(nil)
	}
	if ctx == nil {
		return z
	}
	var fields []zap.Field
	if tid, ok := tracex.TraceIDFrom(ctx); ok {
		fields = append(fields, zap.String("trace_id", tid))
	}
	if sid, ok := tracex.SpanIDFrom(ctx); ok {
		fields = append(fields, zap.String("span_id", sid))
	}
	if len(fields) == 0 {
		return z
	}
	return &ZapLogger{Logger: z.Logger.With(fields...)}
}
