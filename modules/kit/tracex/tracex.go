package tracex

import (
	"context"
	"crypto/rand"
	"encoding/hex"
)

// HeaderTraceID 是 HTTP 层透传 trace_id 的请求/响应头。
const HeaderTraceID = "X-Trace-Id"

const maxTraceIDLen = 64

type traceIDKey struct{}
type spanIDKey struct{}

func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, traceIDKey{}, traceID)
}

func TraceIDFrom(ctx context.Context) (string, bool) {
	v := ctx.Value(traceIDKey{})
	if v == nil {
		return "", false
	}
	s, ok := v.(string)
	return s, ok && s != ""
}

func WithSpanID(ctx context.Context, spanID string) context.Context {
	return context.WithValue(ctx, spanIDKey{}, spanID)
}

func SpanIDFrom(ctx context.Context) (string, bool) {
	v := ctx.Value(spanIDKey{})
	if v == nil {
		return "", false
	}
	s, ok := v.(string)
	return s, ok && s != ""
}

// NewTraceID 生成 16 字节随机 trace_id（hex），失败时返回空串。
func NewTraceID() string {
	var b [16]byte
	if _, err := rand.Read(b[:]); err != nil {
		return ""
	}
	return hex.EncodeToString(b[:])
}

// EnsureTraceID 优先沿用上游传入的 trace_id（仅接受 hex 且不超长），否则新生成一个。
func EnsureTraceID(ctx context.Context, upstream string) (context.Context, string) {
	traceID := upstream
	if !validTraceID(traceID) {
		traceID = NewTraceID()
	}
	if traceID == "" {
		return ctx, ""
	}
	return WithTraceID(ctx, traceID), traceID
}

func validTraceID(s string) bool {
	if s == "" || len(s) > maxTraceIDLen {
		return false
	}
	_, err := hex.DecodeString(s)
	return err == nil
}
