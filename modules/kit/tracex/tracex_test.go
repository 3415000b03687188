package tracex

import (
	"context"
	"testing"
)

func TestTraceID_RoundTrip(t *testing.T) {
	ctx := context.Background()
	ctx = WithTraceID(ctx, "t-1")
	if got, ok := TraceIDFrom(ctx); !ok || got != "t-1" {
		t.Fatalf("期望 TraceIDFrom round-trip 成功，got=%q ok=%v", got, ok)
	}
}

func TestSpanID_空值视为不存在(t *testing.T) {
	ctx := WithSpanID(context.Background(), "")
	if _, ok := SpanIDFrom(ctx); ok {
		t.Fatalf("期望空 span_id 视为不存在")
	}
}

func TestNewTraceID_长度与唯一性(t *testing.T) {
	a, b := NewTraceID(), NewTraceID()
	if len(a) != 32 {
		t.Fatalf("期望 32 位 hex，got=%q", a)
	}
	if a == b {
		t.Fatalf("期望两次生成的 trace_id 不同，got=%q", a)
	}
}

func TestEnsureTraceID_沿用合法上游值(t *testing.T) {
	ctx, id := EnsureTraceID(context.Background(), "abcdef0123456789")
	if id != "abcdef0123456789" {
		t.Fatalf("期望沿用上游 trace_id，got=%q", id)
	}
	if got, _ := TraceIDFrom(ctx); got != id {
		t.Fatalf("期望 ctx 中写入 trace_id，got=%q", got)
	}
}

func TestEnsureTraceID_非法上游值重新生成(t *testing.T) {
	for _, in := range []string{"", "not-hex!", string(make([]byte, 128))} {
		_, id := EnsureTraceID(context.Background(), in)
		if id == in || len(id) != 32 {
			t.Fatalf("期望为非法输入 %q 重新生成 trace_id，got=%q", in, id)
		}
	}
}
