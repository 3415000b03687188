package logx

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"syscall"
	"testing"

	"BuildpacksDemo/modules/kit/errx"
	"BuildpacksDemo/modules/kit/tracex"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestBuildErrorLog_能提取语义与栈(t *testing.T) {
	e := errx.ErrBind.
		WithData("addr", "0.0.0.0:8080").
		WithCause(syscall.EADDRINUSE)

	meta := BuildErrorLog(e)
	if meta.Error == "" {
		t.Fatalf("期望 meta.Error 非空")
	}
	if meta.Code != string(errx.CodeBind) {
		t.Fatalf("期望 meta.Code=%s, got=%q", errx.CodeBind, meta.Code)
	}
	if meta.Msg == "" {
		t.Fatalf("期望 meta.Msg 非空")
	}
	if meta.Data == nil || meta.Data["addr"] != "0.0.0.0:8080" {
		t.Fatalf("期望 meta.Data 包含 addr, got=%v", meta.Data)
	}
	if len(meta.CauseChain) == 0 {
		t.Fatalf("期望 meta.CauseChain 非空")
	}
	if meta.Stack == "" || !strings.Contains(strings.SplitN(meta.Stack, "\n", 2)[0], "TestBuildErrorLog") {
		t.Fatalf("期望栈首行为错误转换处，stack=%q", meta.Stack)
	}
}

func TestBuildErrorLog_普通错误只有文本(t *testing.T) {
	meta := BuildErrorLog(errors.New("boom"))
	if meta.Error != "boom" || meta.Code != "" || meta.Stack != "" {
		t.Fatalf("unexpected meta: %+v", meta)
	}
}

func TestBuildErrorLog_外层包装仍能取到errx(t *testing.T) {
	err := fmt.Errorf("start demo: %w", errx.ErrBind.WithCause(syscall.EADDRINUSE))
	meta := BuildErrorLog(err)
	if meta.Code != string(errx.CodeBind) {
		t.Fatalf("期望穿透 fmt 包装取到 code，got=%q", meta.Code)
	}
	if len(meta.CauseChain) != 2 {
		t.Fatalf("期望 cause 链为 errx.Error -> Errno，got=%v", meta.CauseChain)
	}
}

func TestReportAccess_按状态码分级(t *testing.T) {
	cases := []struct {
		status int
		level  zapcore.Level
	}{
		{http.StatusOK, zapcore.InfoLevel},
		{http.StatusNotFound, zapcore.WarnLevel},
		{http.StatusInternalServerError, zapcore.ErrorLevel},
	}
	for _, tc := range cases {
		core, logs := observer.New(zapcore.DebugLevel)
		l := NewZapLogger(zap.New(core))
		ctx := tracex.WithTraceID(context.Background(), "abc")

		ReportAccessWithLoggerContext(ctx, l, "GET /", tc.status)

		entries := logs.All()
		if len(entries) != 1 {
			t.Fatalf("status=%d 期望 1 条日志，got=%d", tc.status, len(entries))
		}
		if entries[0].Level != tc.level {
			t.Fatalf("status=%d 期望级别 %v，got=%v", tc.status, tc.level, entries[0].Level)
		}
		fields := entries[0].ContextMap()
		if fields["trace_id"] != "abc" || fields["action"] != "GET /" {
			t.Fatalf("期望携带 trace_id/action，got=%v", fields)
		}
	}
}

func TestReportSysError_携带错误码(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := NewZapLogger(zap.New(core))

	err := errx.ErrBind.WithData("addr", ":80").WithCause(syscall.EACCES)
	ReportSysErrorWithLoggerContext(context.Background(), l, NewSysLog("http_listen", err))

	entries := logs.All()
	if len(entries) != 1 || entries[0].Level != zapcore.ErrorLevel {
		t.Fatalf("期望 1 条 ERROR 日志，got=%v", entries)
	}
	if got := entries[0].ContextMap()["error_code"]; got != string(errx.CodeBind) {
		t.Fatalf("期望 error_code=%s，got=%v", errx.CodeBind, got)
	}

	ReportSysErrorWithLoggerContext(context.Background(), l, NewSysLog("noop", nil))
	if logs.Len() != 1 {
		t.Fatalf("期望 nil 错误不输出日志")
	}
}
