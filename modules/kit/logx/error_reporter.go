package logx

import (
	"errors"
	"fmt"
	"runtime"
	"strings"

	"BuildpacksDemo/modules/kit/errx"
)

const (
	maxCauseDepth  = 20
	maxStackFrames = 32
)

// ErrorLog 是一次系统错误的可读快照。
type ErrorLog struct {
	Error      string
	Code       string
	Msg        string
	Data       map[string]any
	CauseChain []string
	Stack      string // 首行即错误发生/转换处
}

// BuildErrorLog 从错误链中取出最外层的 *errx.Error，展开 code/msg/data/栈，并记录 cause 链。
func BuildErrorLog(err error) ErrorLog {
	if err == nil {
		return ErrorLog{}
	}
	out := ErrorLog{
		Error:      err.Error(),
		CauseChain: causeChain(err),
	}
	var e *errx.Error
	if errors.As(err, &e) {
		out.Code = e.CodeText()
		out.Msg = e.Msg()
		out.Data = e.Data()
		out.Stack = formatStack(e.Stack())
	}
	return out
}

func causeChain(err error) []string {
	var out []string
	for cur := errors.Unwrap(err); cur != nil && len(out) < maxCauseDepth; cur = errors.Unwrap(cur) {
		out = append(out, fmt.Sprintf("%T: %v", cur, cur))
	}
	return out
}

func formatStack(pcs []uintptr) string {
	if len(pcs) == 0 {
		return ""
	}
	frames := runtime.CallersFrames(pcs)
	lines := make([]string, 0, maxStackFrames)
	for len(lines) < maxStackFrames {
		f, more := frames.Next()
		if f.Function == "" && f.File == "" {
			break
		}
		lines = append(lines, fmt.Sprintf("%s %s:%d", f.Function, f.File, f.Line))
		if !more {
			break
		}
	}
	return strings.Join(lines, "\n")
}
