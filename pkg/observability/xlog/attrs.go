package xlog

import (
	"log/slog"
	"time"
)

// 常用属性 Key
const (
	KeyError      = "error"
	KeyStack      = "stack"
	KeyDuration   = "duration"
	KeyTraceID    = "trace_id"
	KeySpanID     = "span_id"
	KeyRequestID  = "request_id"
	KeyMethod     = "method"
	KeyPath       = "path"
	KeyStatusCode = "status_code"
	KeyComponent  = "component"
)

// Err 创建错误属性；err 为 nil 时返回空属性（slog 会忽略）。
func Err(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.String(KeyError, err.Error())
}

// Duration 以人类可读格式（如 "1.5s"）记录耗时。
func Duration(d time.Duration) slog.Attr {
	return slog.String(KeyDuration, d.String())
}

// Component 组件名
func Component(name string) slog.Attr {
	return slog.String(KeyComponent, name)
}

// StatusCode HTTP 状态码
func StatusCode(code int) slog.Attr {
	return slog.Int(KeyStatusCode, code)
}

// Method HTTP 方法
func Method(m string) slog.Attr {
	return slog.String(KeyMethod, m)
}

// Path 请求路径
func Path(p string) slog.Attr {
	return slog.String(KeyPath, p)
}
