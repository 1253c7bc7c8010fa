package xhttptrace

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/omeyang/xotelkit/pkg/observability/xlog"
	"github.com/omeyang/xotelkit/pkg/observability/xspan"
)

// Response 响应头确定时可见的响应信息。
type Response struct {
	StatusCode int
	Header     http.Header
}

// MakeSpan 为请求创建 span。
type MakeSpan interface {
	MakeSpan(r *http.Request) xspan.Span
}

// OnRequest 请求进入 handler 之前调用。
type OnRequest interface {
	OnRequest(r *http.Request, span xspan.Span)
}

// OnResponse 响应头确定时调用，latency 为从请求进入到此刻的耗时。
type OnResponse interface {
	OnResponse(resp Response, latency time.Duration, span xspan.Span)
}

// OnBodyChunk 每次写入响应体后调用，chunk 为实际写出的字节。
// 经 io.ReaderFrom 写出（如 io.Copy）时每次调用触发一次，chunk 为 nil。
type OnBodyChunk interface {
	OnBodyChunk(chunk []byte, latency time.Duration, span xspan.Span)
}

// OnEOS 响应体结束时调用，streamDuration 为从响应头确定到结束的耗时。
type OnEOS interface {
	OnEOS(trailers http.Header, streamDuration time.Duration, span xspan.Span)
}

// OnFailure 请求被分类为失败时调用。
type OnFailure interface {
	OnFailure(class FailureClass, latency time.Duration, span xspan.Span)
}

// =============================================================================
// 函数适配器
// =============================================================================

// MakeSpanFunc 函数适配器。
type MakeSpanFunc func(r *http.Request) xspan.Span

// MakeSpan 调用 f 本身。
func (f MakeSpanFunc) MakeSpan(r *http.Request) xspan.Span { return f(r) }

// OnRequestFunc 函数适配器。
type OnRequestFunc func(r *http.Request, span xspan.Span)

// OnRequest 调用 f 本身。
func (f OnRequestFunc) OnRequest(r *http.Request, span xspan.Span) { f(r, span) }

// OnResponseFunc 函数适配器。
type OnResponseFunc func(resp Response, latency time.Duration, span xspan.Span)

// OnResponse 调用 f 本身。
func (f OnResponseFunc) OnResponse(resp Response, latency time.Duration, span xspan.Span) {
	f(resp, latency, span)
}

// OnBodyChunkFunc 函数适配器。
type OnBodyChunkFunc func(chunk []byte, latency time.Duration, span xspan.Span)

// OnBodyChunk 调用 f 本身。
func (f OnBodyChunkFunc) OnBodyChunk(chunk []byte, latency time.Duration, span xspan.Span) {
	f(chunk, latency, span)
}

// OnEOSFunc 函数适配器。
type OnEOSFunc func(trailers http.Header, streamDuration time.Duration, span xspan.Span)

// OnEOS 调用 f 本身。
func (f OnEOSFunc) OnEOS(trailers http.Header, streamDuration time.Duration, span xspan.Span) {
	f(trailers, streamDuration, span)
}

// OnFailureFunc 函数适配器。
type OnFailureFunc func(class FailureClass, latency time.Duration, span xspan.Span)

// OnFailure 调用 f 本身。
func (f OnFailureFunc) OnFailure(class FailureClass, latency time.Duration, span xspan.Span) {
	f(class, latency, span)
}

// =============================================================================
// 默认回调
// =============================================================================

// DefaultMakeSpan 在 rec 上创建名为 "request" 的 span，字段为 method、uri、version。
// rec 为 nil 时返回空 span。
func DefaultMakeSpan(rec xspan.Recorder) MakeSpan {
	return MakeSpanFunc(func(r *http.Request) xspan.Span {
		if rec == nil {
			return xspan.NoopSpan()
		}
		return rec.NewSpan("request",
			xspan.String("method", r.Method),
			xspan.String("uri", r.URL.RequestURI()),
			xspan.String("version", r.Proto),
		)
	})
}

type nopHooks struct{}

func (nopHooks) OnRequest(*http.Request, xspan.Span)               {}
func (nopHooks) OnBodyChunk([]byte, time.Duration, xspan.Span)     {}
func (nopHooks) OnEOS(http.Header, time.Duration, xspan.Span)      {}
func (nopHooks) OnResponse(Response, time.Duration, xspan.Span)    {}
func (nopHooks) OnFailure(FailureClass, time.Duration, xspan.Span) {}

// Nop 返回同时实现 OnRequest / OnResponse / OnBodyChunk / OnEOS / OnFailure 的空回调。
func Nop() interface {
	OnRequest
	OnResponse
	OnBodyChunk
	OnEOS
	OnFailure
} {
	return nopHooks{}
}

// DefaultOnResponse 以 Debug 级别记录 "finished processing request"。
// logger 为 nil 时使用 xlog.Default()。
func DefaultOnResponse(logger xlog.Logger) OnResponse {
	return OnResponseFunc(func(resp Response, latency time.Duration, _ xspan.Span) {
		l := logger
		if l == nil {
			l = xlog.Default()
		}
		l.Debug(context.Background(), "finished processing request",
			xlog.StatusCode(resp.StatusCode),
			slog.Duration("latency", latency),
		)
	})
}

// DefaultOnFailure 以 Error 级别记录 "response failed"。
// logger 为 nil 时使用 xlog.Default()。
func DefaultOnFailure(logger xlog.Logger) OnFailure {
	return OnFailureFunc(func(class FailureClass, latency time.Duration, _ xspan.Span) {
		l := logger
		if l == nil {
			l = xlog.Default()
		}
		l.Error(context.Background(), "response failed",
			slog.String("classification", class.String()),
			slog.Duration("latency", latency),
		)
	})
}
