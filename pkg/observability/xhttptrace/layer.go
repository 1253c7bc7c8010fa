package xhttptrace

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/felixge/httpsnoop"

	"github.com/omeyang/xotelkit/pkg/observability/xlog"
	"github.com/omeyang/xotelkit/pkg/observability/xspan"
)

// Layer 请求/响应生命周期追踪宿主。创建后只读，可被多个 handler 并发共享。
type Layer struct {
	makeSpan    MakeSpan
	onRequest   OnRequest
	onResponse  OnResponse
	onBodyChunk OnBodyChunk
	onEOS       OnEOS
	onFailure   OnFailure
	classifier  Classifier
	logger      xlog.Logger
	metrics     *requestMetrics
}

// New 创建 Layer。
//
// 默认值：空 span、OnResponse 记录 Debug 日志、OnFailure 记录 Error 日志、
// 其余回调为空、分类器为 ServerErrorsAsFailures、不记录指标。
// 指标创建失败时记录 Warn 日志并关闭指标，Layer 仍可用。
func New(opts ...Option) *Layer {
	cfg := config{
		classifier:          ServerErrorsAsFailures(),
		instrumentationName: defaultInstrumentationName,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	l := &Layer{
		makeSpan:    cfg.makeSpan,
		onRequest:   cfg.onRequest,
		onResponse:  cfg.onResponse,
		onBodyChunk: cfg.onBodyChunk,
		onEOS:       cfg.onEOS,
		onFailure:   cfg.onFailure,
		classifier:  cfg.classifier,
		logger:      cfg.logger,
	}
	if l.makeSpan == nil {
		l.makeSpan = DefaultMakeSpan(nil)
	}
	if l.onRequest == nil {
		l.onRequest = nopHooks{}
	}
	if l.onResponse == nil {
		l.onResponse = DefaultOnResponse(cfg.logger)
	}
	if l.onBodyChunk == nil {
		l.onBodyChunk = nopHooks{}
	}
	if l.onEOS == nil {
		l.onEOS = nopHooks{}
	}
	if l.onFailure == nil {
		l.onFailure = DefaultOnFailure(cfg.logger)
	}

	if cfg.meterProvider != nil {
		m, err := newRequestMetrics(cfg.meterProvider, cfg.instrumentationName)
		if err != nil {
			l.log().Warn(context.Background(), "request metrics disabled", xlog.Err(err))
		} else {
			l.metrics = m
		}
	}
	return l
}

func (l *Layer) log() xlog.Logger {
	if l.logger != nil {
		return l.logger
	}
	return xlog.Default()
}

// Handler 用 Layer 包装 next。
func (l *Layer) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		l.serve(next, w, r)
	})
}

// Middleware 返回可用于中间件链的包装函数。
func (l *Layer) Middleware() func(http.Handler) http.Handler {
	return l.Handler
}

func (l *Layer) serve(next http.Handler, w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	span := l.makeSpan.MakeSpan(r)
	if span == nil {
		span = xspan.NoopSpan()
	}
	ctx := xspan.ContextWithSpan(span.Context(r.Context()), span)
	r = r.WithContext(ctx)

	l.onRequest.OnRequest(r, span)

	ex := &exchange{layer: l, span: span, start: start, header: w.Header()}
	ww := httpsnoop.Wrap(w, httpsnoop.Hooks{
		WriteHeader: func(next httpsnoop.WriteHeaderFunc) httpsnoop.WriteHeaderFunc {
			return func(code int) {
				// 1xx（101 除外）为中间响应，不代表最终状态
				if code >= 200 || code == http.StatusSwitchingProtocols {
					ex.respond(code)
				}
				next(code)
			}
		},
		Write: func(next httpsnoop.WriteFunc) httpsnoop.WriteFunc {
			return func(b []byte) (int, error) {
				ex.respond(http.StatusOK)
				n, err := next(b)
				ex.wrote(b[:n], int64(n), err)
				return n, err
			}
		},
		ReadFrom: func(next httpsnoop.ReadFromFunc) httpsnoop.ReadFromFunc {
			return func(src io.Reader) (int64, error) {
				ex.respond(http.StatusOK)
				n, err := next(src)
				ex.wrote(nil, n, err)
				return n, err
			}
		},
		Hijack: func(next httpsnoop.HijackFunc) httpsnoop.HijackFunc {
			return func() (net.Conn, *bufio.ReadWriter, error) {
				conn, rw, err := next()
				if err == nil {
					ex.hijacked = true
				}
				return conn, rw, err
			}
		},
		Flush: func(next httpsnoop.FlushFunc) httpsnoop.FlushFunc {
			return func() {
				ex.respond(http.StatusOK)
				next()
			}
		},
	})

	defer func() {
		p := recover()
		if p == nil {
			return
		}
		ex.fail(ErrorFailure(fmt.Errorf("%w: %v", ErrHandlerPanic, p)))
		if p != http.ErrAbortHandler {
			l.log().Stack(ctx, "handler panicked", slog.Any("panic", p))
		}
		ex.finish(ctx, r, false)
		panic(p)
	}()

	next.ServeHTTP(ww, r)
	ex.finish(ctx, r, true)
}

// exchange 单个请求的回调状态，只在请求 goroutine 内访问
type exchange struct {
	layer  *Layer
	span   xspan.Span
	start  time.Time
	header http.Header

	responded   bool
	respondedAt time.Time
	status      int
	failed      bool
	writeFailed bool
	hijacked    bool
}

func (e *exchange) respond(code int) {
	if e.responded {
		return
	}
	e.responded = true
	e.status = code
	e.respondedAt = time.Now()

	e.layer.onResponse.OnResponse(Response{StatusCode: code, Header: e.header}, e.respondedAt.Sub(e.start), e.span)
	if class, failed := e.layer.classifier.ClassifyResponse(code); failed {
		e.fail(class)
	}
}

// wrote chunk 为 nil 表示经 ReadFrom 写出，字节不可见
func (e *exchange) wrote(chunk []byte, n int64, err error) {
	if n > 0 {
		e.layer.onBodyChunk.OnBodyChunk(chunk, time.Since(e.start), e.span)
	}
	if err != nil && !e.writeFailed {
		e.writeFailed = true
		e.fail(ErrorFailure(err))
	}
}

func (e *exchange) fail(class FailureClass) {
	e.failed = true
	e.layer.onFailure.OnFailure(class, time.Since(e.start), e.span)
}

// finish completed 为 false 表示 handler panic，此时不补发隐式响应，也不触发 OnEOS。
// 连接被劫持后响应不经过 writer：升级请求记为 101，其余不记录状态码。
func (e *exchange) finish(ctx context.Context, r *http.Request, completed bool) {
	switch {
	case e.hijacked:
		if !e.responded && r.Header.Get("Upgrade") != "" {
			e.respond(http.StatusSwitchingProtocols)
		}
	case completed:
		// handler 未写任何内容时 net/http 会发送 200
		e.respond(http.StatusOK)
		e.layer.onEOS.OnEOS(trailers(e.header), time.Since(e.respondedAt), e.span)
	}

	status := e.status
	if !e.responded && !e.hijacked {
		status = http.StatusInternalServerError
	}
	e.layer.metrics.record(ctx, r, status, e.failed, time.Since(e.start))
	e.span.End()
}

// trailers 收集通过 Trailer 头预声明或以 http.TrailerPrefix 前缀设置的 trailer
func trailers(h http.Header) http.Header {
	var out http.Header
	add := func(k string, v []string) {
		if len(v) == 0 {
			return
		}
		if out == nil {
			out = make(http.Header)
		}
		out[k] = append([]string(nil), v...)
	}
	for _, declared := range h.Values("Trailer") {
		for _, name := range strings.Split(declared, ",") {
			name = http.CanonicalHeaderKey(strings.TrimSpace(name))
			if name != "" {
				add(name, h.Values(name))
			}
		}
	}
	for k, v := range h {
		if strings.HasPrefix(k, http.TrailerPrefix) {
			add(http.CanonicalHeaderKey(strings.TrimPrefix(k, http.TrailerPrefix)), v)
		}
	}
	return out
}
