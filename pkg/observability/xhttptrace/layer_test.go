package xhttptrace_test

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/omeyang/xotelkit/pkg/context/xreqext"
	"github.com/omeyang/xotelkit/pkg/observability/xhttptrace"
	"github.com/omeyang/xotelkit/pkg/observability/xlog"
	"github.com/omeyang/xotelkit/pkg/observability/xspan"
	"github.com/omeyang/xotelkit/pkg/observability/xspan/xspantest"
)

// ============================================================================
// 测试辅助
// ============================================================================

// eventLog 按顺序记录回调事件
type eventLog struct {
	mu     sync.Mutex
	events []string
}

func (l *eventLog) add(format string, args ...any) {
	l.mu.Lock()
	l.events = append(l.events, fmt.Sprintf(format, args...))
	l.mu.Unlock()
}

func (l *eventLog) list() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.events...)
}

func newTracedLayer(rec *xspantest.Recorder, ev *eventLog, opts ...xhttptrace.Option) *xhttptrace.Layer {
	base := []xhttptrace.Option{
		xhttptrace.WithMakeSpan(xhttptrace.DefaultMakeSpan(rec)),
		xhttptrace.WithOnRequest(xhttptrace.OnRequestFunc(func(r *http.Request, _ xspan.Span) {
			ev.add("request %s", r.URL.Path)
		})),
		xhttptrace.WithOnResponse(xhttptrace.OnResponseFunc(func(resp xhttptrace.Response, _ time.Duration, _ xspan.Span) {
			ev.add("response %d", resp.StatusCode)
		})),
		xhttptrace.WithOnBodyChunk(xhttptrace.OnBodyChunkFunc(func(chunk []byte, _ time.Duration, _ xspan.Span) {
			ev.add("chunk %s", chunk)
		})),
		xhttptrace.WithOnEOS(xhttptrace.OnEOSFunc(func(trailers http.Header, _ time.Duration, _ xspan.Span) {
			ev.add("eos %d", len(trailers))
		})),
		xhttptrace.WithOnFailure(xhttptrace.OnFailureFunc(func(class xhttptrace.FailureClass, _ time.Duration, _ xspan.Span) {
			ev.add("failure %s", class)
		})),
	}
	return xhttptrace.New(append(base, opts...)...)
}

func serve(h http.Handler, method, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(method, target, nil))
	return w
}

// ============================================================================
// 生命周期
// ============================================================================

func TestLayer_ImplicitOK(t *testing.T) {
	rec, ev := xspantest.NewRecorder(), &eventLog{}
	layer := newTracedLayer(rec, ev)

	w := serve(layer.Handler(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {})), http.MethodGet, "/a")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"request /a", "response 200", "eos 0"}, ev.list())

	span := rec.Last()
	require.NotNil(t, span)
	assert.Equal(t, "request", span.Name())
	assert.Equal(t, "GET", span.Value("method"))
	assert.Equal(t, "/a", span.Value("uri"))
	assert.Equal(t, "HTTP/1.1", span.Value("version"))
	assert.Equal(t, 1, span.EndCount())
	assert.Equal(t, 1, span.ContextCount())
}

func TestLayer_WritesAndChunks(t *testing.T) {
	rec, ev := xspantest.NewRecorder(), &eventLog{}
	layer := newTracedLayer(rec, ev)

	h := layer.Handler(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, "hello ")
		_, _ = w.Write([]byte("world"))
	}))
	w := serve(h, http.MethodGet, "/b")

	assert.Equal(t, "hello world", w.Body.String())
	assert.Equal(t, []string{"request /b", "response 200", "chunk hello ", "chunk world", "eos 0"}, ev.list())
}

// readerFromRecorder 为 ResponseRecorder 补上 io.ReaderFrom
type readerFromRecorder struct {
	*httptest.ResponseRecorder
}

func (r readerFromRecorder) ReadFrom(src io.Reader) (int64, error) {
	return io.Copy(r.ResponseRecorder.Body, src)
}

func TestLayer_ReadFromChunk(t *testing.T) {
	rec, ev := xspantest.NewRecorder(), &eventLog{}
	layer := newTracedLayer(rec, ev)

	h := layer.Handler(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		rf, ok := w.(io.ReaderFrom)
		require.True(t, ok)
		_, _ = rf.ReadFrom(strings.NewReader("payload"))
		_, _ = rf.ReadFrom(strings.NewReader(""))
	}))
	w := readerFromRecorder{httptest.NewRecorder()}
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/copy", nil))

	assert.Equal(t, "payload", w.Body.String())
	assert.Equal(t, []string{"request /copy", "response 200", "chunk ", "eos 0"}, ev.list())
}

func TestLayer_ServerErrorFailureFollowsResponse(t *testing.T) {
	rec, ev := xspantest.NewRecorder(), &eventLog{}
	layer := newTracedLayer(rec, ev)

	h := layer.Handler(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.WriteHeader(http.StatusOK) // 重复调用被忽略
	}))
	w := serve(h, http.MethodPost, "/c")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, []string{"request /c", "response 500", "failure Status code: 500", "eos 0"}, ev.list())
}

func TestLayer_ClientErrorNotFailure(t *testing.T) {
	rec, ev := xspantest.NewRecorder(), &eventLog{}
	layer := newTracedLayer(rec, ev)

	serve(layer.Handler(http.NotFoundHandler()), http.MethodGet, "/missing")
	for _, e := range ev.list() {
		assert.False(t, strings.HasPrefix(e, "failure"), e)
	}
}

func TestLayer_CustomClassifier(t *testing.T) {
	cl, err := xhttptrace.StatusInRangeAsFailures(400, 599)
	require.NoError(t, err)
	rec, ev := xspantest.NewRecorder(), &eventLog{}
	layer := newTracedLayer(rec, ev, xhttptrace.WithClassifier(cl))

	serve(layer.Handler(http.NotFoundHandler()), http.MethodGet, "/missing")
	assert.Contains(t, ev.list(), "failure Status code: 404")
}

func TestLayer_InformationalIgnored(t *testing.T) {
	rec, ev := xspantest.NewRecorder(), &eventLog{}
	layer := newTracedLayer(rec, ev)

	h := layer.Handler(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusEarlyHints)
		w.WriteHeader(http.StatusAccepted)
	}))
	serve(h, http.MethodGet, "/d")
	assert.Equal(t, []string{"request /d", "response 202", "eos 0"}, ev.list())
}

func TestLayer_FlushCommitsResponse(t *testing.T) {
	rec, ev := xspantest.NewRecorder(), &eventLog{}
	layer := newTracedLayer(rec, ev)

	h := layer.Handler(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		f, ok := w.(http.Flusher)
		require.True(t, ok, "包装后的 writer 应保留 http.Flusher")
		f.Flush()
	}))
	serve(h, http.MethodGet, "/e")
	assert.Equal(t, []string{"request /e", "response 200", "eos 0"}, ev.list())
}

func TestLayer_Trailers(t *testing.T) {
	rec := xspantest.NewRecorder()
	var got http.Header
	layer := xhttptrace.New(
		xhttptrace.WithMakeSpan(xhttptrace.DefaultMakeSpan(rec)),
		xhttptrace.WithOnEOS(xhttptrace.OnEOSFunc(func(trailers http.Header, _ time.Duration, _ xspan.Span) {
			got = trailers
		})),
	)

	h := layer.Handler(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Trailer", "X-Checksum")
		_, _ = io.WriteString(w, "body")
		w.Header().Set("X-Checksum", "abc")
		w.Header().Set(http.TrailerPrefix+"X-Late", "late")
	}))
	serve(h, http.MethodGet, "/t")

	assert.Equal(t, "abc", got.Get("X-Checksum"))
	assert.Equal(t, "late", got.Get("X-Late"))
}

// ============================================================================
// 错误与 panic
// ============================================================================

type failingWriter struct {
	header http.Header
	calls  int
}

func (w *failingWriter) Header() http.Header { return w.header }
func (w *failingWriter) WriteHeader(int)     {}
func (w *failingWriter) Write([]byte) (int, error) {
	w.calls++
	return 0, fmt.Errorf("write %d: broken pipe", w.calls)
}

func TestLayer_OnlyFirstWriteErrorClassified(t *testing.T) {
	rec, ev := xspantest.NewRecorder(), &eventLog{}
	layer := newTracedLayer(rec, ev)

	h := layer.Handler(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("a"))
		_, _ = w.Write([]byte("b"))
	}))
	h.ServeHTTP(&failingWriter{header: http.Header{}}, httptest.NewRequest(http.MethodGet, "/w", nil))

	assert.Equal(t, []string{"request /w", "response 200", "failure Error: write 1: broken pipe", "eos 0"}, ev.list())
}

func TestLayer_PanicClassifiedAndReraised(t *testing.T) {
	rec, ev := xspantest.NewRecorder(), &eventLog{}
	var buf bytes.Buffer
	logger, _, err := xlog.New().SetOutput(&buf).Build()
	require.NoError(t, err)
	layer := newTracedLayer(rec, ev, xhttptrace.WithLogger(logger))

	h := layer.Handler(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	assert.PanicsWithValue(t, "boom", func() {
		serve(h, http.MethodGet, "/p")
	})

	events := ev.list()
	require.Len(t, events, 2)
	assert.Equal(t, "request /p", events[0])
	assert.True(t, strings.HasPrefix(events[1], "failure Error: xhttptrace: handler panicked: boom"), events[1])
	assert.True(t, rec.Last().Ended())
	assert.Contains(t, buf.String(), "handler panicked")
}

func TestLayer_AbortHandlerNotLogged(t *testing.T) {
	var buf bytes.Buffer
	logger, _, err := xlog.New().SetOutput(&buf).Build()
	require.NoError(t, err)
	layer := xhttptrace.New(
		xhttptrace.WithLogger(logger),
		xhttptrace.WithOnFailure(xhttptrace.Nop()),
	)

	h := layer.Handler(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic(http.ErrAbortHandler)
	}))
	assert.Panics(t, func() { serve(h, http.MethodGet, "/abort") })
	assert.NotContains(t, buf.String(), "handler panicked")
}

// ============================================================================
// 默认值与上下文
// ============================================================================

func TestLayer_SpanInRequestContext(t *testing.T) {
	rec := xspantest.NewRecorder()
	layer := xhttptrace.New(xhttptrace.WithMakeSpan(xhttptrace.MakeSpanFunc(func(*http.Request) xspan.Span {
		return rec.NewSpan("s", xspan.Empty("handler"))
	})))

	h := layer.Handler(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		xspan.FromContext(r.Context()).Record("handler", "seen")
	}))
	serve(h, http.MethodGet, "/")
	assert.Equal(t, "seen", rec.Last().Value("handler"))
}

func TestLayer_NilSpanFallsBackToNoop(t *testing.T) {
	layer := xhttptrace.New(
		xhttptrace.WithMakeSpan(xhttptrace.MakeSpanFunc(func(*http.Request) xspan.Span { return nil })),
		xhttptrace.WithOnFailure(xhttptrace.Nop()),
		xhttptrace.WithOnResponse(xhttptrace.Nop()),
	)
	assert.NotPanics(t, func() {
		serve(layer.Middleware()(http.NotFoundHandler()), http.MethodGet, "/")
	})
}

func TestLayer_DefaultHooksLog(t *testing.T) {
	var buf bytes.Buffer
	logger, _, err := xlog.New().SetOutput(&buf).SetLevel(xlog.LevelDebug).Build()
	require.NoError(t, err)
	layer := xhttptrace.New(xhttptrace.WithLogger(logger), nil)

	h := layer.Handler(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	serve(h, http.MethodGet, "/")

	out := buf.String()
	assert.Contains(t, out, "finished processing request")
	assert.Contains(t, out, "status_code=502")
	assert.Contains(t, out, "response failed")
	assert.Contains(t, out, `classification="Status code: 502"`)
}

// ============================================================================
// 连接劫持
// ============================================================================

// hijackServer 启动真实服务器，handler 劫持连接后原样写出 raw
func hijackServer(t *testing.T, layer *xhttptrace.Layer, raw string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(layer.Handler(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		conn, bufrw, err := http.NewResponseController(w).Hijack()
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		defer func() { _ = conn.Close() }()
		_, _ = bufrw.WriteString(raw)
		_ = bufrw.Flush()
	})))
	t.Cleanup(srv.Close)
	return srv
}

// rawStatusLine 发送 req 并读取响应状态行
func rawStatusLine(t *testing.T, srv *httptest.Server, req string) string {
	t.Helper()
	conn, err := net.Dial("tcp", srv.Listener.Addr().String())
	require.NoError(t, err)
	defer func() { _ = conn.Close() }()

	_, err = io.WriteString(conn, req)
	require.NoError(t, err)
	line, err := bufio.NewReader(conn).ReadString('\n')
	require.NoError(t, err)
	return strings.TrimSpace(line)
}

func waitEnded(t *testing.T, rec *xspantest.Recorder) *xspantest.Span {
	t.Helper()
	require.Eventually(t, func() bool {
		span := rec.Last()
		return span != nil && span.Ended()
	}, 5*time.Second, 10*time.Millisecond)
	return rec.Last()
}

func TestLayer_HijackedUpgrade(t *testing.T) {
	rec, ev := xspantest.NewRecorder(), &eventLog{}
	srv := hijackServer(t, newTracedLayer(rec, ev),
		"HTTP/1.1 101 Switching Protocols\r\nUpgrade: echo\r\nConnection: Upgrade\r\n\r\n")

	line := rawStatusLine(t, srv,
		"GET /ws HTTP/1.1\r\nHost: test\r\nConnection: Upgrade\r\nUpgrade: echo\r\n\r\n")
	assert.Equal(t, "HTTP/1.1 101 Switching Protocols", line)

	span := waitEnded(t, rec)
	assert.Equal(t, 1, span.EndCount())
	assert.Equal(t, []string{"request /ws", "response 101"}, ev.list())
}

func TestLayer_HijackedWithoutUpgrade(t *testing.T) {
	rec, ev := xspantest.NewRecorder(), &eventLog{}
	srv := hijackServer(t, newTracedLayer(rec, ev),
		"HTTP/1.1 500 Internal Server Error\r\nContent-Length: 0\r\n\r\n")

	line := rawStatusLine(t, srv, "GET /raw HTTP/1.1\r\nHost: test\r\n\r\n")
	assert.Equal(t, "HTTP/1.1 500 Internal Server Error", line)

	waitEnded(t, rec)
	assert.Equal(t, []string{"request /raw"}, ev.list(), "劫持后不补发隐式 200，也不触发 OnEOS")
}

// ============================================================================
// 指标
// ============================================================================

func TestLayer_Metrics(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })

	layer := xhttptrace.New(
		xhttptrace.WithMeterProvider(mp),
		xhttptrace.WithInstrumentationName("test"),
		xhttptrace.WithOnFailure(xhttptrace.Nop()),
		xhttptrace.WithOnResponse(xhttptrace.Nop()),
	)
	h := layer.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/fail" {
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))

	routed := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h.ServeHTTP(w, xreqext.InsertRequest(r, xreqext.MatchedPath("/users/{id}")))
	})
	serve(routed, http.MethodGet, "/users/1")
	serve(h, "BREW", "/fail")

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	require.Len(t, rm.ScopeMetrics, 1)
	assert.Equal(t, "test", rm.ScopeMetrics[0].Scope.Name)

	var total metricdata.Sum[int64]
	var histogram metricdata.Histogram[float64]
	for _, m := range rm.ScopeMetrics[0].Metrics {
		switch m.Name {
		case "http.server.request.total":
			total = m.Data.(metricdata.Sum[int64])
		case "http.server.request.duration":
			histogram = m.Data.(metricdata.Histogram[float64])
		}
	}
	require.Len(t, total.DataPoints, 2)
	require.Len(t, histogram.DataPoints, 2)

	seen := map[string]bool{}
	for _, dp := range total.DataPoints {
		method, _ := dp.Attributes.Value("method")
		outcome, _ := dp.Attributes.Value("outcome")
		status, _ := dp.Attributes.Value("status")
		route, hasRoute := dp.Attributes.Value("route")
		assert.Equal(t, int64(1), dp.Value)
		switch method.AsString() {
		case "GET":
			assert.Equal(t, "ok", outcome.AsString())
			assert.Equal(t, int64(200), status.AsInt64())
			require.True(t, hasRoute)
			assert.Equal(t, "/users/{id}", route.AsString())
		case "_OTHER":
			assert.Equal(t, "error", outcome.AsString())
			assert.Equal(t, int64(500), status.AsInt64())
			assert.False(t, hasRoute)
		}
		seen[method.AsString()] = true
	}
	assert.True(t, seen["GET"])
	assert.True(t, seen["_OTHER"])
}

func TestErrHandlerPanicWrapped(t *testing.T) {
	err := fmt.Errorf("%w: %v", xhttptrace.ErrHandlerPanic, "x")
	assert.True(t, errors.Is(err, xhttptrace.ErrHandlerPanic))
}
