package xhttpotel

import (
	"net/http"

	"go.opentelemetry.io/otel/trace"

	"github.com/omeyang/xotelkit/pkg/context/xreqext"
	"github.com/omeyang/xotelkit/pkg/observability/xspan"
)

// MakeSpan 为请求创建 span 并填充字段，远端 trace context 作为父 context。
func (m *Mapper) MakeSpan(r *http.Request) xspan.Span {
	ctx := r.Context()

	remote := m.extractor.Extract(ctx, r.Header)
	traceID := ""
	if sc := trace.SpanContextFromContext(remote); sc.IsValid() {
		traceID = sc.TraceID().String()
	}

	route := r.URL.Path
	target := r.URL.Path
	if u, ok := xreqext.OriginalURIFrom(ctx); ok {
		route = u.Path
		target = u.Path
	}
	if p, ok := xreqext.MatchedPathFrom(ctx); ok {
		route = p
	}

	clientIP := ""
	if info, ok := xreqext.ConnectInfoFrom(ctx); ok {
		clientIP = info.String()
	}

	requestID := ""
	if id, ok := xreqext.RequestIDFrom(ctx); ok {
		requestID = headerText(id)
	}

	span := m.recorder.NewSpan(SpanName,
		xspan.String(KeyClientIP, clientIP),
		xspan.String(KeyFlavor, httpFlavor(r)),
		xspan.String(KeyHost, httpHost(r)),
		xspan.String(KeyMethod, httpMethod(r.Method)),
		xspan.String(KeyRoute, route),
		xspan.String(KeyScheme, httpScheme(r.URL.Scheme)),
		xspan.Empty(KeyStatusCode),
		xspan.String(KeyTarget, target),
		xspan.String(KeyUserAgent, headerText(r.Header.Get("User-Agent"))),
		xspan.String(KeyOTelKind, kindServer),
		xspan.Empty(KeyOTelStatus),
		xspan.String(KeyRequestID, requestID),
		xspan.String(KeyTraceID, traceID),
	)
	span.SetParent(remote)
	return span
}
