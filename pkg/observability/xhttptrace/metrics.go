package xhttptrace

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/omeyang/xotelkit/pkg/context/xreqext"
)

const (
	metricRequestTotal    = "http.server.request.total"
	metricRequestDuration = "http.server.request.duration"

	outcomeOK    = "ok"
	outcomeError = "error"

	// methodOther 非标准方法统一归并，避免指标基数膨胀
	methodOther = "_OTHER"
)

type requestMetrics struct {
	total    metric.Int64Counter
	duration metric.Float64Histogram
}

func newRequestMetrics(mp metric.MeterProvider, name string) (*requestMetrics, error) {
	meter := mp.Meter(name)

	total, err := meter.Int64Counter(
		metricRequestTotal,
		metric.WithDescription("total http server requests"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCreateInstrument, err)
	}

	duration, err := meter.Float64Histogram(
		metricRequestDuration,
		metric.WithDescription("http server request duration"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCreateInstrument, err)
	}

	return &requestMetrics{total: total, duration: duration}, nil
}

// record 使用不可取消的 context，请求已取消时仍记录指标。status 为 0 时不带 status 属性
func (m *requestMetrics) record(ctx context.Context, r *http.Request, status int, failed bool, elapsed time.Duration) {
	if m == nil {
		return
	}
	outcome := outcomeOK
	if failed {
		outcome = outcomeError
	}
	attrs := make([]attribute.KeyValue, 0, 4)
	attrs = append(attrs,
		attribute.String("method", metricMethod(r.Method)),
		attribute.String("outcome", outcome),
	)
	if status != 0 {
		attrs = append(attrs, attribute.Int("status", status))
	}
	if route, ok := xreqext.MatchedPathFrom(r.Context()); ok {
		attrs = append(attrs, attribute.String("route", route))
	}

	ctx = context.WithoutCancel(ctx)
	opt := metric.WithAttributes(attrs...)
	m.total.Add(ctx, 1, opt)
	m.duration.Record(ctx, elapsed.Seconds(), opt)
}

func metricMethod(method string) string {
	switch method {
	case http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete,
		http.MethodHead, http.MethodOptions, http.MethodConnect, http.MethodTrace:
		return method
	default:
		return methodOther
	}
}
