package xspan

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	defaultInstrumentationName = "github.com/omeyang/xotelkit/pkg/observability/xspan"

	// KeyKind 映射为 OTel span kind 的字段名。
	KeyKind = "otel.kind"
	// KeyStatusCode 映射为 OTel span status 的字段名。
	KeyStatusCode = "otel.status_code"
)

type otelConfig struct {
	instrumentationName string
	tracerProvider      trace.TracerProvider
}

// OTelOption 定义 OTel 后端的配置选项。
type OTelOption func(*otelConfig)

// WithInstrumentationName 设置 OTel instrumentation 名称。
func WithInstrumentationName(name string) OTelOption {
	return func(cfg *otelConfig) {
		if name != "" {
			cfg.instrumentationName = name
		}
	}
}

// WithTracerProvider 设置 TracerProvider，nil 时使用全局 provider。
func WithTracerProvider(provider trace.TracerProvider) OTelOption {
	return func(cfg *otelConfig) {
		if provider != nil {
			cfg.tracerProvider = provider
		}
	}
}

// NewOTelRecorder 创建基于 OpenTelemetry 的后端。
//
// OTel span 延迟到父 context 确定后（首次 Context 或 End）才真正启动，
// 启动时间戳取 NewSpan 调用时刻。span 状态在 End 时按 otel.status_code
// 的最终值一次性写入，因此 OK 之后改写为 ERROR 可以生效。
func NewOTelRecorder(opts ...OTelOption) Recorder {
	cfg := &otelConfig{
		instrumentationName: defaultInstrumentationName,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(cfg)
		}
	}
	provider := cfg.tracerProvider
	if provider == nil {
		provider = otel.GetTracerProvider()
	}
	return &otelRecorder{tracer: provider.Tracer(cfg.instrumentationName)}
}

type otelRecorder struct {
	tracer trace.Tracer
}

func (r *otelRecorder) NewSpan(name string, fields ...Field) Span {
	return &otelSpan{
		tracer:  r.tracer,
		name:    name,
		fields:  NewFields(fields...),
		created: time.Now(),
	}
}

type otelSpan struct {
	tracer  trace.Tracer
	name    string
	fields  *Fields
	created time.Time

	mu     sync.Mutex
	parent context.Context
	span   trace.Span
	ended  bool
}

func (s *otelSpan) Record(key, value string) {
	s.fields.Record(key, value)
}

func (s *otelSpan) SetParent(parent context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.span == nil {
		s.parent = parent
	}
}

func (s *otelSpan) Context(ctx context.Context) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	s.mu.Lock()
	sp := s.startLocked()
	s.mu.Unlock()
	return trace.ContextWithSpan(ctx, sp)
}

func (s *otelSpan) End() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ended {
		return
	}
	s.ended = true

	sp := s.startLocked()
	if attrs := s.attributes(); len(attrs) > 0 {
		sp.SetAttributes(attrs...)
	}
	if status, ok := s.fields.Get(KeyStatusCode); ok {
		code, desc := mapStatus(status)
		if code != codes.Unset {
			sp.SetStatus(code, desc)
		}
	}
	sp.End()
}

// startLocked 启动底层 OTel span，调用方需持有 s.mu。
func (s *otelSpan) startLocked() trace.Span {
	if s.span != nil {
		return s.span
	}
	parent := s.parent
	if parent == nil {
		parent = context.Background()
	}
	kind, _ := s.fields.Get(KeyKind)
	_, s.span = s.tracer.Start(parent, s.name,
		trace.WithTimestamp(s.created),
		trace.WithSpanKind(mapSpanKind(kind)),
		trace.WithAttributes(s.attributes()...),
	)
	return s.span
}

func (s *otelSpan) attributes() []attribute.KeyValue {
	snapshot := s.fields.Snapshot()
	attrs := make([]attribute.KeyValue, 0, len(snapshot))
	for _, f := range snapshot {
		if !f.Recorded || f.Key == KeyKind || f.Key == KeyStatusCode {
			continue
		}
		attrs = append(attrs, attribute.String(f.Key, f.Value))
	}
	return attrs
}

func mapSpanKind(kind string) trace.SpanKind {
	switch strings.ToLower(kind) {
	case "server":
		return trace.SpanKindServer
	case "client":
		return trace.SpanKindClient
	case "producer":
		return trace.SpanKindProducer
	case "consumer":
		return trace.SpanKindConsumer
	default:
		return trace.SpanKindInternal
	}
}

func mapStatus(status string) (codes.Code, string) {
	switch strings.ToUpper(status) {
	case "OK":
		return codes.Ok, ""
	case "ERROR":
		return codes.Error, ""
	default:
		return codes.Unset, ""
	}
}
