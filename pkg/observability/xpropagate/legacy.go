package xpropagate

import (
	"context"
	"strconv"
	"strings"

	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

// 自定义追踪头
const (
	HeaderTraceID    = "X-Trace-ID"
	HeaderSpanID     = "X-Span-ID"
	HeaderTraceFlags = "X-Trace-Flags"
)

// LegacyHeaders 基于 X-Trace-ID / X-Span-ID / X-Trace-Flags 的 TextMapPropagator。
//
// X-Trace-ID 为 32 位十六进制，X-Span-ID 为 16 位十六进制，X-Trace-Flags 为 2 位十六进制。
// 缺少 X-Trace-Flags 时视为已采样。
type LegacyHeaders struct{}

var _ propagation.TextMapPropagator = LegacyHeaders{}

// Inject 实现 propagation.TextMapPropagator。
func (LegacyHeaders) Inject(ctx context.Context, carrier propagation.TextMapCarrier) {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return
	}
	carrier.Set(HeaderTraceID, sc.TraceID().String())
	carrier.Set(HeaderSpanID, sc.SpanID().String())
	carrier.Set(HeaderTraceFlags, sc.TraceFlags().String())
}

// Extract 实现 propagation.TextMapPropagator。任一头缺失或格式错误时返回原 ctx。
func (LegacyHeaders) Extract(ctx context.Context, carrier propagation.TextMapCarrier) context.Context {
	traceID, err := trace.TraceIDFromHex(strings.TrimSpace(carrier.Get(HeaderTraceID)))
	if err != nil {
		return ctx
	}
	spanID, err := trace.SpanIDFromHex(strings.TrimSpace(carrier.Get(HeaderSpanID)))
	if err != nil {
		return ctx
	}

	flags := trace.FlagsSampled
	if raw := strings.TrimSpace(carrier.Get(HeaderTraceFlags)); raw != "" {
		parsed, err := strconv.ParseUint(raw, 16, 8)
		if err != nil {
			return ctx
		}
		flags = trace.TraceFlags(parsed)
	}

	sc := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: flags,
		Remote:     true,
	})
	return trace.ContextWithRemoteSpanContext(ctx, sc)
}

// Fields 实现 propagation.TextMapPropagator。
func (LegacyHeaders) Fields() []string {
	return []string{HeaderTraceID, HeaderSpanID, HeaderTraceFlags}
}
