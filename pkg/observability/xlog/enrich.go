package xlog

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/trace"

	"github.com/omeyang/xotelkit/pkg/context/xreqext"
)

// EnrichHandler 自动从 context 提取追踪信息并注入日志
//
// 装饰模式实现，包装底层 slog.Handler，在 Handle() 时添加：
//   - trace_id, span_id：OpenTelemetry span context 有效时
//   - request_id：xreqext.RequestID 扩展存在时
//
// 缺少的字段直接跳过，不影响日志记录。
type EnrichHandler struct {
	base slog.Handler
}

// NewEnrichHandler 创建 EnrichHandler
//
// 调用 WithGroup 后，注入的属性会被归入 group 下（slog handler 架构的固有限制）。
func NewEnrichHandler(base slog.Handler) (*EnrichHandler, error) {
	if base == nil {
		return nil, ErrNilHandler
	}
	return &EnrichHandler{base: base}, nil
}

// Enabled 委托给底层 handler
func (h *EnrichHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.base.Enabled(ctx, level)
}

// Handle 根据 slog 契约，修改前必须 Clone record。
func (h *EnrichHandler) Handle(ctx context.Context, r slog.Record) error {
	var buf [3]slog.Attr
	attrs := appendContextAttrs(buf[:0], ctx)
	if len(attrs) > 0 {
		r = r.Clone()
		r.AddAttrs(attrs...)
	}
	return h.base.Handle(ctx, r)
}

// WithAttrs 返回带额外属性的新 handler
func (h *EnrichHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &EnrichHandler{base: h.base.WithAttrs(attrs)}
}

// WithGroup 返回带分组的新 handler
func (h *EnrichHandler) WithGroup(name string) slog.Handler {
	return &EnrichHandler{base: h.base.WithGroup(name)}
}

func appendContextAttrs(attrs []slog.Attr, ctx context.Context) []slog.Attr {
	if ctx == nil {
		return attrs
	}
	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		attrs = append(attrs,
			slog.String(KeyTraceID, sc.TraceID().String()),
			slog.String(KeySpanID, sc.SpanID().String()),
		)
	}
	if id, ok := xreqext.RequestIDFrom(ctx); ok {
		attrs = append(attrs, slog.String(KeyRequestID, id))
	}
	return attrs
}
