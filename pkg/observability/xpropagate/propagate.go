package xpropagate

import (
	"context"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
)

// Extractor 从 Header 提取远端 trace context。
type Extractor interface {
	Extract(ctx context.Context, header http.Header) context.Context
}

// Injector 把 context 中的 trace context 写入 Header。
type Injector interface {
	Inject(ctx context.Context, header http.Header)
}

// Propagator 组合 Extractor 与 Injector。
type Propagator interface {
	Extractor
	Injector
}

// ExtractorFunc 函数适配器。
type ExtractorFunc func(ctx context.Context, header http.Header) context.Context

// Extract 调用 f 本身。
func (f ExtractorFunc) Extract(ctx context.Context, header http.Header) context.Context {
	return f(ctx, header)
}

// Global 返回使用 OTel 全局 propagator 的实现。
// 全局 propagator 在每次调用时读取，因此启动后调用 otel.SetTextMapPropagator 也会生效。
func Global() Propagator {
	return textMap{get: otel.GetTextMapPropagator}
}

// Default 返回 W3C TraceContext + Baggage 组合实现。
func Default() Propagator {
	return New(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))
}

// New 包装给定 propagator，nil 时等价于 Default()。
func New(p propagation.TextMapPropagator) Propagator {
	if p == nil {
		return Default()
	}
	return textMap{get: func() propagation.TextMapPropagator { return p }}
}

type textMap struct {
	get func() propagation.TextMapPropagator
}

func (t textMap) Extract(ctx context.Context, header http.Header) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	if len(header) == 0 {
		return ctx
	}
	return t.get().Extract(ctx, propagation.HeaderCarrier(header))
}

func (t textMap) Inject(ctx context.Context, header http.Header) {
	if ctx == nil || header == nil {
		return
	}
	t.get().Inject(ctx, propagation.HeaderCarrier(header))
}

// InjectRequest 把 ctx 中的 trace context 写入出站请求。
// inj 为 nil 时使用 Global()；req.Header 为 nil 时自动创建。
func InjectRequest(ctx context.Context, inj Injector, req *http.Request) {
	if req == nil {
		return
	}
	if inj == nil {
		inj = Global()
	}
	if req.Header == nil {
		req.Header = make(http.Header)
	}
	inj.Inject(ctx, req.Header)
}
