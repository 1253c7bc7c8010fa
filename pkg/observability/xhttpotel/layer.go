package xhttpotel

import (
	"net/http"

	"github.com/omeyang/xotelkit/pkg/observability/xhttptrace"
	"github.com/omeyang/xotelkit/pkg/observability/xpropagate"
	"github.com/omeyang/xotelkit/pkg/observability/xspan"
)

var (
	_ xhttptrace.MakeSpan    = (*Mapper)(nil)
	_ xhttptrace.OnRequest   = (*Mapper)(nil)
	_ xhttptrace.OnResponse  = (*Mapper)(nil)
	_ xhttptrace.OnBodyChunk = (*Mapper)(nil)
	_ xhttptrace.OnEOS       = (*Mapper)(nil)
	_ xhttptrace.OnFailure   = (*Mapper)(nil)
)

// Mapper 实现 xhttptrace 的全部回调。无状态，可并发共享。
type Mapper struct {
	recorder  xspan.Recorder
	extractor xpropagate.Extractor
}

// New 创建 Mapper。
// 默认 span 后端为 xspan.NewOTelRecorder()，默认 extractor 为 xpropagate.Global()。
func New(opts ...Option) *Mapper {
	cfg := newConfig(opts)
	return &Mapper{recorder: cfg.recorder, extractor: cfg.extractor}
}

// Layer 返回装配好全部回调的 xhttptrace.Layer，分类器为 ServerErrorsAsFailures。
func Layer(opts ...Option) *xhttptrace.Layer {
	cfg := newConfig(opts)
	m := &Mapper{recorder: cfg.recorder, extractor: cfg.extractor}

	layerOpts := make([]xhttptrace.Option, 0, 7+len(cfg.layerOptions))
	layerOpts = append(layerOpts, cfg.layerOptions...)
	layerOpts = append(layerOpts,
		xhttptrace.WithClassifier(xhttptrace.ServerErrorsAsFailures()),
		xhttptrace.WithMakeSpan(m),
		xhttptrace.WithOnRequest(m),
		xhttptrace.WithOnResponse(m),
		xhttptrace.WithOnBodyChunk(m),
		xhttptrace.WithOnEOS(m),
		xhttptrace.WithOnFailure(m),
	)
	return xhttptrace.New(layerOpts...)
}

// Middleware 返回中间件形式的 Layer。
func Middleware(opts ...Option) func(http.Handler) http.Handler {
	return Layer(opts...).Middleware()
}
