package xhttpotel

import (
	"github.com/omeyang/xotelkit/pkg/observability/xhttptrace"
	"github.com/omeyang/xotelkit/pkg/observability/xpropagate"
	"github.com/omeyang/xotelkit/pkg/observability/xspan"
)

type config struct {
	recorder     xspan.Recorder
	extractor    xpropagate.Extractor
	layerOptions []xhttptrace.Option
}

// Option 配置选项。
type Option func(*config)

// WithRecorder 设置 span 后端。
func WithRecorder(rec xspan.Recorder) Option {
	return func(c *config) {
		if rec != nil {
			c.recorder = rec
		}
	}
}

// WithExtractor 设置远端 trace context 的 extractor。
func WithExtractor(ex xpropagate.Extractor) Option {
	return func(c *config) {
		if ex != nil {
			c.extractor = ex
		}
	}
}

// WithLayerOptions 透传宿主选项（logger、指标等）。
// 回调与分类器由 Layer 固定设置，在此传入会被覆盖。
func WithLayerOptions(opts ...xhttptrace.Option) Option {
	return func(c *config) {
		c.layerOptions = append(c.layerOptions, opts...)
	}
}

func newConfig(opts []Option) *config {
	cfg := &config{}
	for _, opt := range opts {
		if opt != nil {
			opt(cfg)
		}
	}
	if cfg.recorder == nil {
		cfg.recorder = xspan.NewOTelRecorder()
	}
	if cfg.extractor == nil {
		cfg.extractor = xpropagate.Global()
	}
	return cfg
}
