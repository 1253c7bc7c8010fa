package xhttptrace

import (
	"go.opentelemetry.io/otel/metric"

	"github.com/omeyang/xotelkit/pkg/observability/xlog"
)

const defaultInstrumentationName = "github.com/omeyang/xotelkit/pkg/observability/xhttptrace"

type config struct {
	makeSpan            MakeSpan
	onRequest           OnRequest
	onResponse          OnResponse
	onBodyChunk         OnBodyChunk
	onEOS               OnEOS
	onFailure           OnFailure
	classifier          Classifier
	logger              xlog.Logger
	meterProvider       metric.MeterProvider
	instrumentationName string
}

// Option 定义 Layer 的配置选项。nil 值被忽略，保留默认值。
type Option func(*config)

// WithMakeSpan 设置 span 工厂。
func WithMakeSpan(m MakeSpan) Option {
	return func(c *config) {
		if m != nil {
			c.makeSpan = m
		}
	}
}

// WithOnRequest 设置请求回调。
func WithOnRequest(h OnRequest) Option {
	return func(c *config) {
		if h != nil {
			c.onRequest = h
		}
	}
}

// WithOnResponse 设置响应回调。
func WithOnResponse(h OnResponse) Option {
	return func(c *config) {
		if h != nil {
			c.onResponse = h
		}
	}
}

// WithOnBodyChunk 设置响应体回调。
func WithOnBodyChunk(h OnBodyChunk) Option {
	return func(c *config) {
		if h != nil {
			c.onBodyChunk = h
		}
	}
}

// WithOnEOS 设置响应结束回调。
func WithOnEOS(h OnEOS) Option {
	return func(c *config) {
		if h != nil {
			c.onEOS = h
		}
	}
}

// WithOnFailure 设置失败回调。
func WithOnFailure(h OnFailure) Option {
	return func(c *config) {
		if h != nil {
			c.onFailure = h
		}
	}
}

// WithClassifier 设置失败分类器，默认 ServerErrorsAsFailures。
func WithClassifier(cl Classifier) Option {
	return func(c *config) {
		if cl != nil {
			c.classifier = cl
		}
	}
}

// WithLogger 设置 Layer 自身使用的 logger（panic、指标初始化失败、默认回调）。
func WithLogger(l xlog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithMeterProvider 启用请求指标。
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(c *config) {
		if mp != nil {
			c.meterProvider = mp
		}
	}
}

// WithInstrumentationName 设置指标的 instrumentation 名称。
func WithInstrumentationName(name string) Option {
	return func(c *config) {
		if name != "" {
			c.instrumentationName = name
		}
	}
}
