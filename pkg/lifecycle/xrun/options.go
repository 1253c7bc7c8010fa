package xrun

import (
	"os"
	"syscall"

	"github.com/omeyang/xotelkit/pkg/observability/xlog"
)

// Option Group 选项。
type Option func(*options)

type options struct {
	logger   xlog.Logger
	name     string
	signals  []os.Signal
	noSignal bool
}

func newOptions(opts []Option) *options {
	o := &options{name: "xrun"}
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
	return o
}

func (o *options) log() xlog.Logger {
	if o.logger != nil {
		return o.logger
	}
	return xlog.Default()
}

// DefaultSignals 返回默认监听的信号，每次返回新切片。
func DefaultSignals() []os.Signal {
	return []os.Signal{syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT}
}

// WithLogger 设置生命周期日志的 logger，默认 xlog.Default()。
func WithLogger(l xlog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithName 设置日志中的 group 名称，默认 "xrun"。
func WithName(name string) Option {
	return func(o *options) {
		if name != "" {
			o.name = name
		}
	}
}

// WithSignals 设置 Run 监听的信号，空列表表示默认信号。
func WithSignals(signals ...os.Signal) Option {
	copied := append([]os.Signal(nil), signals...)
	return func(o *options) {
		o.signals = copied
	}
}

// WithoutSignalHandler 禁用 Run 的信号处理。
func WithoutSignalHandler() Option {
	return func(o *options) {
		o.noSignal = true
	}
}
