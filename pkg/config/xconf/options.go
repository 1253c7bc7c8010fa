package xconf

import "time"

// Format 配置格式。
type Format string

// 支持的格式。
const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

type options struct {
	delim          string
	tag            string
	defaults       []byte
	defaultsFormat Format
}

// Option 加载选项。
type Option func(*options)

func newOptions(opts []Option) *options {
	o := &options{delim: ".", tag: "koanf"}
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
	return o
}

// WithDelim 设置键分隔符，默认 "."。
func WithDelim(delim string) Option {
	return func(o *options) {
		if delim != "" {
			o.delim = delim
		}
	}
}

// WithTag 设置 Unmarshal 使用的结构体标签，默认 "koanf"。
func WithTag(tag string) Option {
	return func(o *options) {
		if tag != "" {
			o.tag = tag
		}
	}
}

// WithDefaults 设置默认配置，先于配置文件加载，每次 Reload 都会重新应用。
func WithDefaults(data []byte, format Format) Option {
	copied := append([]byte(nil), data...)
	return func(o *options) {
		o.defaults = copied
		o.defaultsFormat = format
	}
}

type watchOptions struct {
	debounce time.Duration
}

// WatchOption 监视选项。
type WatchOption func(*watchOptions)

// DefaultDebounce 默认防抖窗口。
const DefaultDebounce = 100 * time.Millisecond

// WithDebounce 设置防抖窗口，不大于 0 时使用默认值。
func WithDebounce(d time.Duration) WatchOption {
	return func(o *watchOptions) {
		if d > 0 {
			o.debounce = d
		}
	}
}
