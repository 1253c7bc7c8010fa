package xlog

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"sync/atomic"
)

// Builder 日志配置构建器，一次性使用
type Builder struct {
	output       io.Writer
	levelVar     *slog.LevelVar
	format       string
	addSource    bool
	enableEnrich bool
	closer       io.Closer
	onError      func(error)
	attrs        []slog.Attr
	err          error
}

// New 创建配置构建器：stderr、Info 级别、text 格式、启用 enrich
func New() *Builder {
	levelVar := new(slog.LevelVar)
	levelVar.Set(slog.LevelInfo)
	return &Builder{
		output:       os.Stderr,
		levelVar:     levelVar,
		format:       "text",
		enableEnrich: true,
	}
}

func (b *Builder) fail(err error) *Builder {
	if b.err == nil {
		b.err = err
	}
	return b
}

// SetOutput 设置日志输出目标
func (b *Builder) SetOutput(w io.Writer) *Builder {
	if w == nil {
		return b.fail(ErrNilOutput)
	}
	b.output = w
	return b
}

// SetLevel 设置日志级别
func (b *Builder) SetLevel(level Level) *Builder {
	b.levelVar.Set(slog.Level(level))
	return b
}

// SetLevelString 通过字符串设置日志级别
func (b *Builder) SetLevelString(s string) *Builder {
	level, err := ParseLevel(s)
	if err != nil {
		return b.fail(err)
	}
	return b.SetLevel(level)
}

// SetFormat 设置输出格式：text 或 json；空值使用 text
func (b *Builder) SetFormat(format string) *Builder {
	normalized := strings.ToLower(strings.TrimSpace(format))
	switch normalized {
	case "":
		b.format = "text"
	case "text", "json":
		b.format = normalized
	default:
		return b.fail(fmt.Errorf("%w: %q", ErrUnknownFormat, format))
	}
	return b
}

// SetAddSource 是否在日志中添加源码位置
func (b *Builder) SetAddSource(enable bool) *Builder {
	b.addSource = enable
	return b
}

// SetEnrich 是否启用 context 信息自动注入
func (b *Builder) SetEnrich(enable bool) *Builder {
	b.enableEnrich = enable
	return b
}

// SetRotation 输出到按大小轮转的文件（lumberjack），cleanup 时关闭文件
func (b *Builder) SetRotation(filename string, opts ...RotateOption) *Builder {
	rotator, err := newRotator(filename, opts...)
	if err != nil {
		return b.fail(err)
	}
	b.output = rotator
	b.closer = rotator
	return b
}

// SetOnError 设置内部错误回调（Handler.Handle 失败时同步调用）
func (b *Builder) SetOnError(fn func(error)) *Builder {
	b.onError = fn
	return b
}

// SetAttrs 设置每条日志都携带的固定属性（如 service 名称）
func (b *Builder) SetAttrs(attrs ...slog.Attr) *Builder {
	b.attrs = append(b.attrs, attrs...)
	return b
}

// Build 构建 Logger 实例
//
// 返回的清理函数用于释放资源（如关闭轮转文件），可重复调用。
func (b *Builder) Build() (LoggerWithLevel, func() error, error) {
	if b.err != nil {
		return nil, nil, b.err
	}

	opts := &slog.HandlerOptions{
		Level:     b.levelVar,
		AddSource: b.addSource,
	}
	var handler slog.Handler
	if b.format == "json" {
		handler = slog.NewJSONHandler(b.output, opts)
	} else {
		handler = slog.NewTextHandler(b.output, opts)
	}
	if len(b.attrs) > 0 {
		handler = handler.WithAttrs(b.attrs)
	}
	if b.enableEnrich {
		enrich, err := NewEnrichHandler(handler)
		if err != nil {
			return nil, nil, err
		}
		handler = enrich
	}

	logger := &xlogger{
		handler:    handler,
		levelVar:   b.levelVar,
		onError:    b.onError,
		errorCount: new(atomic.Uint64),
		addSource:  b.addSource,
	}

	var once sync.Once
	closer := b.closer
	cleanup := func() error {
		var err error
		once.Do(func() {
			if closer != nil {
				err = closer.Close()
			}
		})
		return err
	}
	return logger, cleanup, nil
}
