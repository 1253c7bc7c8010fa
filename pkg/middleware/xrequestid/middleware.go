package xrequestid

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/omeyang/xotelkit/pkg/context/xreqext"
	"github.com/omeyang/xotelkit/pkg/observability/xlog"
)

// DefaultHeader 默认请求 ID 头。
const DefaultHeader = "X-Request-ID"

// maxIDLength 上游请求 ID 超过该长度时视为无效并重新生成
const maxIDLength = 256

type config struct {
	header    string
	generator Generator
	respond   bool
	logger    xlog.Logger
}

// Option 中间件选项。
type Option func(*config)

// WithHeader 设置请求 ID 头名称，空字符串忽略。
func WithHeader(name string) Option {
	return func(c *config) {
		if name = strings.TrimSpace(name); name != "" {
			c.header = http.CanonicalHeaderKey(name)
		}
	}
}

// WithGenerator 设置生成器，nil 忽略。
func WithGenerator(g Generator) Option {
	return func(c *config) {
		if g != nil {
			c.generator = g
		}
	}
}

// WithResponseHeader 设置是否把请求 ID 写入响应头，默认 true。
func WithResponseHeader(enable bool) Option {
	return func(c *config) {
		c.respond = enable
	}
}

// WithLogger 设置 logger，默认 xlog.Default()。
func WithLogger(l xlog.Logger) Option {
	return func(c *config) {
		c.logger = l
	}
}

// Middleware 返回请求 ID 中间件。
//
// 上游请求 ID 非空、不超过 256 字节且仅含可见 ASCII、空格与制表符时原样沿用，
// 否则重新生成。生成失败时请求照常处理，只是不带请求 ID。
func Middleware(opts ...Option) func(http.Handler) http.Handler {
	cfg := &config{
		header:    DefaultHeader,
		generator: UUID(),
		respond:   true,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(cfg)
		}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(cfg.header)
			if !validID(id) {
				generated, err := cfg.generator.NewID()
				if err != nil {
					cfg.log().Warn(r.Context(), "request id generation failed", xlog.Err(err))
					next.ServeHTTP(w, r)
					return
				}
				id = generated
				r = r.Clone(r.Context())
				r.Header.Set(cfg.header, id)
				cfg.log().Debug(r.Context(), "request id generated", slog.String(xlog.KeyRequestID, id))
			}

			if cfg.respond {
				w.Header().Set(cfg.header, id)
			}
			next.ServeHTTP(w, r.WithContext(xreqext.WithRequestID(r.Context(), id)))
		})
	}
}

// FromContext 返回中间件写入的请求 ID。
func FromContext(ctx context.Context) string {
	id, _ := xreqext.RequestIDFrom(ctx)
	return id
}

func (c *config) log() xlog.Logger {
	if c.logger != nil {
		return c.logger
	}
	return xlog.Default()
}

func validID(id string) bool {
	if id == "" || len(id) > maxIDLength {
		return false
	}
	for i := 0; i < len(id); i++ {
		c := id[i]
		if c == '\t' {
			continue
		}
		if c < 0x20 || c > 0x7e {
			return false
		}
	}
	return true
}
