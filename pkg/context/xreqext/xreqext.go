package xreqext

import (
	"context"
	"net"
	"net/http"
	"net/url"
)

// extKey 以扩展类型区分 context key，不同 T 的 key 互不相同。
type extKey[T any] struct{}

// Insert 将扩展值写入 context，返回派生的 context。
// ctx 为 nil 时以 context.Background() 为基础。
func Insert[T any](ctx context.Context, value T) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, extKey[T]{}, value)
}

// Get 从 context 读取扩展值，不存在时返回零值和 false。
func Get[T any](ctx context.Context) (T, bool) {
	var zero T
	if ctx == nil {
		return zero, false
	}
	v, ok := ctx.Value(extKey[T]{}).(T)
	if !ok {
		return zero, false
	}
	return v, true
}

// InsertRequest 将扩展值写入请求 context，返回携带新 context 的请求浅拷贝。
func InsertRequest[T any](r *http.Request, value T) *http.Request {
	return r.WithContext(Insert(r.Context(), value))
}

// =============================================================================
// MatchedPath
// =============================================================================

// MatchedPath 路由器匹配到的路由模板。
type MatchedPath string

// WithMatchedPath 写入路由模板。空字符串视为未匹配，不写入。
func WithMatchedPath(ctx context.Context, path string) context.Context {
	if path == "" {
		return ctx
	}
	return Insert(ctx, MatchedPath(path))
}

// MatchedPathFrom 读取路由模板。
func MatchedPathFrom(ctx context.Context) (string, bool) {
	v, ok := Get[MatchedPath](ctx)
	return string(v), ok
}

// =============================================================================
// OriginalURI
// =============================================================================

// OriginalURI 路径重写（如 http.StripPrefix、子路由挂载）之前的请求 URL。
type OriginalURI struct {
	URL *url.URL
}

// Path 返回原始路径；URL 为 nil 时返回空字符串。
func (o OriginalURI) Path() string {
	if o.URL == nil {
		return ""
	}
	return o.URL.Path
}

// WithOriginalURI 写入原始 URL 的副本，避免后续改写影响已保存的值。
func WithOriginalURI(ctx context.Context, u *url.URL) context.Context {
	if u == nil {
		return ctx
	}
	cp := *u
	if u.User != nil {
		user := *u.User
		cp.User = &user
	}
	return Insert(ctx, OriginalURI{URL: &cp})
}

// OriginalURIFrom 读取原始 URL。
func OriginalURIFrom(ctx context.Context) (*url.URL, bool) {
	v, ok := Get[OriginalURI](ctx)
	if !ok || v.URL == nil {
		return nil, false
	}
	return v.URL, true
}

// =============================================================================
// ConnectInfo
// =============================================================================

// ConnectInfo 对端连接信息。
type ConnectInfo struct {
	RemoteAddr net.Addr
}

// String 返回对端地址的文本形式（ip:port），地址缺失时返回空字符串。
func (c ConnectInfo) String() string {
	if c.RemoteAddr == nil {
		return ""
	}
	return c.RemoteAddr.String()
}

// WithConnectInfo 写入对端地址。addr 为 nil 时不写入。
func WithConnectInfo(ctx context.Context, addr net.Addr) context.Context {
	if addr == nil {
		return ctx
	}
	return Insert(ctx, ConnectInfo{RemoteAddr: addr})
}

// ConnectInfoFrom 读取对端连接信息。
func ConnectInfoFrom(ctx context.Context) (ConnectInfo, bool) {
	v, ok := Get[ConnectInfo](ctx)
	if !ok || v.RemoteAddr == nil {
		return ConnectInfo{}, false
	}
	return v, true
}

// ConnContext 可直接赋给 http.Server.ConnContext，为连接上的所有请求附加 ConnectInfo。
func ConnContext(ctx context.Context, c net.Conn) context.Context {
	if c == nil {
		return ctx
	}
	return WithConnectInfo(ctx, c.RemoteAddr())
}

// =============================================================================
// RequestID
// =============================================================================

// RequestID 上游请求 ID 中间件分配的请求标识。
type RequestID string

// WithRequestID 写入请求 ID。空字符串不写入。
func WithRequestID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return Insert(ctx, RequestID(id))
}

// RequestIDFrom 读取请求 ID。
func RequestIDFrom(ctx context.Context) (string, bool) {
	v, ok := Get[RequestID](ctx)
	return string(v), ok
}
