package xroute

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/omeyang/xotelkit/pkg/context/xreqext"
)

// OriginalURI 记录请求进入时的 URL。
// 已记录过时保持不变，因此最外层的 OriginalURI 生效，
// 之后的 http.StripPrefix 等改写不影响 http.target。
func OriginalURI() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := xreqext.OriginalURIFrom(r.Context()); !ok {
				r = r.WithContext(xreqext.WithOriginalURI(r.Context(), r.URL))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ServeMux 用 mux 的路由表匹配请求，命中时记录路由模板。
// 模板中的方法与主机部分被去掉，"GET example.com/users/{id}" 记为 "/users/{id}"。
func ServeMux(mux *http.ServeMux) func(http.Handler) http.Handler {
	return Matcher(func(r *http.Request) string {
		if mux == nil {
			return ""
		}
		_, pattern := mux.Handler(r)
		return PathOfPattern(pattern)
	})
}

// Chi 用 chi 路由树匹配请求，命中时记录 RoutePattern。
func Chi(routes chi.Routes) func(http.Handler) http.Handler {
	return Matcher(func(r *http.Request) string {
		if routes == nil {
			return ""
		}
		rctx := chi.NewRouteContext()
		path := r.URL.RawPath
		if path == "" {
			path = r.URL.Path
		}
		if !routes.Match(rctx, r.Method, path) {
			return ""
		}
		return rctx.RoutePattern()
	})
}

// Matcher 以任意函数解析路由模板，返回空字符串表示未命中。
func Matcher(match func(*http.Request) string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if match != nil {
				if p := match(r); p != "" {
					r = r.WithContext(xreqext.WithMatchedPath(r.Context(), p))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// PathOfPattern 去掉 ServeMux 模板中的方法与主机部分，以及结尾的 "{$}"。
func PathOfPattern(pattern string) string {
	if i := strings.IndexByte(pattern, ' '); i >= 0 {
		pattern = strings.TrimLeft(pattern[i+1:], " \t")
	}
	if pattern != "" && pattern[0] != '/' {
		i := strings.IndexByte(pattern, '/')
		if i < 0 {
			return ""
		}
		pattern = pattern[i:]
	}
	return strings.TrimSuffix(pattern, "{$}")
}
