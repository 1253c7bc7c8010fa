// Package xroute 在请求进入追踪层之前解析路由模板与原始 URI，
// 并以 xreqext 扩展写入请求 context。
//
// net/http 与 chi 都在分发时才确定路由，而追踪层需要在创建 span 时
// 就拿到 http.route。这里的中间件提前用同一个路由器做一次匹配，
// 把命中的模板（如 "/users/{id}"）记为 xreqext.MatchedPath。
//
//	handler := xroute.OriginalURI()(
//		xroute.ServeMux(mux)(
//			xhttpotel.Middleware()(mux),
//		),
//	)
package xroute
