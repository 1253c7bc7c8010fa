// Package xreqext 提供请求级扩展（extensions）的类型化存取能力。
//
// # 设计理念
//
// 路由器、连接层、请求 ID 中间件等上游组件会为请求附加可选的元数据，
// 下游（如 xhttpotel 的 span 工厂）按需读取。xreqext 把这些元数据
// 存放在请求 context 中，以 Go 类型作为键：
//
//	ctx = xreqext.Insert(ctx, xreqext.MatchedPath("/users/{id}"))
//	path, ok := xreqext.Get[xreqext.MatchedPath](ctx)
//
// 同一类型只保留最近一次写入的值。读取缺失的扩展返回零值和 false，
// 调用方据此降级为默认值，而不是报错。
//
// # 内置扩展
//
//   - MatchedPath : 路由器匹配到的路由模板（如 /users/{id}）
//   - OriginalURI : 路径重写前的原始 URL
//   - ConnectInfo : 对端连接地址，通过 ConnContext 挂到 http.Server
//   - RequestID   : 上游请求 ID 中间件分配的标识
//
// # ConnectInfo
//
// net/http 总是填充 Request.RemoteAddr，但它可能已被代理改写。
// ConnectInfo 只在服务端显式安装 ConnContext 时存在：
//
//	server := &http.Server{
//		Handler:     handler,
//		ConnContext: xreqext.ConnContext,
//	}
package xreqext
