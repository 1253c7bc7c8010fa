// Package xhttptrace 为 net/http 处理链提供请求/响应生命周期的追踪宿主。
//
// # 设计理念
//
// Layer 负责 span 的生命周期、计时与请求流转，具体记录什么由回调决定：
//
//	MakeSpan    → 为请求创建 span
//	OnRequest   → 请求进入 handler 之前
//	OnResponse  → 响应头确定时（首次 WriteHeader / Write，或 handler 未写任何内容时的隐式 200）
//	OnBodyChunk → 每次写入响应体
//	OnEOS       → 响应体结束（携带 trailers）
//	OnFailure   → 分类器判定为失败时，紧跟 OnResponse 之后；写入错误与 panic 也会触发
//
// 回调在请求 goroutine 内同步执行，同一请求的回调不会并发调用。
//
// # 失败分类
//
// 默认分类器 [ServerErrorsAsFailures] 把 5xx 视为失败。
// [StatusInRangeAsFailures] 可自定义状态码区间。
// 写入错误只分类第一次；handler panic 被分类为错误失败，span 结束后 panic 继续向上抛出。
//
// # 使用示例
//
//	layer := xhttptrace.New(
//		xhttptrace.WithMakeSpan(xhttptrace.MakeSpanFunc(func(r *http.Request) xspan.Span {
//			return rec.NewSpan("request", xspan.String("method", r.Method))
//		})),
//		xhttptrace.WithMeterProvider(mp),
//	)
//	http.ListenAndServe(":8080", layer.Handler(mux))
//
// # 指标
//
// 配置 MeterProvider 后记录：
//   - http.server.request.total    (counter)
//   - http.server.request.duration (histogram，秒)
//
// 属性：method / route（匹配到路由模板时）/ status / outcome。
package xhttptrace
