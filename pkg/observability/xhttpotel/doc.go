// Package xhttpotel 按 OpenTelemetry HTTP 语义约定的字段名为每个请求记录 span。
//
// # 设计理念
//
// xhttpotel 只负责"记录什么"：在 xhttptrace 宿主的各个生命周期回调中
// 填充固定的字段集合。span 的创建、计时和结束由宿主负责，
// span 存储由 xspan 后端负责，远端 trace context 的解析由 xpropagate 负责。
//
// # 字段
//
//	http.client_ip    xreqext.ConnectInfo 的对端地址（需安装 xreqext.ConnContext），否则 ""
//	http.flavor       0.9 / 1.0 / 1.1 / 2.0 / 3.0
//	http.host         Host 头，非可见 ASCII 时为 ""
//	http.method       九个标准方法为大写字面量，其余原样
//	http.route        路由模板 → 原始路径 → 当前路径
//	http.scheme       http / https；URL 无 scheme 时为 "HTTP"
//	http.status_code  响应时写入
//	http.target       原始路径 → 当前路径
//	http.user_agent   User-Agent 头
//	otel.kind         "server"
//	otel.status_code  响应时写入 "OK"，失败时改写为 "ERROR"
//	request_id        xreqext.RequestID
//	trace_id          远端 span context 有效时的 trace ID
//
// URL 无 scheme 时 http.scheme 取大写 "HTTP"，与有 scheme 时的小写不一致，
// 下游可能依赖这一取值，保持原样。
//
// # 使用示例
//
//	mux := http.NewServeMux()
//	mux.HandleFunc("GET /users/{id}", getUser)
//
//	handler := xrequestid.Middleware()(
//		xroute.ServeMux(mux)(
//			xhttpotel.Middleware()(mux),
//		),
//	)
//	server := &http.Server{Handler: handler, ConnContext: xreqext.ConnContext}
package xhttpotel
