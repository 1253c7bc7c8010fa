// Package xpropagate 在 HTTP Header 与 context 之间传播远端 trace context。
//
// 传播算法本身由 OpenTelemetry propagator 实现，本包只提供窄接口：
//
//   - [Extractor] : Header → 携带远端 span context 的 context
//   - [Injector]  : context → Header（出站请求）
//
// 提取失败（Header 缺失或格式错误）时返回原 context，
// 下游读取到的是无效的默认 span context，不会报错。
//
// # 可选实现
//
//   - [Global]  : 每次调用时读取 otel.GetTextMapPropagator()
//   - [Default] : W3C TraceContext + Baggage
//   - [New]     : 包装任意 propagation.TextMapPropagator
//   - [LegacyHeaders] : X-Trace-ID / X-Span-ID / X-Trace-Flags 自定义头，
//     可与 W3C 组合使用以兼容旧服务
package xpropagate
