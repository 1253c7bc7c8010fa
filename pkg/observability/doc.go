// Package observability 提供 HTTP 服务可观测性相关的子包。
//
// 子包列表：
//   - xlog: 结构化日志，基于 log/slog 扩展，支持文件轮转
//   - xspan: span 字段模型与 OTel / 日志两种后端
//   - xpropagate: 从请求头解析远端 trace context
//   - xhttptrace: HTTP 请求生命周期回调宿主与请求指标
//   - xhttpotel: 按 OpenTelemetry 字段名填充请求 span
//
// 设计原则：
//   - 字段名遵循 OpenTelemetry HTTP 语义规范
//   - 日志自动携带 trace_id / span_id / request_id
//   - 记录内容与 span 存储解耦，测试可替换为内存后端
package observability
