// Package middleware 提供位于追踪层之外的 HTTP 中间件。
//
// 子包列表：
//   - xrequestid: 沿用或生成请求 ID
//   - xroute: 提前解析路由模板与原始 URI
//
// 两者都只向请求 context 写入 xreqext 扩展，必须包在 xhttpotel 之外。
package middleware
