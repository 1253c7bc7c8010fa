// Package context 提供请求级上下文相关的子包。
//
// 子包列表：
//   - xreqext: 按类型存取的请求扩展（路由模板、原始 URI、对端地址、请求 ID）
package context
