// Package xrequestid 提供 X-Request-ID 中间件。
//
// 中间件保证每个请求都带有请求 ID：上游已传入时原样沿用，
// 否则由 Generator 生成并写回请求头。请求 ID 同时以 xreqext.RequestID
// 扩展写入请求 context，xhttpotel 据此填充 request_id 字段，
// xlog 的 EnrichHandler 据此为日志附加 request_id。
//
// # 生成器
//
//   - UUID：默认，随机 UUID v4
//   - NewSonyflakeGenerator：基于 sonyflake v2 的有序 ID，以 36 进制字符串输出
//
// # 使用示例
//
//	handler := xrequestid.Middleware(
//		xrequestid.WithHeader("X-Correlation-ID"),
//	)(next)
//
// 中间件必须位于 xhttpotel 之外，否则 span 创建时还没有请求 ID。
package xrequestid
