// Package xspan 定义 span 记录后端的最小接口。
//
// # 设计理念
//
// span 由后端（[Recorder]）创建，创建时声明固定的字段 schema，
// 之后只能更新已声明的字段，写入未声明的键会被忽略。
// 字段值统一为字符串，采用后写覆盖（last-write-wins）语义。
//
// 调用方只依赖 [Span] / [Recorder] 接口，后端可替换：
//
//   - [NewOTelRecorder] : 基于 OpenTelemetry，导出到 TracerProvider
//   - [NewLogRecorder]  : 基于 xlog，输出 new / close 两条日志
//   - [Tee]             : 同时写入多个后端
//   - [Noop]            : 空实现
//   - xspantest.Recorder: 内存后端，用于测试
//
// # 使用示例
//
//	rec := xspan.NewOTelRecorder()
//	span := rec.NewSpan("HTTP request",
//		xspan.String("http.method", "GET"),
//		xspan.Empty("http.status_code"),
//	)
//	span.SetParent(remoteCtx)
//	ctx = span.Context(ctx)
//	defer span.End()
//	span.Record("http.status_code", "200")
//
// # OTel 特殊字段
//
// OTel 后端把两个字段映射到 span 本身而不是属性：
//   - otel.kind        : server / client / producer / consumer / internal
//   - otel.status_code : OK / ERROR，在 End 时才写入 span 状态
package xspan
