// Package xlog 基于 log/slog 的结构化日志库。
//
// # 核心功能
//
//   - Builder 模式配置（输出目标、级别、格式、文件轮转）
//   - 自动从 context 注入 trace_id、span_id、request_id（EnrichHandler，默认启用）
//   - 动态级别调整（运行时热更新）
//   - 全局 Logger 便利函数
//
// # 创建 Logger
//
// Builder 采用 first-error-wins：遇到第一个配置错误后，后续 Set 操作的错误被忽略，
// Build 返回该错误。
//
//	logger, cleanup, err := xlog.New().
//		SetLevelString("debug").
//		SetFormat("json").
//		SetRotation("/var/log/app.log", xlog.WithMaxSize(100)).
//		Build()
//	if err != nil {
//		return err
//	}
//	defer cleanup()
//
// # 全局 Logger
//
// 适用于脚手架、小工具等简单场景，服务端推荐依赖注入。
// [Default] 惰性初始化（stderr、Info 级别、text 格式），[SetDefault] 替换，nil 被忽略。
//
// # 注入字段
//
// EnrichHandler 从 context 提取：
//   - trace_id / span_id : OpenTelemetry span context（有效时）
//   - request_id         : xreqext.RequestID 扩展
package xlog
