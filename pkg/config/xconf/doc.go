// Package xconf 基于 koanf 加载 YAML / JSON 配置，支持热重载与文件监视。
//
// xconf 只负责加载、反序列化和重载。字段校验与默认值由调用方处理，
// 默认值也可以通过 WithDefaults 以一段同格式的配置文本提供，
// 文件中的值覆盖默认值。
//
// # 并发
//
// Reload 串行执行，解析成功后原子替换 koanf 实例；解析失败时保留旧配置。
// Koanf() 返回调用时刻的快照，Reload 之后旧快照仍可读但已过期。
//
// # 监视
//
//	w, err := xconf.NewWatcher(cfg, func(cfg *xconf.Config, err error) {
//		if err != nil {
//			return
//		}
//		var lc LogConfig
//		_ = cfg.Unmarshal("log", &lc)
//	})
//	g.GoWithName("config-watch", w.Run)
//
// 监视的是配置文件所在目录，编辑器"写临时文件再 rename"的保存方式同样生效。
// 多次变更在防抖窗口内合并为一次重载。
package xconf
