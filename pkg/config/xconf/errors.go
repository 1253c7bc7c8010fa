package xconf

import "errors"

var (
	// ErrEmptyPath 配置文件路径为空。
	ErrEmptyPath = errors.New("xconf: empty config path")

	// ErrUnsupportedFormat 不支持的配置格式。
	ErrUnsupportedFormat = errors.New("xconf: unsupported config format")

	// ErrLoad 读取配置失败。
	ErrLoad = errors.New("xconf: load config")

	// ErrParse 解析配置失败。
	ErrParse = errors.New("xconf: parse config")

	// ErrUnmarshal 反序列化失败。
	ErrUnmarshal = errors.New("xconf: unmarshal config")

	// ErrNotReloadable 从字节数据创建的配置不能重载或监视。
	ErrNotReloadable = errors.New("xconf: config not backed by a file")

	// ErrWatch 创建文件监视失败。
	ErrWatch = errors.New("xconf: watch config")
)
