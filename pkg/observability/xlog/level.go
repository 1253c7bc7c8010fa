package xlog

import (
	"fmt"
	"log/slog"
	"strings"
)

// Level 日志级别，数值与 slog.Level 相同。
type Level slog.Level

const (
	// LevelTrace 比 Debug 更细，文本输出为 TRACE
	LevelTrace = Level(slog.LevelDebug - 4)
	LevelDebug = Level(slog.LevelDebug)
	LevelInfo  = Level(slog.LevelInfo)
	LevelWarn  = Level(slog.LevelWarn)
	LevelError = Level(slog.LevelError)
)

// levelAliases 配置文件中常见的非 slog 写法
var levelAliases = map[string]Level{
	"trace":   LevelTrace,
	"warning": LevelWarn,
	"err":     LevelError,
}

// String 返回与 ParseLevel 互逆的名称：TRACE，或 slog 的 "INFO"、"INFO+2" 形式。
func (l Level) String() string {
	if l == LevelTrace {
		return "TRACE"
	}
	return slog.Level(l).String()
}

// MarshalText 实现 encoding.TextMarshaler。
func (l Level) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// UnmarshalText 实现 encoding.TextUnmarshaler，失败时不修改 l。
func (l *Level) UnmarshalText(data []byte) error {
	parsed, err := ParseLevel(string(data))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

// ParseLevel 解析日志级别，大小写不敏感并忽略首尾空白。
//
// 接受 trace、warning、err 别名，以及 slog 的写法（"debug"、"WARN"、"info+2"、"error-1"）。
// 失败时返回 LevelInfo 与 ErrUnknownLevel。
func ParseLevel(s string) (Level, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if l, ok := levelAliases[name]; ok {
		return l, nil
	}
	var sl slog.Level
	if name == "" || sl.UnmarshalText([]byte(name)) != nil {
		return LevelInfo, fmt.Errorf("%w: %q", ErrUnknownLevel, s)
	}
	return Level(sl), nil
}
