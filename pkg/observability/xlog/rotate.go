package xlog

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/natefinch/lumberjack.v2"
)

// 轮转默认值
const (
	DefaultMaxSizeMB  = 500
	DefaultMaxBackups = 7
	DefaultMaxAgeDays = 30
	DefaultCompress   = true

	maxSizeMB  = 10240
	maxBackups = 1024
	maxAgeDays = 3650
)

type rotateConfig struct {
	maxSizeMB  int
	maxBackups int
	maxAgeDays int
	compress   bool
	localTime  bool
}

// RotateOption 文件轮转选项
type RotateOption func(*rotateConfig)

// WithMaxSize 单个日志文件最大大小（MB），超过时触发轮转
func WithMaxSize(mb int) RotateOption {
	return func(c *rotateConfig) { c.maxSizeMB = mb }
}

// WithMaxBackups 保留的备份文件数量，0 表示不限制
func WithMaxBackups(n int) RotateOption {
	return func(c *rotateConfig) { c.maxBackups = n }
}

// WithMaxAge 备份保留天数，0 表示不按天数清理
func WithMaxAge(days int) RotateOption {
	return func(c *rotateConfig) { c.maxAgeDays = days }
}

// WithCompress 是否 gzip 压缩备份文件
func WithCompress(compress bool) RotateOption {
	return func(c *rotateConfig) { c.compress = compress }
}

// WithLocalTime 备份文件名是否使用本地时间（默认 UTC）
func WithLocalTime(local bool) RotateOption {
	return func(c *rotateConfig) { c.localTime = local }
}

// newRotator 创建 lumberjack 轮转器，自动创建父目录（0750）
func newRotator(filename string, opts ...RotateOption) (*lumberjack.Logger, error) {
	if filename == "" {
		return nil, ErrEmptyFilename
	}
	cfg := rotateConfig{
		maxSizeMB:  DefaultMaxSizeMB,
		maxBackups: DefaultMaxBackups,
		maxAgeDays: DefaultMaxAgeDays,
		compress:   DefaultCompress,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if err := validateRotate(cfg); err != nil {
		return nil, err
	}

	path := filepath.Clean(filename)
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("xlog: create log dir: %w", err)
	}

	return &lumberjack.Logger{
		Filename:   path,
		MaxSize:    cfg.maxSizeMB,
		MaxBackups: cfg.maxBackups,
		MaxAge:     cfg.maxAgeDays,
		Compress:   cfg.compress,
		LocalTime:  cfg.localTime,
	}, nil
}

func validateRotate(cfg rotateConfig) error {
	switch {
	case cfg.maxSizeMB <= 0 || cfg.maxSizeMB > maxSizeMB:
		return fmt.Errorf("%w: max size %d MB out of range (0, %d]", ErrInvalidRotation, cfg.maxSizeMB, maxSizeMB)
	case cfg.maxBackups < 0 || cfg.maxBackups > maxBackups:
		return fmt.Errorf("%w: max backups %d out of range [0, %d]", ErrInvalidRotation, cfg.maxBackups, maxBackups)
	case cfg.maxAgeDays < 0 || cfg.maxAgeDays > maxAgeDays:
		return fmt.Errorf("%w: max age %d days out of range [0, %d]", ErrInvalidRotation, cfg.maxAgeDays, maxAgeDays)
	case cfg.maxBackups == 0 && cfg.maxAgeDays == 0:
		return fmt.Errorf("%w: max backups and max age cannot both be 0", ErrInvalidRotation)
	}
	return nil
}
