package main

import (
	"context"
	"log/slog"

	"github.com/omeyang/xotelkit/pkg/config/xconf"
	"github.com/omeyang/xotelkit/pkg/observability/xlog"
)

func newLogger(cfg LogConfig) (xlog.LoggerWithLevel, func() error, error) {
	b := xlog.New().
		SetLevelString(cfg.Level).
		SetFormat(cfg.Format).
		SetAttrs(slog.String("service", "xoteldemo"))
	if cfg.File != "" {
		b = b.SetRotation(cfg.File,
			xlog.WithMaxSize(cfg.Rotate.MaxSizeMB),
			xlog.WithMaxBackups(cfg.Rotate.MaxBackups),
			xlog.WithMaxAge(cfg.Rotate.MaxAgeDays),
			xlog.WithCompress(cfg.Rotate.Compress),
		)
	}
	return b.Build()
}

// levelUpdater 配置文件变更时调整日志级别，其余字段需要重启才生效
func levelUpdater(logger xlog.LoggerWithLevel) xconf.OnChange {
	return func(src *xconf.Config, err error) {
		ctx := context.Background()
		if err != nil {
			logger.Warn(ctx, "config reload failed", xlog.Err(err))
			return
		}
		var lc LogConfig
		if err := src.Unmarshal("log", &lc); err != nil {
			logger.Warn(ctx, "config reload failed", xlog.Err(err))
			return
		}
		level, err := xlog.ParseLevel(lc.Level)
		if err != nil {
			logger.Warn(ctx, "ignoring invalid log level", xlog.Err(err))
			return
		}
		if level != logger.GetLevel() {
			logger.SetLevel(level)
			logger.Info(ctx, "log level changed", slog.String("level", level.String()))
		}
	}
}
