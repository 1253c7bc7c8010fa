// xoteldemo 是一个演示 HTTP 服务，展示 xhttpotel 的完整接入方式。
//
// 用法:
//
//	xoteldemo [选项]
//
// 选项:
//
//	-c, --config        配置文件路径（YAML / JSON），文件变更时热更新日志级别
//	    --addr          监听地址 (默认: :8080)
//	    --router        路由器 servemux / chi (默认: servemux)
//	    --log-level     日志级别
//	    --log-format    日志格式 text / json
//	    --log-file      日志文件，设置后按配置轮转
//	    --otlp-endpoint OTLP gRPC 地址，为空时不导出 span
//	    --sample-ratio  采样率 [0, 1]
//	    --log-spans     同时以日志输出 span
//
// 路由:
//
//	GET /             服务信息
//	GET /users/{id}   id 非数字返回 400，id 为 0 返回 500
//
// 示例:
//
//	xoteldemo --otlp-endpoint localhost:4317 --log-spans
//	curl -H 'traceparent: 00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01' localhost:8080/users/0
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/omeyang/xotelkit/pkg/config/xconf"
	"github.com/omeyang/xotelkit/pkg/context/xreqext"
	"github.com/omeyang/xotelkit/pkg/lifecycle/xrun"
	"github.com/omeyang/xotelkit/pkg/middleware/xrequestid"
	"github.com/omeyang/xotelkit/pkg/observability/xlog"
	"github.com/omeyang/xotelkit/pkg/observability/xspan"
)

// 版本信息，可通过 -ldflags "-X main.Version=..." 注入。
var (
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
)

const (
	flagConfig      = "config"
	flagAddr        = "addr"
	flagRouter      = "router"
	flagLogLevel    = "log-level"
	flagLogFormat   = "log-format"
	flagLogFile     = "log-file"
	flagEndpoint    = "otlp-endpoint"
	flagSampleRatio = "sample-ratio"
	flagLogSpans    = "log-spans"
)

func main() {
	if err := createApp().Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "错误: %v\n", err)
		os.Exit(1)
	}
}

func createApp() *cli.Command {
	return &cli.Command{
		Name:    "xoteldemo",
		Usage:   "xhttpotel 演示服务",
		Version: fmt.Sprintf("%s (commit: %s)", Version, GitCommit),
		Flags: []cli.Flag{
			&cli.StringFlag{Name: flagConfig, Aliases: []string{"c"}, Usage: "配置文件路径", Sources: cli.EnvVars("XOTELDEMO_CONFIG")},
			&cli.StringFlag{Name: flagAddr, Usage: "监听地址"},
			&cli.StringFlag{Name: flagRouter, Usage: "路由器 servemux / chi"},
			&cli.StringFlag{Name: flagLogLevel, Usage: "日志级别 debug / info / warn / error"},
			&cli.StringFlag{Name: flagLogFormat, Usage: "日志格式 text / json"},
			&cli.StringFlag{Name: flagLogFile, Usage: "日志文件"},
			&cli.StringFlag{Name: flagEndpoint, Usage: "OTLP gRPC 地址", Sources: cli.EnvVars("OTEL_EXPORTER_OTLP_ENDPOINT")},
			&cli.FloatFlag{Name: flagSampleRatio, Usage: "采样率 [0, 1]"},
			&cli.BoolFlag{Name: flagLogSpans, Usage: "同时以日志输出 span"},
		},
		Action: serve,
	}
}

func serve(ctx context.Context, cmd *cli.Command) (err error) {
	cfg, src, err := loadConfig(cmd.String(flagConfig), cmd)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, closeLog, err := newLogger(cfg.Log)
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	defer func() { err = errors.Join(err, closeLog()) }()
	xlog.SetDefault(logger)

	tp, err := setupTracing(ctx, cfg.Trace)
	if err != nil {
		return err
	}
	defer func() {
		if shutdownErr := tp.Shutdown(context.WithoutCancel(ctx)); shutdownErr != nil {
			logger.Warn(ctx, "tracer provider shutdown failed", xlog.Err(shutdownErr))
		}
	}()

	recorder := xspan.NewOTelRecorder(xspan.WithTracerProvider(tp))
	if cfg.Trace.LogSpans {
		recorder = xspan.Tee(recorder, xspan.NewLogRecorder(logger))
	}

	var generator xrequestid.Generator
	if cfg.RequestID.Generator == generatorSonyflake {
		if generator, err = xrequestid.NewSonyflakeGenerator(nil); err != nil {
			return err
		}
	}

	server := &http.Server{
		Addr: cfg.Server.Addr,
		Handler: newHandler(handlerDeps{
			cfg:       cfg,
			logger:    logger,
			recorder:  recorder,
			generator: generator,
		}),
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		ConnContext:       xreqext.ConnContext,
	}

	services := []func(context.Context) error{xrun.HTTPServer(server, cfg.Server.ShutdownTimeout)}
	if src.Path() != "" {
		w, werr := xconf.NewWatcher(src, levelUpdater(logger))
		if werr != nil {
			return werr
		}
		services = append(services, w.Run)
	}

	logger.Info(ctx, "server starting",
		xlog.Component("http"),
		slog.String("addr", cfg.Server.Addr),
		slog.String("router", cfg.Server.Router),
	)
	err = xrun.Run(ctx, []xrun.Option{xrun.WithLogger(logger), xrun.WithName("xoteldemo")}, services...)
	if errors.Is(err, xrun.ErrSignal) {
		logger.Info(ctx, "server stopped", xlog.Err(err))
		return nil
	}
	return err
}
