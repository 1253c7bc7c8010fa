package main

import (
	"fmt"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/omeyang/xotelkit/pkg/config/xconf"
	"github.com/omeyang/xotelkit/pkg/observability/xlog"
)

// defaultConfig 配置文件中缺省的字段取这里的值
const defaultConfig = `
server:
  addr: ":8080"
  router: servemux
  shutdown_timeout: 10s
  read_header_timeout: 5s
log:
  level: info
  format: json
  rotate:
    max_size_mb: 100
    max_backups: 5
    max_age_days: 7
    compress: true
trace:
  service_name: xoteldemo
  sample_ratio: 1.0
  insecure: true
  propagators: [tracecontext, baggage]
request_id:
  header: X-Request-ID
  generator: uuid
  response_header: true
`

// Config 进程配置。
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Log       LogConfig       `koanf:"log"`
	Trace     TraceConfig     `koanf:"trace"`
	RequestID RequestIDConfig `koanf:"request_id"`
}

// ServerConfig HTTP 服务配置。
type ServerConfig struct {
	Addr              string        `koanf:"addr"`
	Router            string        `koanf:"router"`
	ShutdownTimeout   time.Duration `koanf:"shutdown_timeout"`
	ReadHeaderTimeout time.Duration `koanf:"read_header_timeout"`
}

// LogConfig 日志配置。File 为空时输出到 stderr。
type LogConfig struct {
	Level  string       `koanf:"level"`
	Format string       `koanf:"format"`
	File   string       `koanf:"file"`
	Rotate RotateConfig `koanf:"rotate"`
}

// RotateConfig 日志轮转配置。
type RotateConfig struct {
	MaxSizeMB  int  `koanf:"max_size_mb"`
	MaxBackups int  `koanf:"max_backups"`
	MaxAgeDays int  `koanf:"max_age_days"`
	Compress   bool `koanf:"compress"`
}

// TraceConfig 追踪配置。Endpoint 为空时不导出 span。
type TraceConfig struct {
	ServiceName string   `koanf:"service_name"`
	Endpoint    string   `koanf:"endpoint"`
	Insecure    bool     `koanf:"insecure"`
	SampleRatio float64  `koanf:"sample_ratio"`
	Propagators []string `koanf:"propagators"`
	LogSpans    bool     `koanf:"log_spans"`
}

// RequestIDConfig 请求 ID 配置。
type RequestIDConfig struct {
	Header         string `koanf:"header"`
	Generator      string `koanf:"generator"`
	ResponseHeader bool   `koanf:"response_header"`
}

// loadConfig 读取配置文件（path 为空时只用默认值），再应用命令行覆盖。
func loadConfig(path string, cmd *cli.Command) (*Config, *xconf.Config, error) {
	opts := []xconf.Option{xconf.WithDefaults([]byte(defaultConfig), xconf.FormatYAML)}

	var (
		src *xconf.Config
		err error
	)
	if path != "" {
		src, err = xconf.New(path, opts...)
	} else {
		src, err = xconf.NewFromBytes(nil, xconf.FormatYAML, opts...)
	}
	if err != nil {
		return nil, nil, err
	}

	var cfg Config
	if err := src.Unmarshal("", &cfg); err != nil {
		return nil, nil, err
	}
	applyFlags(&cfg, cmd)
	if err := cfg.validate(); err != nil {
		return nil, nil, err
	}
	return &cfg, src, nil
}

func applyFlags(cfg *Config, cmd *cli.Command) {
	if cmd == nil {
		return
	}
	if cmd.IsSet(flagAddr) {
		cfg.Server.Addr = cmd.String(flagAddr)
	}
	if cmd.IsSet(flagRouter) {
		cfg.Server.Router = cmd.String(flagRouter)
	}
	if cmd.IsSet(flagLogLevel) {
		cfg.Log.Level = cmd.String(flagLogLevel)
	}
	if cmd.IsSet(flagLogFormat) {
		cfg.Log.Format = cmd.String(flagLogFormat)
	}
	if cmd.IsSet(flagLogFile) {
		cfg.Log.File = cmd.String(flagLogFile)
	}
	if cmd.IsSet(flagEndpoint) {
		cfg.Trace.Endpoint = cmd.String(flagEndpoint)
	}
	if cmd.IsSet(flagSampleRatio) {
		cfg.Trace.SampleRatio = cmd.Float(flagSampleRatio)
	}
	if cmd.IsSet(flagLogSpans) {
		cfg.Trace.LogSpans = cmd.Bool(flagLogSpans)
	}
}

func (c *Config) validate() error {
	if _, err := xlog.ParseLevel(c.Log.Level); err != nil {
		return err
	}
	switch c.Server.Router {
	case routerServeMux, routerChi:
	default:
		return fmt.Errorf("unknown router %q", c.Server.Router)
	}
	switch c.RequestID.Generator {
	case generatorUUID, generatorSonyflake:
	default:
		return fmt.Errorf("unknown request id generator %q", c.RequestID.Generator)
	}
	if c.Trace.SampleRatio < 0 || c.Trace.SampleRatio > 1 {
		return fmt.Errorf("sample_ratio %v out of [0, 1]", c.Trace.SampleRatio)
	}
	return nil
}
