package xconf

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

// Config 已加载的配置。并发安全。
type Config struct {
	path   string
	format Format
	opts   *options

	k       atomic.Pointer[koanf.Koanf]
	version atomic.Uint64
	reload  sync.Mutex
}

// New 从文件加载配置，格式由扩展名决定（.yaml / .yml / .json）。
func New(path string, opts ...Option) (*Config, error) {
	if path == "" {
		return nil, ErrEmptyPath
	}
	format, err := formatOf(path)
	if err != nil {
		return nil, err
	}
	c := &Config{path: path, format: format, opts: newOptions(opts)}
	if err := c.Reload(); err != nil {
		return nil, err
	}
	return c, nil
}

// NewFromBytes 从字节数据加载配置。空数据得到空配置。
func NewFromBytes(data []byte, format Format, opts ...Option) (*Config, error) {
	if !format.valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	c := &Config{format: format, opts: newOptions(opts)}
	k, err := c.load(data)
	if err != nil {
		return nil, err
	}
	c.k.Store(k)
	c.version.Add(1)
	return c, nil
}

// Koanf 返回当前配置快照。
func (c *Config) Koanf() *koanf.Koanf {
	return c.k.Load()
}

// Unmarshal 把 path 下的配置反序列化到 target，path 为空表示整个配置。
func (c *Config) Unmarshal(path string, target any) error {
	if err := c.k.Load().UnmarshalWithConf(path, target, koanf.UnmarshalConf{Tag: c.opts.tag}); err != nil {
		return fmt.Errorf("%w: %w", ErrUnmarshal, err)
	}
	return nil
}

// Reload 重新读取配置文件。失败时保留当前配置。
func (c *Config) Reload() error {
	if c.path == "" {
		return ErrNotReloadable
	}
	c.reload.Lock()
	defer c.reload.Unlock()

	data, err := os.ReadFile(c.path)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrLoad, err)
	}
	k, err := c.load(data)
	if err != nil {
		return err
	}
	c.k.Store(k)
	c.version.Add(1)
	return nil
}

// Version 每次成功加载后加一，首次加载后为 1。
func (c *Config) Version() uint64 {
	return c.version.Load()
}

// Path 返回配置文件路径，字节数据创建时为空。
func (c *Config) Path() string {
	return c.path
}

// Format 返回配置格式。
func (c *Config) Format() Format {
	return c.format
}

func (c *Config) load(data []byte) (*koanf.Koanf, error) {
	k := koanf.New(c.opts.delim)
	if len(c.opts.defaults) > 0 {
		if err := parse(k, c.opts.defaults, c.opts.defaultsFormat); err != nil {
			return nil, fmt.Errorf("defaults: %w", err)
		}
	}
	if len(data) > 0 {
		if err := parse(k, data, c.format); err != nil {
			return nil, err
		}
	}
	return k, nil
}

func parse(k *koanf.Koanf, data []byte, format Format) error {
	var parser koanf.Parser
	switch format {
	case FormatYAML:
		parser = yaml.Parser()
	case FormatJSON:
		parser = json.Parser()
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	if err := k.Load(rawbytes.Provider(data), parser); err != nil {
		return fmt.Errorf("%w: %w", ErrParse, err)
	}
	return nil
}

func formatOf(path string) (Format, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: extension %q", ErrUnsupportedFormat, ext)
	}
}

func (f Format) valid() bool {
	return f == FormatYAML || f == FormatJSON
}
