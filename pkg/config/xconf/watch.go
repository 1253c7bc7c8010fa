package xconf

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// OnChange 重载完成后的回调，err 非 nil 表示重载或监视出错，此时 cfg 仍为旧配置。
type OnChange func(cfg *Config, err error)

// Watcher 监视配置文件并在变更时重载。
type Watcher struct {
	cfg      *Config
	fs       *fsnotify.Watcher
	onChange OnChange
	debounce time.Duration
}

// NewWatcher 创建监视器。调用 Run 开始监视，Run 返回时释放资源。
func NewWatcher(cfg *Config, onChange OnChange, opts ...WatchOption) (*Watcher, error) {
	if cfg == nil || cfg.path == "" {
		return nil, ErrNotReloadable
	}
	o := &watchOptions{debounce: DefaultDebounce}
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}

	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrWatch, err)
	}
	dir := filepath.Dir(cfg.path)
	if err := fs.Add(dir); err != nil {
		return nil, errors.Join(fmt.Errorf("%w: %s: %w", ErrWatch, dir, err), fs.Close())
	}
	return &Watcher{cfg: cfg, fs: fs, onChange: onChange, debounce: o.debounce}, nil
}

// Run 阻塞监视直到 ctx 取消，返回 nil。Run 只应调用一次。
// 回调在 Run 所在 goroutine 中串行执行，Run 返回后不再有回调。
func (w *Watcher) Run(ctx context.Context) error {
	defer func() { _ = w.fs.Close() }()

	name := filepath.Base(w.cfg.path)
	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			if filepath.Base(ev.Name) != name {
				continue
			}
			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename) {
				timer.Reset(w.debounce)
			}

		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			w.notify(fmt.Errorf("%w: %w", ErrWatch, err))

		case <-timer.C:
			w.notify(w.cfg.Reload())
		}
	}
}

func (w *Watcher) notify(err error) {
	if w.onChange != nil {
		w.onChange(w.cfg, err)
	}
}
