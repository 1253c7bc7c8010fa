package xrun

import (
	"context"
	"errors"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/omeyang/xotelkit/pkg/observability/xlog"
)

// Group 并发运行一组服务，任一服务出错时取消其余服务。
//
// Go、GoWithName、Cancel 可并发调用，Wait 只应调用一次。
type Group struct {
	eg       *errgroup.Group
	ctx      context.Context
	causeCtx context.Context
	cancel   context.CancelCauseFunc
	opts     *options
}

// NewGroup 创建 Group，返回的 context 在任一服务出错或 Cancel 时取消。
func NewGroup(ctx context.Context, opts ...Option) (*Group, context.Context) {
	if ctx == nil {
		ctx = context.Background()
	}
	causeCtx, cancel := context.WithCancelCause(ctx)
	eg, egCtx := errgroup.WithContext(causeCtx)
	return &Group{
		eg:       eg,
		ctx:      egCtx,
		causeCtx: causeCtx,
		cancel:   cancel,
		opts:     newOptions(opts),
	}, egCtx
}

// Go 启动服务。
func (g *Group) Go(fn func(ctx context.Context) error) {
	g.eg.Go(func() error {
		if fn == nil {
			return ErrNilFunc
		}
		return fn(g.ctx)
	})
}

// GoWithName 启动服务，并记录启动与退出日志。
func (g *Group) GoWithName(name string, fn func(ctx context.Context) error) {
	g.eg.Go(func() error {
		if fn == nil {
			return ErrNilFunc
		}
		logger := g.opts.log()
		attrs := []slog.Attr{slog.String("group", g.opts.name), xlog.Component(name)}
		logger.Debug(g.ctx, "service starting", attrs...)

		err := fn(g.ctx)
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Warn(context.WithoutCancel(g.ctx), "service exited with error", append(attrs, xlog.Err(err))...)
		} else {
			logger.Debug(context.WithoutCancel(g.ctx), "service stopped", attrs...)
		}
		return err
	})
}

// Cancel 取消所有服务，cause 作为 Wait 的返回值。
// cause 不应包装 context.Canceled，否则会被当作普通取消过滤掉。
func (g *Group) Cancel(cause error) {
	g.cancel(cause)
}

// Context 返回 Group 的 context。
func (g *Group) Context() context.Context {
	return g.ctx
}

// Wait 等待所有服务退出。
//
// 服务因 Group 取消而返回的 context.Canceled 被过滤：
// 有显式 cause（如 *SignalError）时返回 cause，否则返回 nil。
// 服务自身产生的 context.Canceled 原样返回。
func (g *Group) Wait() error {
	defer g.cancel(nil)

	err := g.eg.Wait()
	cancelled := g.causeCtx.Err() != nil

	if errors.Is(err, context.Canceled) && !cancelled {
		return err
	}
	if err == nil || errors.Is(err, context.Canceled) {
		if cancelled {
			if cause := context.Cause(g.causeCtx); cause != nil && !errors.Is(cause, context.Canceled) {
				return cause
			}
		}
		return nil
	}
	return err
}
