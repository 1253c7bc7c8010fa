package xrun

import (
	"context"
	"log/slog"
	"os"
	"os/signal"

	"golang.org/x/sync/errgroup"
)

// signalSource 测试通过 context 注入信号，避免向进程发送真实信号
type signalSource struct{}

func injectedSignals(ctx context.Context) <-chan os.Signal {
	c, _ := ctx.Value(signalSource{}).(<-chan os.Signal)
	return c
}

// Run 运行服务直到全部退出、任一出错或收到信号。
// 收到信号时返回 *SignalError；所有服务正常返回时返回 nil。
func Run(ctx context.Context, opts []Option, services ...func(ctx context.Context) error) error {
	g, _ := NewGroup(ctx, opts...)
	if !g.opts.noSignal {
		g.Go(g.watchSignals)
	}
	g.Go(func(ctx context.Context) error {
		eg, svcCtx := errgroup.WithContext(ctx)
		for _, svc := range services {
			eg.Go(func() error {
				if svc == nil {
					return ErrNilFunc
				}
				return svc(svcCtx)
			})
		}
		if err := eg.Wait(); err != nil {
			return err
		}
		// 服务全部正常退出，停止信号监听
		g.cancel(nil)
		return nil
	})
	return g.Wait()
}

func (g *Group) watchSignals(ctx context.Context) error {
	signals := g.opts.signals
	if len(signals) == 0 {
		signals = DefaultSignals()
	}
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, signals...)
	defer signal.Stop(ch)

	var sig os.Signal
	select {
	case sig = <-injectedSignals(ctx):
	case sig = <-ch:
	case <-ctx.Done():
		return ctx.Err()
	}

	g.opts.log().Info(ctx, "received signal",
		slog.String("group", g.opts.name),
		slog.String("signal", sig.String()),
	)
	g.cancel(&SignalError{Signal: sig})
	return nil
}
