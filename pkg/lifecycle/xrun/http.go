package xrun

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"
)

// Server http.Server 满足该接口。
type Server interface {
	Serve(l net.Listener) error
	Shutdown(ctx context.Context) error
}

// HTTPServer 在 server.Addr 上监听并服务，ctx 取消时优雅关闭。
// shutdownTimeout 不大于 0 时 Shutdown 等待所有在途请求结束。
func HTTPServer(server *http.Server, shutdownTimeout time.Duration) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		if server == nil {
			return ErrNilServer
		}
		addr := server.Addr
		if addr == "" {
			addr = ":http"
		}
		var lc net.ListenConfig
		l, err := lc.Listen(ctx, "tcp", addr)
		if err != nil {
			return err
		}
		return Serve(server, l, shutdownTimeout)(ctx)
	}
}

// Serve 在给定 listener 上服务，ctx 取消时优雅关闭。
//
// 外部直接 Shutdown 导致的退出返回 nil；ctx 驱动的关闭返回 Shutdown 的结果。
func Serve(server Server, l net.Listener, shutdownTimeout time.Duration) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		if server == nil {
			return ErrNilServer
		}
		shutdownErr := make(chan error, 1)
		serveDone := make(chan struct{})

		go func() {
			select {
			case <-ctx.Done():
				sctx := context.WithoutCancel(ctx)
				if shutdownTimeout > 0 {
					var cancel context.CancelFunc
					sctx, cancel = context.WithTimeout(sctx, shutdownTimeout)
					defer cancel()
				}
				shutdownErr <- server.Shutdown(sctx)
			case <-serveDone:
			}
		}()

		err := server.Serve(l)
		if !errors.Is(err, http.ErrServerClosed) {
			close(serveDone)
			return err
		}
		select {
		case err := <-shutdownErr:
			return err
		case <-ctx.Done():
			return <-shutdownErr
		default:
			close(serveDone)
			return nil
		}
	}
}
