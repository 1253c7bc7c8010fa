// Package xrun 基于 errgroup + context 管理进程内服务的并发运行与协调关闭。
//
// 任一服务返回错误、父 context 取消或收到终止信号时，
// 组内所有服务的 context 被取消，Wait 返回第一个有意义的退出原因。
//
//	g, ctx := xrun.NewGroup(ctx, xrun.WithName("xoteldemo"), xrun.WithLogger(logger))
//	g.GoWithName("http", xrun.HTTPServer(server, 10*time.Second))
//	g.GoWithName("config-watch", watcher.Run)
//	err := g.Wait()
//
// 需要信号处理时使用 Run：
//
//	err := xrun.Run(ctx, opts, xrun.HTTPServer(server, 10*time.Second))
//	if errors.Is(err, xrun.ErrSignal) {
//		// 正常退出
//	}
//
// [errgroup]: https://pkg.go.dev/golang.org/x/sync/errgroup
package xrun
