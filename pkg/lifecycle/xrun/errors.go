package xrun

import (
	"errors"
	"fmt"
	"os"
)

var (
	// ErrSignal 因收到系统信号而退出，用 errors.Is 判断。
	ErrSignal = errors.New("xrun: received signal")

	// ErrNilFunc 服务函数为 nil。
	ErrNilFunc = errors.New("xrun: nil service func")

	// ErrNilServer HTTPServer 传入 nil。
	ErrNilServer = errors.New("xrun: nil http server")
)

// SignalError 携带触发退出的信号。
type SignalError struct {
	Signal os.Signal
}

// Error 实现 error。
func (e *SignalError) Error() string {
	if e.Signal == nil {
		return "xrun: received signal <nil>"
	}
	return fmt.Sprintf("xrun: received signal %s", e.Signal)
}

// Unwrap 返回 ErrSignal。
func (e *SignalError) Unwrap() error {
	return ErrSignal
}
