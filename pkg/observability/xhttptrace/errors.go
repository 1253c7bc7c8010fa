package xhttptrace

import "errors"

var (
	// ErrHandlerPanic handler 发生 panic，作为错误失败分类的原因。
	ErrHandlerPanic = errors.New("xhttptrace: handler panicked")
	// ErrInvalidStatusRange 状态码区间无效。
	ErrInvalidStatusRange = errors.New("xhttptrace: invalid status range")
	// ErrCreateInstrument 创建 OTel 指标失败。
	ErrCreateInstrument = errors.New("xhttptrace: create instrument failed")
)
