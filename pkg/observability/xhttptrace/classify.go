package xhttptrace

import (
	"fmt"
	"strconv"
)

// FailureKind 失败分类的种类。
type FailureKind int

const (
	// FailureStatusCode 响应已完成，但状态码被判定为失败。
	FailureStatusCode FailureKind = iota + 1
	// FailureError 没有状态码的处理/传输错误。
	FailureError
)

// String 返回可读名称。
func (k FailureKind) String() string {
	switch k {
	case FailureStatusCode:
		return "status_code"
	case FailureError:
		return "error"
	default:
		return "FailureKind(" + strconv.Itoa(int(k)) + ")"
	}
}

// FailureClass 一次失败的分类结果。
type FailureClass struct {
	Kind       FailureKind
	StatusCode int   // 仅 FailureStatusCode 有效
	Err        error // 仅 FailureError 有效
}

// StatusCodeFailure 创建状态码失败分类。
func StatusCodeFailure(code int) FailureClass {
	return FailureClass{Kind: FailureStatusCode, StatusCode: code}
}

// ErrorFailure 创建错误失败分类。
func ErrorFailure(err error) FailureClass {
	return FailureClass{Kind: FailureError, Err: err}
}

// IsStatusCode 报告是否为状态码失败。
func (c FailureClass) IsStatusCode() bool { return c.Kind == FailureStatusCode }

// IsError 报告是否为错误失败。
func (c FailureClass) IsError() bool { return c.Kind == FailureError }

// String 形如 "Status code: 500" 或 "Error: broken pipe"。
func (c FailureClass) String() string {
	switch c.Kind {
	case FailureStatusCode:
		return "Status code: " + strconv.Itoa(c.StatusCode)
	case FailureError:
		if c.Err == nil {
			return "Error: <nil>"
		}
		return "Error: " + c.Err.Error()
	default:
		return c.Kind.String()
	}
}

// Classifier 判定响应状态码是否为失败。
type Classifier interface {
	// ClassifyResponse 返回失败分类；第二个返回值为 false 表示成功。
	ClassifyResponse(status int) (FailureClass, bool)
}

// ClassifierFunc 函数适配器。
type ClassifierFunc func(status int) (FailureClass, bool)

// ClassifyResponse 调用 f 本身。
func (f ClassifierFunc) ClassifyResponse(status int) (FailureClass, bool) {
	return f(status)
}

type statusRange struct {
	lo, hi int
}

func (s statusRange) ClassifyResponse(status int) (FailureClass, bool) {
	if status >= s.lo && status <= s.hi {
		return StatusCodeFailure(status), true
	}
	return FailureClass{}, false
}

// ServerErrorsAsFailures 把 5xx 视为失败（默认分类器）。
func ServerErrorsAsFailures() Classifier {
	return statusRange{lo: 500, hi: 599}
}

// StatusInRangeAsFailures 把 [lo, hi] 区间内的状态码视为失败。
// 区间必须位于 100..599 且 lo <= hi。
func StatusInRangeAsFailures(lo, hi int) (Classifier, error) {
	if lo < 100 || hi > 599 || lo > hi {
		return nil, fmt.Errorf("%w: [%d, %d]", ErrInvalidStatusRange, lo, hi)
	}
	return statusRange{lo: lo, hi: hi}, nil
}
