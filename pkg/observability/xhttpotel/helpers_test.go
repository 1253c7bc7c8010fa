package xhttpotel_test

import (
	"github.com/omeyang/xotelkit/pkg/observability/xspan"
)

// fixedRecorder 总是返回同一个 span
type fixedRecorder struct {
	span xspan.Span
}

func (r fixedRecorder) NewSpan(string, ...xspan.Field) xspan.Span { return r.span }
