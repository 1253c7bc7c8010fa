package xhttpotel

import (
	"net/http"
	"strconv"
	"time"

	"github.com/omeyang/xotelkit/pkg/observability/xhttptrace"
	"github.com/omeyang/xotelkit/pkg/observability/xspan"
)

// OnRequest 无操作。
func (m *Mapper) OnRequest(*http.Request, xspan.Span) {}

// OnResponse 写入状态码，并先乐观地把 otel.status_code 记为 OK；
// 失败时 OnFailure 随后改写。
func (m *Mapper) OnResponse(resp xhttptrace.Response, _ time.Duration, span xspan.Span) {
	span.Record(KeyStatusCode, strconv.Itoa(resp.StatusCode))
	span.Record(KeyOTelStatus, statusOK)
}

// OnBodyChunk 无操作。
func (m *Mapper) OnBodyChunk([]byte, time.Duration, xspan.Span) {}

// OnEOS 无操作。
func (m *Mapper) OnEOS(http.Header, time.Duration, xspan.Span) {}

// OnFailure 5xx 状态码失败或任意错误失败时把 otel.status_code 记为 ERROR。
// 只会写 ERROR，重复调用结果不变。
func (m *Mapper) OnFailure(class xhttptrace.FailureClass, _ time.Duration, span xspan.Span) {
	switch class.Kind {
	case xhttptrace.FailureStatusCode:
		if class.StatusCode >= 500 && class.StatusCode <= 599 {
			span.Record(KeyOTelStatus, statusError)
		}
	case xhttptrace.FailureError:
		span.Record(KeyOTelStatus, statusError)
	}
}
