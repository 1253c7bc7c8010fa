package xhttpotel

import (
	"net/http"
	"strconv"
	"strings"
)

// SpanName 每个请求 span 的名称。
const SpanName = "HTTP request"

// 字段名。
const (
	KeyClientIP      = "http.client_ip"
	KeyFlavor        = "http.flavor"
	KeyHost          = "http.host"
	KeyMethod        = "http.method"
	KeyRoute         = "http.route"
	KeyScheme        = "http.scheme"
	KeyStatusCode    = "http.status_code"
	KeyTarget        = "http.target"
	KeyUserAgent     = "http.user_agent"
	KeyOTelKind      = "otel.kind"
	KeyOTelStatus    = "otel.status_code"
	KeyRequestID     = "request_id"
	KeyTraceID       = "trace_id"
	kindServer       = "server"
	statusOK         = "OK"
	statusError      = "ERROR"
	schemeWhenAbsent = "HTTP"
)

func httpFlavor(r *http.Request) string {
	switch {
	case r.ProtoMajor == 0 && r.ProtoMinor == 9:
		return "0.9"
	case r.ProtoMajor == 1 && r.ProtoMinor == 0:
		return "1.0"
	case r.ProtoMajor == 1 && r.ProtoMinor == 1:
		return "1.1"
	case r.ProtoMajor == 2 && r.ProtoMinor == 0:
		return "2.0"
	case r.ProtoMajor == 3 && r.ProtoMinor == 0:
		return "3.0"
	case r.Proto != "":
		return r.Proto
	default:
		return "HTTP/" + strconv.Itoa(r.ProtoMajor) + "." + strconv.Itoa(r.ProtoMinor)
	}
}

func httpMethod(method string) string {
	switch method {
	case http.MethodConnect:
		return "CONNECT"
	case http.MethodDelete:
		return "DELETE"
	case http.MethodGet:
		return "GET"
	case http.MethodHead:
		return "HEAD"
	case http.MethodOptions:
		return "OPTIONS"
	case http.MethodPatch:
		return "PATCH"
	case http.MethodPost:
		return "POST"
	case http.MethodPut:
		return "PUT"
	case http.MethodTrace:
		return "TRACE"
	default:
		return method
	}
}

func httpScheme(scheme string) string {
	switch {
	case scheme == "":
		return schemeWhenAbsent
	case strings.EqualFold(scheme, "http"):
		return "http"
	case strings.EqualFold(scheme, "https"):
		return "https"
	default:
		return scheme
	}
}

// httpHost net/http 把 Host 头移到 r.Host，Header 中通常没有该键
func httpHost(r *http.Request) string {
	if vs, ok := r.Header["Host"]; ok {
		if len(vs) == 0 {
			return ""
		}
		return headerText(vs[0])
	}
	return headerText(r.Host)
}

// headerText 非可见 ASCII（允许空格与制表符）的值视为缺失
func headerText(v string) string {
	for i := 0; i < len(v); i++ {
		c := v[i]
		if c == '\t' {
			continue
		}
		if c < 0x20 || c > 0x7e {
			return ""
		}
	}
	return v
}
