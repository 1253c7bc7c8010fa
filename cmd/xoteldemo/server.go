package main

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/omeyang/xotelkit/pkg/middleware/xrequestid"
	"github.com/omeyang/xotelkit/pkg/middleware/xroute"
	"github.com/omeyang/xotelkit/pkg/observability/xhttpotel"
	"github.com/omeyang/xotelkit/pkg/observability/xhttptrace"
	"github.com/omeyang/xotelkit/pkg/observability/xlog"
	"github.com/omeyang/xotelkit/pkg/observability/xspan"
)

const (
	routerServeMux = "servemux"
	routerChi      = "chi"

	generatorUUID      = "uuid"
	generatorSonyflake = "sonyflake"
)

// handlerDeps 构造 HTTP handler 所需的依赖
type handlerDeps struct {
	cfg       *Config
	logger    xlog.Logger
	recorder  xspan.Recorder
	generator xrequestid.Generator
}

// newHandler 组装中间件链：
// xrequestid → OriginalURI → 路由匹配 → xhttpotel → 路由器
func newHandler(d handlerDeps) http.Handler {
	layer := xhttpotel.Layer(
		xhttpotel.WithRecorder(d.recorder),
		xhttpotel.WithLayerOptions(xhttptrace.WithLogger(d.logger)),
	)

	var (
		router http.Handler
		match  func(http.Handler) http.Handler
	)
	switch d.cfg.Server.Router {
	case routerChi:
		r := chi.NewRouter()
		r.Get("/", index)
		r.Get("/users/{id}", func(w http.ResponseWriter, req *http.Request) {
			getUser(w, chi.URLParam(req, "id"))
		})
		router, match = r, xroute.Chi(r)
	default:
		mux := http.NewServeMux()
		mux.HandleFunc("GET /{$}", index)
		mux.HandleFunc("GET /users/{id}", func(w http.ResponseWriter, req *http.Request) {
			getUser(w, req.PathValue("id"))
		})
		router, match = mux, xroute.ServeMux(mux)
	}

	ridOpts := []xrequestid.Option{
		xrequestid.WithHeader(d.cfg.RequestID.Header),
		xrequestid.WithResponseHeader(d.cfg.RequestID.ResponseHeader),
		xrequestid.WithLogger(d.logger),
	}
	if d.generator != nil {
		ridOpts = append(ridOpts, xrequestid.WithGenerator(d.generator))
	}

	return xrequestid.Middleware(ridOpts...)(
		xroute.OriginalURI()(
			match(layer.Handler(router)),
		),
	)
}

func index(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"service": "xoteldemo", "version": Version})
}

// getUser id 为 0 时模拟后端故障，用于观察 ERROR 状态的 span
func getUser(w http.ResponseWriter, id string) {
	n, err := strconv.ParseUint(id, 10, 64)
	switch {
	case err != nil:
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid user id"})
	case n == 0:
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "user store unavailable"})
	default:
		writeJSON(w, http.StatusOK, map[string]any{"id": n, "name": "user-" + id})
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
