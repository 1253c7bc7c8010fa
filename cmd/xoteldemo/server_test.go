package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/omeyang/xotelkit/pkg/observability/xlog"
	"github.com/omeyang/xotelkit/pkg/observability/xspan"
)

func newTestHandler(t *testing.T, router string) (http.Handler, *tracetest.InMemoryExporter) {
	t.Helper()
	cfg, _, err := loadConfig("", nil)
	require.NoError(t, err)
	cfg.Server.Router = router

	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	logger, _, err := xlog.New().SetOutput(&bytes.Buffer{}).Build()
	require.NoError(t, err)

	h := newHandler(handlerDeps{
		cfg:      cfg,
		logger:   logger,
		recorder: xspan.NewOTelRecorder(xspan.WithTracerProvider(tp)),
	})
	return h, exporter
}

func TestHandler_Routes(t *testing.T) {
	for _, router := range []string{routerServeMux, routerChi} {
		t.Run(router, func(t *testing.T) {
			tests := []struct {
				target     string
				code       int
				route      string
				wantStatus codes.Code
			}{
				{"/", http.StatusOK, "/", codes.Ok},
				{"/users/42", http.StatusOK, "/users/{id}", codes.Ok},
				{"/users/abc", http.StatusBadRequest, "/users/{id}", codes.Ok},
				{"/users/0", http.StatusInternalServerError, "/users/{id}", codes.Error},
				{"/missing", http.StatusNotFound, "/missing", codes.Ok},
			}
			for _, tt := range tests {
				t.Run(tt.target, func(t *testing.T) {
					h, exporter := newTestHandler(t, router)

					req := httptest.NewRequest(http.MethodGet, tt.target, nil)
					req.Header.Set("X-Request-ID", "rid-1")
					rec := httptest.NewRecorder()
					h.ServeHTTP(rec, req)

					assert.Equal(t, tt.code, rec.Code)
					assert.Equal(t, "rid-1", rec.Header().Get("X-Request-ID"))

					spans := exporter.GetSpans()
					require.Len(t, spans, 1)
					assert.Equal(t, tt.wantStatus, spans[0].Status.Code)
					attrs := map[string]string{}
					for _, kv := range spans[0].Attributes {
						attrs[string(kv.Key)] = kv.Value.Emit()
					}
					assert.Equal(t, tt.route, attrs["http.route"])
					assert.Equal(t, "rid-1", attrs["request_id"])
				})
			}
		})
	}
}

func TestGetUser_Body(t *testing.T) {
	rec := httptest.NewRecorder()
	getUser(rec, "7")

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "user-7", body["name"])
	assert.True(t, strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json"))
}

func TestNewPropagator(t *testing.T) {
	p, err := newPropagator(nil)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"traceparent", "tracestate", "baggage"}, p.Fields())

	p, err = newPropagator([]string{"tracecontext", " Legacy "})
	require.NoError(t, err)
	assert.Contains(t, p.Fields(), "X-Trace-ID")

	_, err = newPropagator([]string{"b3"})
	assert.Error(t, err)
}
