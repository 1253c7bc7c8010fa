package xlog_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"

	"github.com/omeyang/xotelkit/pkg/context/xreqext"
	"github.com/omeyang/xotelkit/pkg/observability/xlog"
)

func TestNewEnrichHandler_Nil(t *testing.T) {
	_, err := xlog.NewEnrichHandler(nil)
	assert.ErrorIs(t, err, xlog.ErrNilHandler)
}

func TestEnrichHandler(t *testing.T) {
	traceID, err := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	require.NoError(t, err)
	spanID, err := trace.SpanIDFromHex("00f067aa0ba902b7")
	require.NoError(t, err)
	sc := trace.NewSpanContext(trace.SpanContextConfig{TraceID: traceID, SpanID: spanID, Remote: true})

	tests := []struct {
		name    string
		ctx     context.Context
		want    map[string]string
		notWant []string
	}{
		{
			name:    "empty",
			ctx:     context.Background(),
			notWant: []string{xlog.KeyTraceID, xlog.KeySpanID, xlog.KeyRequestID},
		},
		{
			name: "span context",
			ctx:  trace.ContextWithSpanContext(context.Background(), sc),
			want: map[string]string{
				xlog.KeyTraceID: "4bf92f3577b34da6a3ce929d0e0e4736",
				xlog.KeySpanID:  "00f067aa0ba902b7",
			},
			notWant: []string{xlog.KeyRequestID},
		},
		{
			name:    "request id",
			ctx:     xreqext.WithRequestID(context.Background(), "req-9"),
			want:    map[string]string{xlog.KeyRequestID: "req-9"},
			notWant: []string{xlog.KeyTraceID},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			h, err := xlog.NewEnrichHandler(slog.NewJSONHandler(&buf, nil))
			require.NoError(t, err)
			slog.New(h).InfoContext(tt.ctx, "m")

			var line map[string]any
			require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
			for k, v := range tt.want {
				assert.Equal(t, v, line[k], k)
			}
			for _, k := range tt.notWant {
				assert.NotContains(t, line, k)
			}
		})
	}
}

func TestEnrichHandler_WithAttrsKeepsEnrich(t *testing.T) {
	var buf bytes.Buffer
	h, err := xlog.NewEnrichHandler(slog.NewJSONHandler(&buf, nil))
	require.NoError(t, err)

	logger := slog.New(h.WithAttrs([]slog.Attr{slog.String("svc", "a")}))
	logger.InfoContext(xreqext.WithRequestID(context.Background(), "r1"), "m")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "a", line["svc"])
	assert.Equal(t, "r1", line[xlog.KeyRequestID])
}
