package xhttptrace_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omeyang/xotelkit/pkg/observability/xhttptrace"
)

func TestServerErrorsAsFailures(t *testing.T) {
	cl := xhttptrace.ServerErrorsAsFailures()
	tests := []struct {
		status int
		failed bool
	}{
		{200, false},
		{404, false},
		{499, false},
		{500, true},
		{503, true},
		{599, true},
	}
	for _, tt := range tests {
		class, failed := cl.ClassifyResponse(tt.status)
		assert.Equal(t, tt.failed, failed, "status %d", tt.status)
		if failed {
			assert.True(t, class.IsStatusCode())
			assert.Equal(t, tt.status, class.StatusCode)
		}
	}
}

func TestStatusInRangeAsFailures(t *testing.T) {
	cl, err := xhttptrace.StatusInRangeAsFailures(400, 599)
	require.NoError(t, err)
	_, failed := cl.ClassifyResponse(404)
	assert.True(t, failed)
	_, failed = cl.ClassifyResponse(302)
	assert.False(t, failed)

	for _, r := range [][2]int{{99, 200}, {400, 600}, {500, 400}} {
		_, err := xhttptrace.StatusInRangeAsFailures(r[0], r[1])
		assert.ErrorIs(t, err, xhttptrace.ErrInvalidStatusRange)
	}
}

func TestFailureClass_String(t *testing.T) {
	assert.Equal(t, "Status code: 500", xhttptrace.StatusCodeFailure(500).String())
	assert.Equal(t, "Error: broken pipe", xhttptrace.ErrorFailure(errors.New("broken pipe")).String())
	assert.Equal(t, "Error: <nil>", xhttptrace.ErrorFailure(nil).String())
	assert.True(t, xhttptrace.ErrorFailure(nil).IsError())
	assert.False(t, xhttptrace.ErrorFailure(nil).IsStatusCode())
	assert.Equal(t, "FailureKind(0)", xhttptrace.FailureClass{}.String())
	assert.Equal(t, "status_code", xhttptrace.FailureStatusCode.String())
	assert.Equal(t, "error", xhttptrace.FailureError.String())
}

func TestClassifierFunc(t *testing.T) {
	cl := xhttptrace.ClassifierFunc(func(status int) (xhttptrace.FailureClass, bool) {
		return xhttptrace.StatusCodeFailure(status), status == 429
	})
	_, failed := cl.ClassifyResponse(429)
	assert.True(t, failed)
}
