package xspantest_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omeyang/xotelkit/pkg/observability/xspan"
	"github.com/omeyang/xotelkit/pkg/observability/xspan/xspantest"
)

func TestRecorder(t *testing.T) {
	rec := xspantest.NewRecorder()
	assert.Nil(t, rec.Last())

	span := rec.NewSpan("op", xspan.String("a", "1"), xspan.Empty("b"))
	span.Record("b", "x")
	span.Record("b", "y")
	span.Record("c", "ignored")

	type parentKey struct{}
	parent := context.WithValue(context.Background(), parentKey{}, "p")
	span.SetParent(parent)
	_ = span.Context(context.Background())
	span.End()

	got := rec.Last()
	require.NotNil(t, got)
	assert.Equal(t, "op", got.Name())
	assert.Equal(t, "1", got.Value("a"))
	assert.Equal(t, "y", got.Value("b"))
	assert.Equal(t, []string{"x", "y"}, got.History("b"))
	assert.False(t, got.Declared("c"))
	assert.Empty(t, got.History("c"))
	assert.Equal(t, "p", got.Parent().Value(parentKey{}))
	assert.Equal(t, 1, got.ContextCount())
	assert.True(t, got.Ended())
	assert.Len(t, got.Fields(), 2)

	rec.Reset()
	assert.Empty(t, rec.Spans())
}
