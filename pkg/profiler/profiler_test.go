package profiler

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecord_NoopWhenDisabled(t *testing.T) {
	enabled = false
	ctx := context.Background()
	gotCtx, span := Record(ctx, "advance", "bfs")
	assert.Equal(t, ctx, gotCtx)
	span.End() // must not panic

	assert.NoError(t, Report(ctx))
}

func TestEnabled_ReflectsInitArgument(t *testing.T) {
	enabled = true
	assert.True(t, Enabled())
	enabled = false
	assert.False(t, Enabled())
}
