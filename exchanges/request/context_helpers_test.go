package request

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsVerbose(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	assert.False(t, IsVerbose(ctx, false), "IsVerbose should be false by default")
	assert.True(t, IsVerbose(ctx, true), "the requester setting should win")
	assert.True(t, IsVerbose(WithVerbose(ctx), false), "the context flag should enable verbosity")
	assert.False(t, IsVerbose(context.WithValue(ctx, verboseKey, "yes"), false), "a non bool value should be ignored")
}

func TestWithDelayNotAllowed(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	assert.True(t, hasDelayNotAllowed(WithDelayNotAllowed(ctx)))
	assert.False(t, hasDelayNotAllowed(ctx))
	assert.False(t, hasDelayNotAllowed(WithVerbose(ctx)), "keys must not collide")
}

func TestTraceID(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	assert.Empty(t, TraceID(ctx))
	assert.Equal(t, ctx, WithTraceID(ctx, ""), "an empty ID should not wrap the context")
	assert.Equal(t, "abc-123", TraceID(WithTraceID(ctx, "abc-123")))
	assert.Empty(t, TraceID(WithVerbose(ctx)), "keys must not collide")
}
