package logctx

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestTraceID_RoundTrip(t *testing.T) {
	ctx := WithTraceID(context.Background(), "trace-123")
	assert.Equal(t, "trace-123", TraceID(ctx))
	assert.Empty(t, TraceID(context.Background()))
	assert.Empty(t, TraceID(nil))
}

func TestTraceID_IgnoresForeignStringKeys(t *testing.T) {
	// A value stored under a plain string key must not leak into ours.
	type stringKey string
	ctx := context.WithValue(context.Background(), stringKey("traceID"), "spoofed")
	assert.Empty(t, TraceID(ctx))
}

func TestFromCtx_PrefersStoredLogger(t *testing.T) {
	base := zap.NewNop().Sugar()
	stored := zap.NewNop().Sugar().With("marker", "stored")

	ctx := WithLogger(context.Background(), stored)
	assert.Same(t, stored, FromCtx(ctx, base))
}

func TestFromCtx_EnrichesFromPrimitives(t *testing.T) {
	base := zap.NewNop().Sugar()

	ctx := WithUserID(WithTraceID(context.Background(), "trace-abc"), "acct-1")
	got := FromCtx(ctx, base)
	assert.NotSame(t, base, got)

	// Nothing to enrich with: the base logger comes back untouched.
	assert.Same(t, base, FromCtx(context.Background(), base))
}
