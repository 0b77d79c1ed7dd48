package shared

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetTraceIDRoundTrip(t *testing.T) {
	t.Parallel()

	ctx := SetTraceID(context.Background())
	traceID := GetTraceID(ctx)

	assert.Len(t, traceID, TraceIDLength*2, "trace ID should be hex-encoded")
	assert.NotEqual(t, traceID, GetTraceID(SetTraceID(context.Background())),
		"each context should get a distinct trace ID")
}

func TestGetTraceIDMissing(t *testing.T) {
	t.Parallel()

	assert.Empty(t, GetTraceID(context.Background()))
}

func TestGenerateFallbackTraceID(t *testing.T) {
	t.Parallel()

	id := generateFallbackTraceID()
	assert.Len(t, id, TraceIDLength*2)
	assert.NotEqual(t, id, "00000000000000000000000000000000")
}
