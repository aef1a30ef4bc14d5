package tracing

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTraced_PassesThroughResult(t *testing.T) {
	got, err := Traced(context.Background(), "test.op", func(ctx context.Context) (int, error) {
		return 42, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 42, got)

	boom := errors.New("boom")
	_, err = Traced(context.Background(), "test.fail", func(ctx context.Context) (string, error) {
		return "", boom
	})
	assert.ErrorIs(t, err, boom)
}

func TestTimedSpan_ReportsDuration(t *testing.T) {
	ctx, span := StartTimedSpan(context.Background(), "test.timed", AllocationAttributes("run-1", 3, 2)...)
	span.SetAttributes(ScoreAttributes("outbreak", "HIGH", 21.5)...)

	assert.GreaterOrEqual(t, int64(span.End()), int64(0))
	// the default global provider does not sample
	assert.Empty(t, GetTraceID(ctx))
}
