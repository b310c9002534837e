package observability

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOperationMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewOperationMetrics(reg, "test")
	ctx := context.Background()

	m.RecordOperationAttempt(ctx, "StartMatch", "MatchService")
	m.RecordOperationAttempt(ctx, "StartMatch", "MatchService")
	m.RecordOperationSuccess(ctx, "StartMatch", "MatchService")
	m.RecordOperationFailure(ctx, "StartMatch", "MatchService")
	m.RecordOperationDuration(ctx, "StartMatch", "MatchService", 20*time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.attempts.WithLabelValues("MatchService", "StartMatch")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.successes.WithLabelValues("MatchService", "StartMatch")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.failures.WithLabelValues("MatchService", "StartMatch")))

	count, err := testutil.GatherAndCount(reg, "test_operation_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestInitWithWriter(t *testing.T) {
	var buf bytes.Buffer
	obs := InitWithWriter(Config{ServiceName: "tournament-admin", Environment: "production", LogLevel: "debug"}, &buf)

	require.NotNil(t, obs.Logger)
	require.NotNil(t, obs.Tracer)
	require.NotNil(t, obs.Registry)

	ctx := WithCorrelationID(context.Background(), "abc-123")
	obs.Logger.DebugContext(ctx, "hello", CorrelationAttr(ctx))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "{"), "production logs are JSON")
	assert.Contains(t, out, `"correlation_id":"abc-123"`)
	assert.Contains(t, out, `"service":"tournament-admin"`)
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, "DEBUG", parseLevel("debug").String())
	assert.Equal(t, "WARN", parseLevel("warning").String())
	assert.Equal(t, "ERROR", parseLevel("ERROR").String())
	assert.Equal(t, "INFO", parseLevel("").String())
}
