package observability

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	otellog "go.opentelemetry.io/otel/log"
)

func TestShouldSkipUptraceLog(t *testing.T) {
	t.Parallel()

	assert.True(t, shouldSkipUptraceLog("http request", []any{"method", "GET", "path", "/healthz"}))
	assert.True(t, shouldSkipUptraceLog("http request", []any{"path", "/readyz"}))
	assert.False(t, shouldSkipUptraceLog("http request", []any{"path", "/v1/leaderboards/se-1"}))
	assert.False(t, shouldSkipUptraceLog("leaderboard recalculated", []any{"path", "/healthz"}))
	assert.False(t, shouldSkipUptraceLog("http request", []any{"path", 42}))
}

func TestBuildOTelLogAttributes(t *testing.T) {
	t.Parallel()

	attrs := buildOTelLogAttributes([]any{"sport_event_id", "se-futsal", "entries", 4, "dangling"})
	require.Len(t, attrs, 3)
	assert.Equal(t, "sport_event_id", attrs[0].Key)
	assert.Equal(t, "se-futsal", attrs[0].Value.AsString())
	assert.Equal(t, "entries", attrs[1].Key)
	assert.Equal(t, int64(4), attrs[1].Value.AsInt64())
	assert.Equal(t, "dangling", attrs[2].Key)
	assert.Equal(t, otellog.KindEmpty, attrs[2].Value.Kind())
}

type outcome string

func TestToOTelLogValue(t *testing.T) {
	t.Parallel()

	v := toOTelLogValue(map[string]any{"won": 2, "final": true}, 0)
	require.Equal(t, otellog.KindMap, v.Kind())
	assert.Len(t, v.AsMap(), 2)

	assert.Equal(t, "recalculated", toOTelLogValue(outcome("recalculated"), 0).AsString())
	assert.Equal(t, int64(7), toOTelLogValue(uint16(7), 0).AsInt64())
	assert.Equal(t, "1.5s", toOTelLogValue(1500*time.Millisecond, 0).AsString())
	assert.Equal(t, "boom", toOTelLogValue(errors.New("boom"), 0).AsString())

	goals := 3
	assert.Equal(t, int64(3), toOTelLogValue(&goals, 0).AsInt64())
	var missing *int
	assert.Equal(t, otellog.KindEmpty, toOTelLogValue(missing, 0).Kind())
}
