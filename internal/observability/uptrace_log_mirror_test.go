package observability

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	otellog "go.opentelemetry.io/otel/log"
	"go.uber.org/zap/zapcore"
)

func TestIsQuietRequestLog(t *testing.T) {
	assert.True(t, isQuietRequestLog("http request", []any{"method", "GET", "path", "/healthz"}))
	assert.False(t, isQuietRequestLog("http request", []any{"method", "GET", "path", "/v1/statistics"}))
	assert.False(t, isQuietRequestLog("qstash publish request", []any{"path", "/healthz"}))
}

func TestLogAttributes(t *testing.T) {
	goals := 2
	attrs := logAttributes([]any{"match_id", "4455", "goals", &goals, 7, "x", "payload"})
	require.Len(t, attrs, 4)

	assert.Equal(t, "match_id", attrs[0].Key)
	assert.Equal(t, "4455", attrs[0].Value.AsString())
	assert.Equal(t, int64(2), attrs[1].Value.AsInt64())
	assert.Equal(t, "arg_2", attrs[2].Key)
	assert.Equal(t, "payload", attrs[3].Key)
	assert.Equal(t, otellog.KindEmpty, attrs[3].Value.Kind())
}

func TestLogValue(t *testing.T) {
	assert.Equal(t, otellog.KindEmpty, logValue((*int)(nil), 0).Kind())
	assert.Equal(t, "90m0s", logValue(90*time.Minute, 0).AsString())
	assert.Equal(t, "boom", logValue(errors.New("boom"), 0).AsString())
	assert.Len(t, logValue([]string{"Arsenal", "Chelsea"}, 0).AsSlice(), 2)

	nested := logValue(map[string]any{"team": "Arsenal", "is_home": true}, 0)
	require.Equal(t, otellog.KindMap, nested.Kind())
	assert.Len(t, nested.AsMap(), 2)
}

func TestSeverityOf(t *testing.T) {
	assert.Equal(t, otellog.SeverityInfo, severityOf(zapcore.InfoLevel))
	assert.Equal(t, otellog.SeverityError, severityOf(zapcore.ErrorLevel))
	assert.Equal(t, otellog.SeverityFatal, severityOf(zapcore.PanicLevel))
	assert.Equal(t, otellog.SeverityDebug, severityOf(zapcore.DebugLevel))
}
