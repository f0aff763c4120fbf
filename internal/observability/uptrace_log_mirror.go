package observability

import (
	"context"
	"fmt"
	"strings"
	"time"

	otellog "go.opentelemetry.io/otel/log"
	otelglobal "go.opentelemetry.io/otel/log/global"
	"go.uber.org/zap/zapcore"

	"github.com/riskibarqy/match-stats-scheduler/internal/platform/logging"
)

const logMirrorScope = "match-stats-scheduler/internal/platform/logging"

// quietPaths are request paths whose access logs stay out of Uptrace.
var quietPaths = map[string]struct{}{
	"/healthz": {},
}

// newUptraceLogMirror forwards every record written through logging.Logger
// to the global OTel log provider, keeping the trace context of ctx.
func newUptraceLogMirror(version string) logging.MirrorFunc {
	emitter := otelglobal.Logger(logMirrorScope, otellog.WithInstrumentationVersion(version))

	return func(ctx context.Context, level logging.Level, msg string, args ...any) {
		if isQuietRequestLog(msg, args) {
			return
		}
		if ctx == nil {
			ctx = context.Background()
		}

		severity := severityOf(level)
		if !emitter.Enabled(ctx, otellog.EnabledParameters{Severity: severity, EventName: msg}) {
			return
		}

		var record otellog.Record
		now := time.Now().UTC()
		record.SetTimestamp(now)
		record.SetObservedTimestamp(now)
		record.SetSeverity(severity)
		record.SetSeverityText(strings.ToUpper(level.String()))
		record.SetEventName(msg)
		record.SetBody(otellog.StringValue(msg))
		record.AddAttributes(logAttributes(args)...)
		emitter.Emit(ctx, record)
	}
}

func isQuietRequestLog(msg string, args []any) bool {
	if msg != "http request" {
		return false
	}
	for i := 0; i+1 < len(args); i += 2 {
		if args[i] == "path" {
			path, _ := args[i+1].(string)
			_, quiet := quietPaths[path]
			return quiet
		}
	}
	return false
}

// logAttributes turns alternating key/value args into OTel attributes. A
// trailing key without a value becomes an empty attribute.
func logAttributes(args []any) []otellog.KeyValue {
	attrs := make([]otellog.KeyValue, 0, (len(args)+1)/2)
	for i := 0; i < len(args); i += 2 {
		key, _ := args[i].(string)
		if strings.TrimSpace(key) == "" {
			key = fmt.Sprintf("arg_%d", i/2)
		}
		if i+1 == len(args) {
			attrs = append(attrs, otellog.Empty(key))
			break
		}
		attrs = append(attrs, otellog.KeyValue{Key: key, Value: logValue(args[i+1], 0)})
	}
	return attrs
}

func severityOf(level zapcore.Level) otellog.Severity {
	switch level {
	case zapcore.DebugLevel:
		return otellog.SeverityDebug
	case zapcore.InfoLevel:
		return otellog.SeverityInfo
	case zapcore.WarnLevel:
		return otellog.SeverityWarn
	case zapcore.ErrorLevel:
		return otellog.SeverityError
	default:
		if level < zapcore.DebugLevel {
			return otellog.SeverityDebug
		}
		return otellog.SeverityFatal
	}
}

// logValue converts the value kinds this service logs. Anything else is
// rendered with fmt.
func logValue(value any, depth int) otellog.Value {
	switch v := value.(type) {
	case nil:
		return otellog.Value{}
	case string:
		return otellog.StringValue(v)
	case bool:
		return otellog.BoolValue(v)
	case int:
		return otellog.IntValue(v)
	case int64:
		return otellog.Int64Value(v)
	case int32:
		return otellog.Int64Value(int64(v))
	case float64:
		return otellog.Float64Value(v)
	case *int:
		if v == nil {
			return otellog.Value{}
		}
		return otellog.IntValue(*v)
	case *bool:
		if v == nil {
			return otellog.Value{}
		}
		return otellog.BoolValue(*v)
	case time.Time:
		return otellog.StringValue(v.UTC().Format(time.RFC3339Nano))
	case time.Duration:
		return otellog.StringValue(v.String())
	case error:
		return otellog.StringValue(v.Error())
	case fmt.Stringer:
		return otellog.StringValue(v.String())
	case []string:
		items := make([]otellog.Value, len(v))
		for i, s := range v {
			items[i] = otellog.StringValue(s)
		}
		return otellog.SliceValue(items...)
	case map[string]any:
		if depth >= 2 {
			return otellog.StringValue(fmt.Sprint(v))
		}
		kvs := make([]otellog.KeyValue, 0, len(v))
		for key, item := range v {
			kvs = append(kvs, otellog.KeyValue{Key: key, Value: logValue(item, depth+1)})
		}
		return otellog.MapValue(kvs...)
	default:
		return otellog.StringValue(fmt.Sprint(v))
	}
}
