package observability

import (
	"context"
	"fmt"
	"time"
	"unicode/utf8"
)

// Provider bundles the three signals a component may emit. Components take
// one as an option and fall back to [Nop].
type Provider interface {
	Tracer
	Metrics
	Logger
}

// Tracer starts spans.
type Tracer interface {
	// StartSpan returns ctx carrying the new span, and the span itself.
	StartSpan(ctx context.Context, name string, attrs ...Attribute) (context.Context, Span)
}

// Span is one timed unit of work: a run, an LLM request, a tool call.
type Span interface {
	End()
	SetAttributes(attrs ...Attribute)
	SetStatus(code StatusCode, description string)
	RecordError(err error)
	AddEvent(name string, attrs ...Attribute)
}

// StatusCode is the final state of a span.
type StatusCode int

const (
	StatusUnset StatusCode = iota
	StatusOK
	StatusError
)

// Metrics hands out named instruments. Asking twice for the same name
// returns the same instrument.
type Metrics interface {
	Counter(name string) Counter
	Histogram(name string) Histogram
}

// Counter only goes up.
type Counter interface {
	Add(ctx context.Context, value int64, attrs ...Attribute)
}

// Histogram records a distribution, durations in seconds by convention.
type Histogram interface {
	Record(ctx context.Context, value float64, attrs ...Attribute)
}

// Logger is a leveled structured logger. Trace sits below Debug.
type Logger interface {
	Trace(ctx context.Context, msg string, attrs ...Attribute)
	Debug(ctx context.Context, msg string, attrs ...Attribute)
	Info(ctx context.Context, msg string, attrs ...Attribute)
	Warn(ctx context.Context, msg string, attrs ...Attribute)
	Error(ctx context.Context, msg string, attrs ...Attribute)
}

// Attribute is a key/value pair attached to spans, metrics and log lines.
// Keys come from semconv.go where one exists.
type Attribute struct {
	Key   string
	Value any
}

func String(key, value string) Attribute                 { return Attribute{Key: key, Value: value} }
func StringSlice(key string, values []string) Attribute  { return Attribute{Key: key, Value: values} }
func Int(key string, value int) Attribute                { return Attribute{Key: key, Value: value} }
func Bool(key string, value bool) Attribute              { return Attribute{Key: key, Value: value} }
func Duration(key string, value time.Duration) Attribute { return Attribute{Key: key, Value: value} }

// Error returns the AttrError attribute; a nil error gives an empty value.
func Error(err error) Attribute {
	if err == nil {
		return Attribute{Key: AttrError, Value: ""}
	}
	return Attribute{Key: AttrError, Value: err.Error()}
}

// DefaultMaxStringLength bounds queries, tool inputs and outputs in telemetry.
const DefaultMaxStringLength = 500

// TruncateString shortens s to at most maxLen bytes without splitting a UTF-8
// sequence and notes the original length. A non-positive maxLen means
// [DefaultMaxStringLength].
func TruncateString(s string, maxLen int) string {
	if maxLen <= 0 {
		maxLen = DefaultMaxStringLength
	}
	if len(s) <= maxLen {
		return s
	}

	cut := maxLen
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return fmt.Sprintf("%s... (truncated, total: %d chars)", s[:cut], len(s))
}

// TruncateStringDefault is TruncateString with DefaultMaxStringLength.
func TruncateStringDefault(s string) string {
	return TruncateString(s, DefaultMaxStringLength)
}
