package slogobs

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/leofalp/reactloop/providers/observability"
)

// Observer implements observability.Provider on top of a slog.Logger.
type Observer struct {
	logger  *slog.Logger
	metrics *metricsStore
}

var _ observability.Provider = (*Observer)(nil)

// New creates a new slog-based observer with functional options.
// Without options the format and level come from REACT_LOG_FORMAT and
// REACT_LOG_LEVEL, defaulting to compact text at INFO written to stderr.
//
// Example usage:
//
//	observer := slogobs.New(
//	    slogobs.WithFormat(slogobs.FormatJSON),
//	    slogobs.WithLevel(slog.LevelDebug),
//	)
func New(opts ...Option) *Observer {
	cfg := applyOptions(opts...)
	return &Observer{
		logger:  cfg.newLogger(),
		metrics: newMetricsStore(),
	}
}

// Logger returns the underlying slog.Logger.
func (o *Observer) Logger() *slog.Logger {
	return o.logger
}

// --- TRACING ---

// StartSpan logs the span start at debug level and returns a context carrying
// the span, so nested code can add events through observability.SpanFromContext.
func (o *Observer) StartSpan(ctx context.Context, name string, attrs ...observability.Attribute) (context.Context, observability.Span) {
	span := &slogSpan{
		ctx:       ctx,
		name:      name,
		startTime: time.Now(),
		logger:    o.logger,
		attrs:     attrs,
	}

	logAttrs := append([]slog.Attr{
		slog.String("span", name),
		slog.String("event", "span.start"),
	}, toSlogAttrs(attrs)...)
	o.logger.LogAttrs(ctx, slog.LevelDebug, "Span started", logAttrs...)

	return observability.ContextWithSpan(ctx, span), span
}

type slogSpan struct {
	ctx       context.Context
	name      string
	startTime time.Time
	logger    *slog.Logger

	mu    sync.Mutex
	attrs []observability.Attribute
	ended bool
}

// End logs the elapsed time and accumulated attributes. Only the first call logs.
func (s *slogSpan) End() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ended {
		return
	}
	s.ended = true

	logAttrs := append([]slog.Attr{
		slog.String("span", s.name),
		slog.String("event", "span.end"),
		slog.Duration("duration", time.Since(s.startTime)),
	}, toSlogAttrs(s.attrs)...)
	s.logger.LogAttrs(s.ctx, slog.LevelDebug, "Span ended", logAttrs...)
}

func (s *slogSpan) SetAttributes(attrs ...observability.Attribute) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attrs = append(s.attrs, attrs...)
}

func (s *slogSpan) SetStatus(code observability.StatusCode, description string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	status := "unset"
	switch code {
	case observability.StatusOK:
		status = "ok"
	case observability.StatusError:
		status = "error"
	}

	s.attrs = append(s.attrs, observability.String("status", status))
	if description != "" {
		s.attrs = append(s.attrs, observability.String("status_description", description))
	}
}

// RecordError attaches err to the span and logs it at warn level. Errors inside
// a run are usually recovered into observations, so they are not ERROR records.
func (s *slogSpan) RecordError(err error) {
	if err == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.attrs = append(s.attrs, observability.Error(err))
	s.logger.LogAttrs(s.ctx, slog.LevelWarn, "Span error",
		slog.String("span", s.name),
		slog.String("error", err.Error()),
	)
}

func (s *slogSpan) AddEvent(name string, attrs ...observability.Attribute) {
	logAttrs := append([]slog.Attr{
		slog.String("span", s.name),
		slog.String("event", name),
	}, toSlogAttrs(attrs)...)
	s.logger.LogAttrs(s.ctx, slog.LevelDebug, "Span event", logAttrs...)
}

// --- METRICS ---

// Counter returns the named counter, creating it on first use.
func (o *Observer) Counter(name string) observability.Counter {
	return o.metrics.counter(name, o.logger)
}

// Histogram returns the named histogram, creating it on first use.
func (o *Observer) Histogram(name string) observability.Histogram {
	return o.metrics.histogram(name, o.logger)
}

// CounterValue returns the cumulative value of a counter, or 0 if it was never used.
func (o *Observer) CounterValue(name string) int64 {
	o.metrics.mu.RLock()
	counter, ok := o.metrics.counters[name]
	o.metrics.mu.RUnlock()
	if !ok {
		return 0
	}
	counter.mu.Lock()
	defer counter.mu.Unlock()
	return counter.value
}

// HistogramValues returns a copy of all values recorded by a histogram.
func (o *Observer) HistogramValues(name string) []float64 {
	o.metrics.mu.RLock()
	histogram, ok := o.metrics.histograms[name]
	o.metrics.mu.RUnlock()
	if !ok {
		return nil
	}
	histogram.mu.Lock()
	defer histogram.mu.Unlock()
	return append([]float64(nil), histogram.values...)
}

type metricsStore struct {
	mu         sync.RWMutex
	counters   map[string]*slogCounter
	histograms map[string]*slogHistogram
}

func newMetricsStore() *metricsStore {
	return &metricsStore{
		counters:   make(map[string]*slogCounter),
		histograms: make(map[string]*slogHistogram),
	}
}

func (m *metricsStore) counter(name string, logger *slog.Logger) *slogCounter {
	m.mu.Lock()
	defer m.mu.Unlock()
	counter, ok := m.counters[name]
	if !ok {
		counter = &slogCounter{name: name, logger: logger}
		m.counters[name] = counter
	}
	return counter
}

func (m *metricsStore) histogram(name string, logger *slog.Logger) *slogHistogram {
	m.mu.Lock()
	defer m.mu.Unlock()
	histogram, ok := m.histograms[name]
	if !ok {
		histogram = &slogHistogram{name: name, logger: logger}
		m.histograms[name] = histogram
	}
	return histogram
}

type slogCounter struct {
	name   string
	logger *slog.Logger
	mu     sync.Mutex
	value  int64
}

func (c *slogCounter) Add(ctx context.Context, value int64, attrs ...observability.Attribute) {
	c.mu.Lock()
	c.value += value
	total := c.value
	c.mu.Unlock()

	logAttrs := append([]slog.Attr{
		slog.String("metric", c.name),
		slog.Int64("delta", value),
		slog.Int64("total", total),
	}, toSlogAttrs(attrs)...)
	c.logger.LogAttrs(ctx, slog.LevelDebug, "Counter", logAttrs...)
}

type slogHistogram struct {
	name   string
	logger *slog.Logger
	mu     sync.Mutex
	values []float64
}

func (h *slogHistogram) Record(ctx context.Context, value float64, attrs ...observability.Attribute) {
	h.mu.Lock()
	h.values = append(h.values, value)
	h.mu.Unlock()

	logAttrs := append([]slog.Attr{
		slog.String("metric", h.name),
		slog.Float64("value", value),
	}, toSlogAttrs(attrs)...)
	h.logger.LogAttrs(ctx, slog.LevelDebug, "Histogram", logAttrs...)
}

// --- LOGGING ---

// Trace logs below DEBUG; it is only emitted when the level is set to TRACE.
func (o *Observer) Trace(ctx context.Context, msg string, attrs ...observability.Attribute) {
	o.logger.LogAttrs(ctx, LevelTrace, msg, toSlogAttrs(attrs)...)
}

func (o *Observer) Debug(ctx context.Context, msg string, attrs ...observability.Attribute) {
	o.logger.LogAttrs(ctx, slog.LevelDebug, msg, toSlogAttrs(attrs)...)
}

func (o *Observer) Info(ctx context.Context, msg string, attrs ...observability.Attribute) {
	o.logger.LogAttrs(ctx, slog.LevelInfo, msg, toSlogAttrs(attrs)...)
}

func (o *Observer) Warn(ctx context.Context, msg string, attrs ...observability.Attribute) {
	o.logger.LogAttrs(ctx, slog.LevelWarn, msg, toSlogAttrs(attrs)...)
}

func (o *Observer) Error(ctx context.Context, msg string, attrs ...observability.Attribute) {
	o.logger.LogAttrs(ctx, slog.LevelError, msg, toSlogAttrs(attrs)...)
}

func toSlogAttrs(attrs []observability.Attribute) []slog.Attr {
	out := make([]slog.Attr, 0, len(attrs))
	for _, attr := range attrs {
		out = append(out, slog.Any(attr.Key, attr.Value))
	}
	return out
}
