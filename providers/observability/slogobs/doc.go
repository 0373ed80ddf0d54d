// Package slogobs provides an observability.Provider implementation backed by
// Go's standard library log/slog package.
//
// Spans are logged at debug level when they start and end and are attached to
// the returned context. Counters and histograms live in memory and can be read
// back with [Observer.CounterValue] and [Observer.HistogramValues], which is
// what the loop tests rely on. The main entry point is [New]; output format and
// log level are tuned with [WithFormat], [WithLevel], [WithOutput] and
// [WithLogger], or through REACT_LOG_FORMAT and REACT_LOG_LEVEL.
package slogobs
