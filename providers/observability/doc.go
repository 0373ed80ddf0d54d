// Package observability defines the interfaces and semantic conventions used
// for tracing, metrics collection and structured logging throughout reactloop.
//
// The central entry point is [Provider], which composes [Tracer], [Metrics]
// and [Logger] into a single injectable dependency. A run propagates its
// [Provider] and active [Span] through a [context.Context] using
// [ContextWithObserver] and [ContextWithSpan]; they can be retrieved with
// [ObserverFromContext] and [SpanFromContext]. [Nop] is the silent default.
//
// semconv.go holds the attribute keys, span names and metric names shared by
// the tool catalog, the ReAct loop and the HTTP collaborators.
package observability
