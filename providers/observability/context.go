package observability

import "context"

type spanKey struct{}

type observerKey struct{}

// SpanFromContext extracts a Span from the context.
// Returns nil if no span is present.
func SpanFromContext(ctx context.Context) Span {
	if ctx == nil {
		return nil
	}
	span, _ := ctx.Value(spanKey{}).(Span)
	return span
}

// ContextWithSpan returns a new context with the given span attached.
func ContextWithSpan(ctx context.Context, span Span) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, spanKey{}, span)
}

// ContextWithObserver returns a new context carrying the given provider, so that
// code reached through a tool handler can log against the run's provider.
func ContextWithObserver(ctx context.Context, provider Provider) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, observerKey{}, provider)
}

// ObserverFromContext returns the provider stored by [ContextWithObserver], or nil.
func ObserverFromContext(ctx context.Context) Provider {
	if ctx == nil {
		return nil
	}
	provider, _ := ctx.Value(observerKey{}).(Provider)
	return provider
}
