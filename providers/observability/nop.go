package observability

import "context"

// Nop returns a Provider that discards everything. Components fall back to it
// when no provider is configured, so call sites never need nil checks.
func Nop() Provider {
	return nopProvider{}
}

// OrNop returns p, or [Nop] when p is nil.
func OrNop(p Provider) Provider {
	if p == nil {
		return Nop()
	}
	return p
}

type nopProvider struct{}

type nopSpan struct{}

type nopInstrument struct{}

func (nopProvider) StartSpan(ctx context.Context, _ string, _ ...Attribute) (context.Context, Span) {
	return ctx, nopSpan{}
}

func (nopProvider) Counter(string) Counter                          { return nopInstrument{} }
func (nopProvider) Histogram(string) Histogram                      { return nopInstrument{} }
func (nopProvider) Trace(context.Context, string, ...Attribute)     {}
func (nopProvider) Debug(context.Context, string, ...Attribute)     {}
func (nopProvider) Info(context.Context, string, ...Attribute)      {}
func (nopProvider) Warn(context.Context, string, ...Attribute)      {}
func (nopProvider) Error(context.Context, string, ...Attribute)     {}
func (nopSpan) End()                                                {}
func (nopSpan) SetAttributes(...Attribute)                          {}
func (nopSpan) SetStatus(StatusCode, string)                        {}
func (nopSpan) RecordError(error)                                   {}
func (nopSpan) AddEvent(string, ...Attribute)                       {}
func (nopInstrument) Add(context.Context, int64, ...Attribute)      {}
func (nopInstrument) Record(context.Context, float64, ...Attribute) {}
