package react

import "github.com/leofalp/reactloop/providers/observability"

// DefaultMaxSteps is the step limit used when none is configured.
const DefaultMaxSteps = 10

// Option configures a Loop.
type Option func(*Loop)

// WithMaxSteps sets how many action and malformed steps a run may take before
// it ends with OutcomeStepLimitExceeded. Values below 1 are ignored.
func WithMaxSteps(n int) Option {
	return func(l *Loop) {
		if n > 0 {
			l.maxSteps = n
		}
	}
}

// WithObserver adds step observers. They are notified in the order given.
func WithObserver(observers ...Observer) Option {
	return func(l *Loop) {
		for _, o := range observers {
			if o != nil {
				l.observers = append(l.observers, o)
			}
		}
	}
}

// WithObservability enables tracing, metrics and logging for every run.
func WithObservability(provider observability.Provider) Option {
	return func(l *Loop) {
		l.obs = observability.OrNop(provider)
	}
}
