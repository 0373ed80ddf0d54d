package react

import (
	"context"
	"fmt"

	"github.com/leofalp/reactloop/internal/utils"
	"github.com/leofalp/reactloop/providers/observability"
)

// Observer is notified of every step the loop produces, synchronously and in
// transcript order. Malformed steps are reported too, with Kind StepMalformed.
//
// OnStep must return promptly. A panic inside it is recovered and logged.
type Observer interface {
	OnStep(ctx context.Context, index int, step Step)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(ctx context.Context, index int, step Step)

// OnStep calls f.
func (f ObserverFunc) OnStep(ctx context.Context, index int, step Step) {
	f(ctx, index, step)
}

// MultiObserver fans a step out to several observers in order.
type MultiObserver []Observer

// OnStep notifies every observer. A panicking observer does not prevent the
// others from being called.
func (m MultiObserver) OnStep(ctx context.Context, index int, step Step) {
	for _, o := range m {
		notifySafely(ctx, o, index, step, nil)
	}
}

// notifySafely calls o and turns a panic into an error log on obs.
func notifySafely(ctx context.Context, o Observer, index int, step Step, obs observability.Provider) {
	if o == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			observability.OrNop(obs).Error(ctx, "step observer panicked",
				observability.Int(observability.AttrReactStepIndex, index),
				observability.String(observability.AttrReactStepKind, step.Kind.String()),
				observability.String(observability.AttrError, fmt.Sprint(r)),
			)
		}
	}()
	o.OnStep(ctx, index, step)
}

// NewLogObserver returns an observer that logs each step the way a ReAct
// trace reads:
//
//	Thought: ...
//	Action: search
//	Action Input: {"query":"..."}
//
// and "Finish: <answer>" for the final step.
func NewLogObserver(provider observability.Provider) Observer {
	provider = observability.OrNop(provider)
	return ObserverFunc(func(ctx context.Context, index int, step Step) {
		attrs := []observability.Attribute{
			observability.Int(observability.AttrReactStepIndex, index),
			observability.String(observability.AttrReactStepKind, step.Kind.String()),
		}

		switch step.Kind {
		case StepAction:
			if step.Thought != "" {
				provider.Info(ctx, "Thought: "+step.Thought, attrs...)
			}
			provider.Info(ctx, "Action: "+step.ToolName, attrs...)
			provider.Info(ctx, "Action Input: "+observability.TruncateStringDefault(utils.JSONToString(step.Arguments)), attrs...)
		case StepFinish:
			if step.Thought != "" {
				provider.Info(ctx, "Thought: "+step.Thought, attrs...)
			}
			provider.Info(ctx, "Finish: "+step.Answer, attrs...)
		case StepMalformed:
			provider.Warn(ctx, "Malformed step", append(attrs,
				observability.Error(step.Err),
				observability.String("react.step.raw", observability.TruncateStringDefault(step.Raw)),
			)...)
		}
	})
}
