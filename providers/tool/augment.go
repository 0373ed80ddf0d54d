package tool

import (
	"context"
	"fmt"

	"github.com/leofalp/reactloop/internal/jsonschema"
	"github.com/leofalp/reactloop/providers/observability"
)

const (
	// ReasoningParamName is the reserved name of the injected reasoning parameter.
	ReasoningParamName = "_thought"

	// DefaultReasoningDescription documents the reasoning parameter to the model.
	DefaultReasoningDescription = "Your detailed reasoning about what to do next. Think step-by-step."
)

// ThoughtCallback receives the reasoning captured before a tool runs.
type ThoughtCallback func(ctx context.Context, toolName, thought string)

// Option configures [Augment] and [NewCatalog].
type Option func(*options)

type options struct {
	onThought            ThoughtCallback
	reasoningDescription string
	mode                 ReasoningMode
}

func applyOptions(opts []Option) options {
	o := options{reasoningDescription: DefaultReasoningDescription}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithThoughtCallback sets the callback invoked with the reasoning text each
// time an augmented tool is called. Without one the reasoning is discarded.
func WithThoughtCallback(callback ThoughtCallback) Option {
	return func(o *options) {
		o.onThought = callback
	}
}

// WithReasoningDescription overrides the documentation of the reasoning parameter.
func WithReasoningDescription(description string) Option {
	return func(o *options) {
		if description != "" {
			o.reasoningDescription = description
		}
	}
}

// AugmentedTool wraps a tool so that its visible contract starts with a
// mandatory reasoning parameter. The reasoning is handed to the thought
// callback and removed before the original handler runs, so the original
// tool never sees it.
type AugmentedTool struct {
	original  *Spec
	exposed   *Spec
	onThought ThoughtCallback
}

// Augment builds the augmented form of spec. The reasoning parameter is always
// first, also when the tool has no parameters of its own. It fails with
// *NameCollisionError when spec already declares a parameter named
// ReasoningParamName and with *InvalidSpecError when spec is not valid.
//
// Augment does not call anything: the callback fires only when the tool is invoked.
func Augment(spec *Spec, opts ...Option) (*AugmentedTool, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	if _, exists := spec.Parameter(ReasoningParamName); exists {
		return nil, &NameCollisionError{Tool: spec.Name, Parameter: ReasoningParamName}
	}

	o := applyOptions(opts)

	original := spec.Clone()
	reasoning := Parameter{
		Name:        ReasoningParamName,
		Type:        "string",
		Description: o.reasoningDescription,
		Required:    true,
	}

	a := &AugmentedTool{original: original, onThought: o.onThought}
	a.exposed = &Spec{
		Name:        original.Name,
		Description: original.Description,
		Parameters:  append([]Parameter{reasoning}, original.Parameters...),
		Handler:     a.handle,
	}
	return a, nil
}

// handle pops the reasoning, reports it, rebinds the remaining arguments
// against the original parameter list and runs the original handler.
func (a *AugmentedTool) handle(ctx context.Context, args map[string]any) (string, error) {
	raw, ok := args[ReasoningParamName]
	if !ok {
		return "", &BindError{Tool: a.original.Name, Reason: fmt.Sprintf("missing required argument %q", ReasoningParamName)}
	}
	thought, ok := raw.(string)
	if !ok {
		return "", &BindError{Tool: a.original.Name, Reason: fmt.Sprintf("argument %q must be a string, got %T", ReasoningParamName, raw)}
	}

	rest := make(map[string]any, len(args))
	for name, value := range args {
		if name != ReasoningParamName {
			rest[name] = value
		}
	}

	if a.onThought != nil {
		a.onThought(ctx, a.original.Name, thought)
	}

	bound, err := a.original.Bind(nil, rest)
	if err != nil {
		return "", err
	}
	return a.original.Handler(ctx, bound)
}

// Name returns the tool name, unchanged by augmentation.
func (a *AugmentedTool) Name() string { return a.exposed.Name }

// Description returns the documentation of the augmented tool: the original
// description with the reasoning parameter listed first in the Args block.
func (a *AugmentedTool) Description() string { return a.exposed.Documentation() }

// Parameters returns the visible parameter list, reasoning first.
func (a *AugmentedTool) Parameters() []Parameter {
	return append([]Parameter(nil), a.exposed.Parameters...)
}

// Schema returns the JSON Schema with the reasoning parameter as the first
// property and the first required entry.
func (a *AugmentedTool) Schema() *jsonschema.Schema { return a.exposed.Schema() }

// Original returns the wrapped spec as it was before augmentation.
func (a *AugmentedTool) Original() *Spec { return a.original.Clone() }

// Spec returns a copy of the augmented contract as a regular Spec, so anything
// that introspects specs sees the reasoning parameter as native.
func (a *AugmentedTool) Spec() *Spec { return a.exposed.Clone() }

// Call invokes the augmented tool. With positional arguments the first value
// is the reasoning; with named arguments it is the ReasoningParamName key.
func (a *AugmentedTool) Call(ctx context.Context, positional []any, named map[string]any) (string, error) {
	return a.exposed.Invoke(ctx, positional, named)
}

// LogThoughts returns a ThoughtCallback that logs every thought at info level
// as "Thought: ..." and records it as an event on the active span.
func LogThoughts(provider observability.Provider) ThoughtCallback {
	provider = observability.OrNop(provider)
	return func(ctx context.Context, toolName, thought string) {
		provider.Info(ctx, "Thought: "+thought, observability.String(observability.AttrToolName, toolName))
		if span := observability.SpanFromContext(ctx); span != nil {
			span.AddEvent(observability.EventToolThought,
				observability.String(observability.AttrToolName, toolName),
				observability.String(observability.AttrToolThought, observability.TruncateStringDefault(thought)),
			)
		}
	}
}
