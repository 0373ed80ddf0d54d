package react

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/leofalp/reactloop/internal/utils"
	"github.com/leofalp/reactloop/providers/observability"
	"github.com/leofalp/reactloop/providers/tool"
)

var (
	ErrEmptyQuery  = errors.New("react: query is empty")
	ErrNilProvider = errors.New("react: reasoning provider is nil")
	ErrNilCatalog  = errors.New("react: tool catalog is nil")
)

// Outcome is how a run ended.
type Outcome int

const (
	// OutcomeFinalAnswer means the provider produced a Finish step.
	OutcomeFinalAnswer Outcome = iota + 1
	// OutcomeStepLimitExceeded means the run used up its steps without finishing.
	OutcomeStepLimitExceeded
	// OutcomeCancelled means the context ended the run early.
	OutcomeCancelled
)

func (o Outcome) String() string {
	switch o {
	case OutcomeFinalAnswer:
		return "final_answer"
	case OutcomeStepLimitExceeded:
		return "step_limit_exceeded"
	case OutcomeCancelled:
		return "cancelled"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

// Result describes a finished run.
type Result struct {
	RunID   uuid.UUID
	Query   string
	Outcome Outcome
	// Answer and Thought come from the Finish step; both are empty otherwise.
	Answer     string
	Thought    string
	Transcript *Transcript
	// Steps counts the action and malformed steps taken.
	Steps    int
	Duration time.Duration
}

// Loop runs ReAct cycles against a reasoning provider and a tool catalog.
// A Loop holds no per-run state and may run several queries concurrently.
type Loop struct {
	provider  ReasoningProvider
	catalog   *tool.Catalog
	maxSteps  int
	observers []Observer
	obs       observability.Provider
}

// New creates a Loop.
func New(provider ReasoningProvider, catalog *tool.Catalog, opts ...Option) (*Loop, error) {
	if provider == nil {
		return nil, ErrNilProvider
	}
	if catalog == nil {
		return nil, ErrNilCatalog
	}

	l := &Loop{
		provider: provider,
		catalog:  catalog,
		maxSteps: DefaultMaxSteps,
		obs:      observability.Nop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l, nil
}

// MaxSteps returns the configured step limit.
func (l *Loop) MaxSteps() int { return l.maxSteps }

// Run answers query. It returns an error only for an empty query or when ctx
// is done, in which case the partial result is returned alongside the error.
// A step the provider returns after ctx is done is discarded, even a final
// answer: it is neither recorded nor passed to observers. Tool failures,
// unknown tools and malformed provider output are recorded in the transcript
// and the run goes on.
func (l *Loop) Run(ctx context.Context, query string) (*Result, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptyQuery
	}

	result := &Result{
		RunID:      uuid.New(),
		Query:      query,
		Transcript: &Transcript{},
	}

	ctx, span := l.obs.StartSpan(ctx, observability.SpanReactRun,
		observability.String(observability.AttrReactRunID, result.RunID.String()),
		observability.String(observability.AttrReactQuery, observability.TruncateStringDefault(query)),
		observability.Int(observability.AttrReactMaxSteps, l.maxSteps),
	)
	ctx = observability.ContextWithSpan(ctx, span)
	ctx = observability.ContextWithObserver(ctx, l.obs)
	defer span.End()

	l.obs.Info(ctx, "react run started",
		observability.String(observability.AttrReactRunID, result.RunID.String()),
		observability.String(observability.AttrReactQuery, observability.TruncateStringDefault(query)),
		observability.StringSlice(observability.AttrReactTools, l.catalog.Names()),
	)

	sw := utils.StartTimer()
	err := l.run(ctx, query, result)
	result.Duration = sw.Stop()

	l.finish(ctx, span, result, err)
	return result, err
}

func (l *Loop) run(ctx context.Context, query string, result *Result) error {
	transcript := result.Transcript
	tools := l.catalog.Specs()

	for {
		if err := ctx.Err(); err != nil {
			result.Outcome = OutcomeCancelled
			return fmt.Errorf("react run cancelled: %w", err)
		}
		if result.Steps >= l.maxSteps {
			result.Outcome = OutcomeStepLimitExceeded
			return nil
		}

		step := l.propose(ctx, query, transcript, tools)
		if err := ctx.Err(); err != nil {
			result.Outcome = OutcomeCancelled
			return fmt.Errorf("react run cancelled: %w", err)
		}

		index := transcript.Len()
		l.notify(ctx, index, step)
		l.obs.Counter(observability.MetricReactStepCount).Add(ctx, 1,
			observability.String(observability.AttrReactStepKind, step.Kind.String()),
		)

		var obs Observation
		switch step.Kind {
		case StepFinish:
			transcript.append(step, nil)
			result.Outcome = OutcomeFinalAnswer
			result.Answer = step.Answer
			result.Thought = step.Thought
			return nil
		case StepAction:
			obs = l.execute(ctx, step)
		default:
			obs = malformedObservation(step)
			if span := observability.SpanFromContext(ctx); span != nil {
				span.AddEvent(observability.EventStepMalformed,
					observability.Int(observability.AttrReactStepIndex, index),
					observability.Error(step.Err),
				)
			}
		}

		transcript.append(step, &obs)
		result.Steps++
	}
}

// propose asks the provider for a step and turns errors, panics and invalid
// steps into a malformed step.
func (l *Loop) propose(ctx context.Context, query string, transcript *Transcript, tools []*tool.Spec) (step Step) {
	defer func() {
		if r := recover(); r != nil {
			step = Malformed("", fmt.Errorf("reasoning provider panicked: %v", r))
		}
	}()

	step, err := l.provider.Propose(ctx, query, transcript, tools)
	if err != nil {
		return Malformed(step.Raw, fmt.Errorf("reasoning provider: %w", err))
	}
	if err := step.Validate(); err != nil {
		raw := step.Raw
		if raw == "" {
			raw = utils.JSONToString(map[string]any{
				"kind": step.Kind.String(), "thought": step.Thought, "tool": step.ToolName,
				"arguments": step.Arguments, "answer": step.Answer,
			})
		}
		return Malformed(raw, err)
	}
	return step
}

func (l *Loop) notify(ctx context.Context, index int, step Step) {
	for _, o := range l.observers {
		notifySafely(ctx, o, index, step, l.obs)
	}
}

// execute dispatches an action and converts every failure into an observation.
func (l *Loop) execute(ctx context.Context, step Step) Observation {
	ctx, span := l.obs.StartSpan(ctx, observability.SpanToolExecution,
		observability.String(observability.AttrToolName, step.ToolName),
		observability.String(observability.AttrToolInput, observability.TruncateStringDefault(utils.JSONToString(step.Arguments))),
	)
	ctx = observability.ContextWithSpan(ctx, span)
	defer span.End()

	sw := utils.StartTimer()
	output, err := l.catalog.Dispatch(ctx, step.ToolName, step.Thought, step.Arguments)
	elapsed := sw.Stop()

	if err == nil {
		span.SetAttributes(
			observability.String(observability.AttrToolOutput, observability.TruncateStringDefault(output)),
			observability.Duration(observability.AttrToolDuration, elapsed),
		)
		span.SetStatus(observability.StatusOK, "")
		return Observation{Text: output, Kind: ObservationToolOutput}
	}

	span.RecordError(err)
	span.SetStatus(observability.StatusError, "tool execution failed")

	obs := toolErrorObservation(step.ToolName, err)
	l.obs.Counter(observability.MetricToolErrorCount).Add(ctx, 1,
		observability.String(observability.AttrToolName, step.ToolName),
		observability.String(observability.AttrReactObservationKind, obs.Kind.String()),
	)
	l.obs.Error(ctx, "tool execution failed",
		observability.String(observability.AttrToolName, step.ToolName),
		observability.String(observability.AttrReactObservationKind, obs.Kind.String()),
		observability.Error(err),
		observability.Duration(observability.AttrDuration, elapsed),
	)
	return obs
}

func toolErrorObservation(toolName string, err error) Observation {
	var unknown *tool.UnknownToolError
	if errors.As(err, &unknown) {
		return Observation{Text: "Error: " + unknown.Error(), Err: err, Kind: ObservationUnknownTool}
	}
	var bindErr *tool.BindError
	if errors.As(err, &bindErr) {
		return Observation{Text: "Error: " + bindErr.Error(), Err: err, Kind: ObservationInvalidArguments}
	}
	return Observation{
		Text: fmt.Sprintf("Error: tool %q failed to execute.", toolName),
		Err:  err,
		Kind: ObservationToolError,
	}
}

func malformedObservation(step Step) Observation {
	reason := "unknown problem"
	if step.Err != nil {
		reason = step.Err.Error()
	}
	return Observation{
		Text: fmt.Sprintf("Error: your last response could not be used (%s). Reply with a tool call or a final answer.", reason),
		Err:  step.Err,
		Kind: ObservationMalformedStep,
	}
}

func (l *Loop) finish(ctx context.Context, span observability.Span, result *Result, err error) {
	attrs := []observability.Attribute{
		observability.String(observability.AttrReactRunID, result.RunID.String()),
		observability.String(observability.AttrReactOutcome, result.Outcome.String()),
		observability.Int(observability.AttrReactSteps, result.Steps),
		observability.Duration(observability.AttrDuration, result.Duration),
	}
	span.SetAttributes(attrs...)

	l.obs.Counter(observability.MetricReactRunCount).Add(ctx, 1,
		observability.String(observability.AttrReactOutcome, result.Outcome.String()),
	)
	l.obs.Histogram(observability.MetricReactRunDuration).Record(ctx, result.Duration.Seconds(),
		observability.String(observability.AttrReactOutcome, result.Outcome.String()),
	)

	switch {
	case err != nil:
		span.RecordError(err)
		span.SetStatus(observability.StatusError, "react run cancelled")
		l.obs.Warn(ctx, "react run cancelled", append(attrs, observability.Error(err))...)
	case result.Outcome == OutcomeStepLimitExceeded:
		span.SetStatus(observability.StatusOK, "step limit exceeded")
		l.obs.Warn(ctx, "react run reached the step limit", attrs...)
	default:
		span.SetStatus(observability.StatusOK, "")
		l.obs.Info(ctx, "react run finished", attrs...)
	}
}
