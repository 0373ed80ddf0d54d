package react

import (
	"errors"
	"fmt"
)

// StepKind tags the variant carried by a Step.
type StepKind int

const (
	// StepAction asks the loop to run a tool.
	StepAction StepKind = iota + 1
	// StepFinish ends the run with an answer.
	StepFinish
	// StepMalformed records provider output that could not be turned into a valid step.
	StepMalformed
)

func (k StepKind) String() string {
	switch k {
	case StepAction:
		return "action"
	case StepFinish:
		return "finish"
	case StepMalformed:
		return "malformed"
	default:
		return fmt.Sprintf("StepKind(%d)", int(k))
	}
}

var (
	ErrMissingToolName = errors.New("action step has no tool name")
	ErrMissingAnswer   = errors.New("finish step has no answer")
	ErrUnknownStepKind = errors.New("unknown step kind")
)

// Step is one decision of the reasoning provider.
//
// Action steps use Thought, ToolName and Arguments. Finish steps use Thought
// and Answer. Malformed steps keep the raw provider output in Raw and the
// reason it was rejected in Err.
type Step struct {
	Kind StepKind

	Thought   string
	ToolName  string
	Arguments map[string]any

	Answer string

	Raw string
	Err error
}

// Action returns a step that runs toolName with args.
func Action(thought, toolName string, args map[string]any) Step {
	return Step{Kind: StepAction, Thought: thought, ToolName: toolName, Arguments: args}
}

// Finish returns a step that ends the run with answer.
func Finish(thought, answer string) Step {
	return Step{Kind: StepFinish, Thought: thought, Answer: answer}
}

// Malformed returns a step recording unusable provider output.
func Malformed(raw string, err error) Step {
	return Step{Kind: StepMalformed, Raw: raw, Err: err}
}

// Validate reports missing required fields. Malformed steps are always valid.
func (s Step) Validate() error {
	switch s.Kind {
	case StepAction:
		if s.ToolName == "" {
			return ErrMissingToolName
		}
	case StepFinish:
		if s.Answer == "" {
			return ErrMissingAnswer
		}
	case StepMalformed:
	default:
		return fmt.Errorf("%w: %d", ErrUnknownStepKind, int(s.Kind))
	}
	return nil
}

// IsFinal reports whether the step ends the run.
func (s Step) IsFinal() bool { return s.Kind == StepFinish }
