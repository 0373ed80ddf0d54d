package parse

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrMalformedStep is returned when text in the ReAct format carries neither a
// final answer nor an action.
var ErrMalformedStep = errors.New("malformed ReAct step")

// ReActStep is one turn of model output in the classic text format:
//
//	Thought: I should look this up.
//	Action: search
//	Action Input: {"query": "capital of France"}
//
// or
//
//	Thought: I now know the final answer.
//	Final Answer: Paris
type ReActStep struct {
	Thought string
	Action  string
	// ActionInput holds the decoded JSON object, nil when the input was not JSON.
	ActionInput map[string]any
	// RawInput is the Action Input text as written by the model.
	RawInput      string
	FinalAnswer   string
	IsFinalAnswer bool
}

var (
	finalAnswerRe = regexp.MustCompile(`(?is)Final\s*Answer\s*:\s*(.*)`)
	thoughtRe     = regexp.MustCompile(`(?is)Thought\s*:\s*(.*?)(?:\n\s*(?:Action|Final\s*Answer)\s*:|$)`)
	actionRe      = regexp.MustCompile(`(?im)^\s*Action\s*:\s*([A-Za-z_][A-Za-z0-9_.\-]*)`)
	actionInputRe = regexp.MustCompile(`(?i)Action\s*Input\s*:[ \t]*`)
	observationRe = regexp.MustCompile(`(?im)^\s*Observation\s*:`)
)

// ParseReAct extracts a ReActStep from model text. A final answer wins over an
// action when both are present. Anything the model wrote after a hallucinated
// "Observation:" line is ignored.
func ParseReAct(text string) (ReActStep, error) {
	if loc := observationRe.FindStringIndex(text); loc != nil {
		text = text[:loc[0]]
	}

	var step ReActStep
	if m := thoughtRe.FindStringSubmatch(text); len(m) > 1 {
		step.Thought = strings.TrimSpace(m[1])
	}

	if m := finalAnswerRe.FindStringSubmatch(text); len(m) > 1 {
		answer := strings.TrimSpace(m[1])
		if answer == "" {
			return step, fmt.Errorf("%w: empty final answer", ErrMalformedStep)
		}
		step.IsFinalAnswer = true
		step.FinalAnswer = answer
		return step, nil
	}

	m := actionRe.FindStringSubmatch(text)
	if len(m) < 2 {
		return step, fmt.Errorf("%w: no action or final answer found", ErrMalformedStep)
	}
	step.Action = m[1]

	loc := actionInputRe.FindStringIndex(text)
	if loc == nil {
		step.ActionInput = map[string]any{}
		return step, nil
	}

	rest := text[loc[1]:]
	if start := strings.IndexByte(rest, '{'); start >= 0 && strings.TrimSpace(rest[:start]) == "" {
		end := matchingBracket(rest, start)
		if end < 0 {
			end = len(rest) - 1
		}
		step.RawInput = strings.TrimSpace(rest[start : end+1])
		if args, err := ParseArguments(step.RawInput); err == nil {
			step.ActionInput = args
		}
		return step, nil
	}

	step.RawInput = strings.TrimSpace(firstLine(rest))
	return step, nil
}

func firstLine(s string) string {
	s = strings.TrimLeft(s, "\r\n")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		return s[:nl]
	}
	return s
}
