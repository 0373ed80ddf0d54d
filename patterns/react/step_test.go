package react

import (
	"errors"
	"testing"
)

func TestStep_Validate(t *testing.T) {
	tests := []struct {
		name    string
		step    Step
		wantErr error
	}{
		{"action", Action("t", "search", nil), nil},
		{"action without tool", Action("t", "", nil), ErrMissingToolName},
		{"finish", Finish("", "42"), nil},
		{"finish without answer", Finish("done", ""), ErrMissingAnswer},
		{"malformed", Malformed("garbage", errors.New("bad")), nil},
		{"zero value", Step{}, ErrUnknownStepKind},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.step.Validate()
			if tt.wantErr == nil && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestStepKind_String(t *testing.T) {
	cases := map[StepKind]string{
		StepAction:    "action",
		StepFinish:    "finish",
		StepMalformed: "malformed",
		StepKind(99):  "StepKind(99)",
	}
	for kind, want := range cases {
		if got := kind.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", int(kind), got, want)
		}
	}
}

func TestConstructors(t *testing.T) {
	args := map[string]any{"query": "go"}
	a := Action("need info", "search", args)
	if a.Kind != StepAction || a.Thought != "need info" || a.ToolName != "search" || a.Arguments["query"] != "go" {
		t.Errorf("Action() = %+v", a)
	}
	if a.IsFinal() {
		t.Error("action should not be final")
	}

	f := Finish("done", "X")
	if f.Kind != StepFinish || f.Answer != "X" || !f.IsFinal() {
		t.Errorf("Finish() = %+v", f)
	}

	cause := errors.New("no JSON")
	m := Malformed("raw text", cause)
	if m.Kind != StepMalformed || m.Raw != "raw text" || m.Err != cause {
		t.Errorf("Malformed() = %+v", m)
	}
}
