package tool

import (
	"context"
	"testing"
)

func TestNewThinkTool(t *testing.T) {
	recorder := &thoughtRecorder{}
	think := NewThinkTool(recorder.callback())

	if err := think.Validate(); err != nil {
		t.Fatalf("think tool is invalid: %v", err)
	}
	if think.Name != ThinkToolName {
		t.Errorf("Name = %q", think.Name)
	}
	want := "Think about what to do next. MUST be used before acting.\n\nArgs:\n    thought (string): Your thought about what to do next"
	if got := think.Documentation(); got != want {
		t.Errorf("Documentation() = %q", got)
	}

	out, err := think.Invoke(context.Background(), []any{"first check the date"}, nil)
	if err != nil {
		t.Fatalf("Invoke: %v", err)
	}
	if out != "Thought recorded." {
		t.Errorf("Invoke() = %q", out)
	}
	if len(recorder.calls) != 1 || recorder.calls[0].thought != "first check the date" {
		t.Errorf("callback calls = %+v", recorder.calls)
	}
}

func TestNewThinkTool_NilCallback(t *testing.T) {
	think := NewThinkTool(nil)
	if _, err := think.Invoke(context.Background(), nil, map[string]any{"thought": "x"}); err != nil {
		t.Fatalf("Invoke: %v", err)
	}
	if _, err := think.Invoke(context.Background(), nil, nil); err == nil {
		t.Error("expected an error for a missing thought")
	}
}
