package react

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/leofalp/reactloop/providers/ai"
	"github.com/leofalp/reactloop/providers/tool"
)

// mockLLM is a mock ai.Provider returning canned responses in order.
type mockLLM struct {
	responses []*ai.ChatResponse
	err       error
	requests  []ai.ChatRequest
}

func (m *mockLLM) SendMessage(ctx context.Context, req ai.ChatRequest) (*ai.ChatResponse, error) {
	m.requests = append(m.requests, req)
	if m.err != nil {
		return nil, m.err
	}
	if len(m.requests) > len(m.responses) {
		return nil, errors.New("no more mock responses")
	}
	return m.responses[len(m.requests)-1], nil
}

func (m *mockLLM) IsStopMessage(response *ai.ChatResponse) bool {
	return len(response.ToolCalls) == 0
}

func toolCallResponse(name, args, content string) *ai.ChatResponse {
	return &ai.ChatResponse{
		Content: content,
		ToolCalls: []ai.ToolCall{{
			ID:       "call_x",
			Type:     "function",
			Function: ai.ToolCallFunction{Name: name, Arguments: args},
		}},
		FinishReason: "tool_calls",
	}
}

func exposedSearchTools(t *testing.T) []*tool.Spec {
	t.Helper()
	return newSearchCatalog(t, nil, nil).Specs()
}

func TestLLMProvider_ToolCall(t *testing.T) {
	llm := &mockLLM{responses: []*ai.ChatResponse{
		toolCallResponse("search", `{"_thought": "need numbers", "query": "Apple revenue"}`, ""),
	}}
	provider := NewLLMProvider(llm, WithModel("gpt-4o"))

	step, err := provider.Propose(context.Background(), "How much?", &Transcript{}, exposedSearchTools(t))
	if err != nil {
		t.Fatalf("Propose: %v", err)
	}
	if step.Kind != StepAction || step.ToolName != "search" || step.Thought != "need numbers" {
		t.Errorf("step = %+v", step)
	}
	if _, ok := step.Arguments[tool.ReasoningParamName]; ok {
		t.Error("reasoning should be moved out of the arguments")
	}
	if step.Arguments["query"] != "Apple revenue" {
		t.Errorf("arguments = %v", step.Arguments)
	}

	req := llm.requests[0]
	if req.Model != "gpt-4o" || req.SystemPrompt != DefaultSystemPrompt {
		t.Errorf("request model/prompt = %q / %q", req.Model, req.SystemPrompt)
	}
	if len(req.Messages) != 1 || req.Messages[0].Role != ai.RoleUser || req.Messages[0].Content != "How much?" {
		t.Errorf("messages = %+v", req.Messages)
	}
	if len(req.Tools) != 1 || req.Tools[0].Parameters.OrderedPropertyNames()[0] != tool.ReasoningParamName {
		t.Errorf("tools = %+v", req.Tools)
	}
}

func TestLLMProvider_ToolCallThoughtFallbacks(t *testing.T) {
	tools := exposedSearchTools(t)

	fromContent := &mockLLM{responses: []*ai.ChatResponse{toolCallResponse("search", `{"query":"x"}`, " I will search ")}}
	step, _ := NewLLMProvider(fromContent).Propose(context.Background(), "q", nil, tools)
	if step.Thought != "I will search" {
		t.Errorf("thought from content = %q", step.Thought)
	}

	think := &mockLLM{responses: []*ai.ChatResponse{toolCallResponse("think", `{"thought":"plan"}`, "")}}
	step, _ = NewLLMProvider(think).Propose(context.Background(), "q", nil, nil)
	if step.Thought != "plan" || step.Arguments["thought"] != "plan" {
		t.Errorf("think step = %+v", step)
	}
}

func TestLLMProvider_RepairsArguments(t *testing.T) {
	llm := &mockLLM{responses: []*ai.ChatResponse{
		toolCallResponse("search", `{query: 'go', _thought: 'look'`, ""),
	}}
	step, err := NewLLMProvider(llm).Propose(context.Background(), "q", nil, exposedSearchTools(t))
	if err != nil {
		t.Fatalf("Propose: %v", err)
	}
	if step.Kind != StepAction || step.Arguments["query"] != "go" || step.Thought != "look" {
		t.Errorf("step = %+v", step)
	}
}

func TestLLMProvider_UnparsableArguments(t *testing.T) {
	llm := &mockLLM{responses: []*ai.ChatResponse{toolCallResponse("search", `["not", "an", "object"]`, "")}}
	step, err := NewLLMProvider(llm).Propose(context.Background(), "q", nil, exposedSearchTools(t))
	if err != nil {
		t.Fatalf("Propose: %v", err)
	}
	if step.Kind != StepMalformed || step.Err == nil {
		t.Errorf("step = %+v", step)
	}
}

func TestLLMProvider_TextReplies(t *testing.T) {
	tools := exposedSearchTools(t)
	tests := []struct {
		name     string
		content  string
		kind     StepKind
		tool     string
		answer   string
		thought  string
		argQuery any
	}{
		{"plain answer", "Paris is the capital.", StepFinish, "", "Paris is the capital.", "", nil},
		{"final answer", "Thought: I know it.\nFinal Answer: Paris", StepFinish, "", "Paris", "I know it.", nil},
		{"json action", "Thought: look up\nAction: search\nAction Input: {\"query\": \"capital of France\"}", StepAction, "search", "", "look up", "capital of France"},
		{"raw action input", "Thought: look up\nAction: search\nAction Input: capital of France", StepAction, "search", "", "look up", "capital of France"},
		{"no action", "Thought: I am still thinking", StepMalformed, "", "", "", nil},
		{"empty", "   ", StepMalformed, "", "", "", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			llm := &mockLLM{responses: []*ai.ChatResponse{{Content: tt.content}}}
			step, err := NewLLMProvider(llm).Propose(context.Background(), "q", nil, tools)
			if err != nil {
				t.Fatalf("Propose: %v", err)
			}
			if step.Kind != tt.kind {
				t.Fatalf("kind = %v, want %v (%+v)", step.Kind, tt.kind, step)
			}
			if step.ToolName != tt.tool || step.Answer != tt.answer || step.Thought != tt.thought {
				t.Errorf("step = %+v", step)
			}
			if tt.argQuery != nil && step.Arguments["query"] != tt.argQuery {
				t.Errorf("arguments = %v", step.Arguments)
			}
		})
	}
}

func TestLLMProvider_RawInputNeedsSingleParameter(t *testing.T) {
	tools := []*tool.Spec{{
		Name:       "lookup",
		Parameters: []tool.Parameter{{Name: "a", Type: "string"}, {Name: "b", Type: "string"}},
		Handler:    func(ctx context.Context, args map[string]any) (string, error) { return "", nil },
	}}
	llm := &mockLLM{responses: []*ai.ChatResponse{{Content: "Action: lookup\nAction Input: something"}}}
	step, _ := NewLLMProvider(llm).Propose(context.Background(), "q", nil, tools)
	if step.Kind != StepMalformed || !errors.Is(step.Err, ErrUnboundRawInput) {
		t.Errorf("step = %+v", step)
	}
}

func TestLLMProvider_TransportError(t *testing.T) {
	boom := errors.New("503")
	llm := &mockLLM{err: boom}
	_, err := NewLLMProvider(llm).Propose(context.Background(), "q", nil, nil)
	if !errors.Is(err, boom) {
		t.Errorf("Propose() error = %v", err)
	}
}

func TestLLMProvider_HistoryMessages(t *testing.T) {
	tools := exposedSearchTools(t)
	transcript := &Transcript{}
	transcript.append(Action("need info", "search", map[string]any{"query": "go"}), &Observation{Text: "results", Kind: ObservationToolOutput})
	transcript.append(Malformed("garbled", errors.New("bad")), &Observation{Text: "Error: bad", Kind: ObservationMalformedStep})

	llm := &mockLLM{responses: []*ai.ChatResponse{{Content: "done"}}}
	if _, err := NewLLMProvider(llm).Propose(context.Background(), "q", transcript, tools); err != nil {
		t.Fatalf("Propose: %v", err)
	}

	msgs := llm.requests[0].Messages
	if len(msgs) != 5 {
		t.Fatalf("got %d messages, want 5: %+v", len(msgs), msgs)
	}
	call := msgs[1]
	if call.Role != ai.RoleAssistant || len(call.ToolCalls) != 1 || call.ToolCalls[0].Function.Name != "search" {
		t.Fatalf("assistant tool call = %+v", call)
	}
	args := call.ToolCalls[0].Function.Arguments
	if !strings.Contains(args, `"_thought":"need info"`) || !strings.Contains(args, `"query":"go"`) {
		t.Errorf("replayed arguments = %s", args)
	}
	result := msgs[2]
	if result.Role != ai.RoleTool || result.ToolCallID != call.ToolCalls[0].ID || result.Content != "results" {
		t.Errorf("tool result = %+v", result)
	}
	if msgs[3].Role != ai.RoleAssistant || msgs[3].Content != "garbled" {
		t.Errorf("malformed replay = %+v", msgs[3])
	}
	if msgs[4].Role != ai.RoleUser || msgs[4].Content != "Error: bad" {
		t.Errorf("malformed observation = %+v", msgs[4])
	}
}

func TestLLMProvider_TextProtocol(t *testing.T) {
	tools := exposedSearchTools(t)
	transcript := &Transcript{}
	transcript.append(Action("need info", "search", map[string]any{"query": "go"}), &Observation{Text: "results", Kind: ObservationToolOutput})

	llm := &mockLLM{responses: []*ai.ChatResponse{{Content: "Thought: enough\nFinal Answer: Go is great"}}}
	provider := NewLLMProvider(llm, WithTextProtocol(), WithSystemPrompt("Be brief."))

	step, err := provider.Propose(context.Background(), "q", transcript, tools)
	if err != nil {
		t.Fatalf("Propose: %v", err)
	}
	if step.Kind != StepFinish || step.Answer != "Go is great" {
		t.Errorf("step = %+v", step)
	}

	req := llm.requests[0]
	if len(req.Tools) != 0 {
		t.Errorf("text protocol should not send native tools: %+v", req.Tools)
	}
	for _, want := range []string{"Be brief.", "search: Search for a query on Google", "Action Input:", "Final Answer:"} {
		if !strings.Contains(req.SystemPrompt, want) {
			t.Errorf("system prompt missing %q", want)
		}
	}
	if req.Messages[1].Content != "Thought: need info\nAction: search\nAction Input: {\"query\":\"go\"}" {
		t.Errorf("replayed action = %q", req.Messages[1].Content)
	}
	if req.Messages[2].Role != ai.RoleUser || req.Messages[2].Content != "Observation: results" {
		t.Errorf("replayed observation = %+v", req.Messages[2])
	}
}

func TestLLMProvider_DrivesLoop(t *testing.T) {
	var calls []searchCall
	var thoughts []string
	catalog := newSearchCatalog(t, &calls, &thoughts)
	llm := &mockLLM{responses: []*ai.ChatResponse{
		toolCallResponse("search", `{"_thought":"need info","query":"Apple revenue"}`, ""),
		{Content: "Thought: done\nFinal Answer: X"},
	}}

	loop := newLoop(t, NewLLMProvider(llm), catalog)
	result, err := loop.Run(context.Background(), "q")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.Answer != "X" || result.Transcript.Len() != 2 {
		t.Errorf("result = %+v", result)
	}
	if len(calls) != 1 || calls[0].query != "Apple revenue" {
		t.Errorf("calls = %+v", calls)
	}
	if len(thoughts) != 1 || thoughts[0] != "need info" {
		t.Errorf("thoughts = %v", thoughts)
	}
}
