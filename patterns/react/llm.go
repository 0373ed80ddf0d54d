package react

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/leofalp/reactloop/core/parse"
	"github.com/leofalp/reactloop/internal/utils"
	"github.com/leofalp/reactloop/providers/ai"
	"github.com/leofalp/reactloop/providers/observability"
	"github.com/leofalp/reactloop/providers/tool"
)

var (
	ErrEmptyResponse   = errors.New("model returned an empty response")
	ErrNilResponse     = errors.New("model returned no response")
	ErrUnboundRawInput = errors.New("action input is not a JSON object")
)

// LLMProvider is a ReasoningProvider backed by a chat model.
//
// By default tools are offered through the model's native tool calling. With
// WithTextProtocol the tools are described in the system prompt instead and
// the reply is parsed from the Thought/Action/Action Input/Final Answer format.
type LLMProvider struct {
	llm          ai.Provider
	model        string
	systemPrompt string
	generation   *ai.GenerationConfig
	textProtocol bool
}

// LLMOption configures an LLMProvider.
type LLMOption func(*LLMProvider)

// WithModel sets the model name sent with each request.
func WithModel(model string) LLMOption {
	return func(p *LLMProvider) {
		p.model = model
	}
}

// WithSystemPrompt replaces DefaultSystemPrompt.
func WithSystemPrompt(prompt string) LLMOption {
	return func(p *LLMProvider) {
		if prompt != "" {
			p.systemPrompt = prompt
		}
	}
}

// WithGenerationConfig sets sampling parameters.
func WithGenerationConfig(config ai.GenerationConfig) LLMOption {
	return func(p *LLMProvider) {
		p.generation = &config
	}
}

// WithTextProtocol makes the provider describe tools in the prompt and parse
// plain-text ReAct replies, for models without tool calling.
func WithTextProtocol() LLMOption {
	return func(p *LLMProvider) {
		p.textProtocol = true
	}
}

// NewLLMProvider adapts llm into a ReasoningProvider.
func NewLLMProvider(llm ai.Provider, opts ...LLMOption) *LLMProvider {
	p := &LLMProvider{
		llm:          llm,
		systemPrompt: DefaultSystemPrompt,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Propose sends the conversation so far and maps the reply to a Step.
// Transport errors are returned; unusable replies come back as Malformed steps.
func (p *LLMProvider) Propose(ctx context.Context, query string, transcript *Transcript, tools []*tool.Spec) (Step, error) {
	obs := observability.OrNop(observability.ObserverFromContext(ctx))

	request := p.buildRequest(query, transcript, tools)

	ctx, span := obs.StartSpan(ctx, observability.SpanLLMRequest,
		observability.String(observability.AttrLLMModel, p.model),
		observability.Int(observability.AttrRequestMessagesCount, len(request.Messages)),
		observability.Int(observability.AttrRequestToolsCount, len(request.Tools)),
	)
	ctx = observability.ContextWithSpan(ctx, span)
	defer span.End()

	sw := utils.StartTimer()
	response, err := p.llm.SendMessage(ctx, request)
	elapsed := sw.Stop()
	obs.Histogram(observability.MetricLLMRequestDuration).Record(ctx, elapsed.Seconds(),
		observability.String(observability.AttrLLMModel, p.model),
	)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(observability.StatusError, "llm request failed")
		return Step{}, err
	}
	if response == nil {
		return Malformed("", ErrNilResponse), nil
	}

	span.SetAttributes(
		observability.String(observability.AttrLLMResponseID, response.Id),
		observability.String(observability.AttrLLMFinishReason, response.FinishReason),
	)
	if response.Usage != nil {
		span.SetAttributes(observability.Int(observability.AttrLLMTokensTotal, response.Usage.TotalTokens))
	}
	span.SetStatus(observability.StatusOK, "")

	step := p.mapResponse(response, tools)
	obs.Debug(ctx, "llm proposed step",
		observability.String(observability.AttrReactStepKind, step.Kind.String()),
		observability.Duration(observability.AttrDuration, elapsed),
	)
	return step, nil
}

func (p *LLMProvider) buildRequest(query string, transcript *Transcript, tools []*tool.Spec) ai.ChatRequest {
	request := ai.ChatRequest{
		Model:            p.model,
		SystemPrompt:     p.systemPrompt,
		Messages:         []ai.Message{{Role: ai.RoleUser, Content: query}},
		GenerationConfig: p.generation,
	}

	if p.textProtocol {
		request.SystemPrompt = renderTextProtocolPrompt(p.systemPrompt, tools)
	} else {
		for _, spec := range tools {
			request.Tools = append(request.Tools, spec.ToolDescription())
		}
	}

	for _, entry := range transcript.Entries() {
		request.Messages = append(request.Messages, p.entryMessages(entry, tools)...)
	}
	return request
}

func (p *LLMProvider) entryMessages(entry Entry, tools []*tool.Spec) []ai.Message {
	step := entry.Step
	observation := ""
	if entry.Observation != nil {
		observation = entry.Observation.Text
	}

	switch step.Kind {
	case StepFinish:
		return []ai.Message{{Role: ai.RoleAssistant, Content: step.Answer}}

	case StepAction:
		if p.textProtocol {
			return []ai.Message{
				{Role: ai.RoleAssistant, Content: renderTextAction(step)},
				{Role: ai.RoleUser, Content: "Observation: " + observation},
			}
		}

		args := make(map[string]any, len(step.Arguments)+1)
		for k, v := range step.Arguments {
			args[k] = v
		}
		content := step.Thought
		if acceptsReasoning(tools, step.ToolName) {
			args[tool.ReasoningParamName] = step.Thought
			content = ""
		}
		callID := "call_" + strconv.Itoa(entry.Index)
		return []ai.Message{
			{
				Role:    ai.RoleAssistant,
				Content: content,
				ToolCalls: []ai.ToolCall{{
					ID:       callID,
					Type:     "function",
					Function: ai.ToolCallFunction{Name: step.ToolName, Arguments: utils.JSONToString(args)},
				}},
			},
			{Role: ai.RoleTool, ToolCallID: callID, Name: step.ToolName, Content: observation},
		}

	default:
		raw := step.Raw
		if strings.TrimSpace(raw) == "" {
			raw = "(no usable output)"
		}
		prefix := ""
		if p.textProtocol {
			prefix = "Observation: "
		}
		return []ai.Message{
			{Role: ai.RoleAssistant, Content: raw},
			{Role: ai.RoleUser, Content: prefix + observation},
		}
	}
}

func (p *LLMProvider) mapResponse(response *ai.ChatResponse, tools []*tool.Spec) Step {
	if len(response.ToolCalls) > 0 {
		return mapToolCall(response, response.ToolCalls[0])
	}

	content := strings.TrimSpace(response.Content)
	if content == "" {
		if response.Refusal != "" {
			return Finish("", response.Refusal)
		}
		return Malformed("", ErrEmptyResponse)
	}
	return mapText(content, tools)
}

func mapToolCall(response *ai.ChatResponse, call ai.ToolCall) Step {
	raw := call.Function.Name + " " + call.Function.Arguments
	args, err := parse.ParseArguments(call.Function.Arguments)
	if err != nil {
		return Malformed(raw, fmt.Errorf("tool call arguments for %q: %w", call.Function.Name, err))
	}

	thought := ""
	if t, ok := args[tool.ReasoningParamName].(string); ok {
		thought = t
		delete(args, tool.ReasoningParamName)
	}
	if thought == "" && strings.EqualFold(call.Function.Name, tool.ThinkToolName) {
		thought, _ = args["thought"].(string)
	}
	if thought == "" {
		thought = strings.TrimSpace(response.Content)
	}
	if thought == "" {
		thought = strings.TrimSpace(response.Reasoning)
	}

	step := Action(thought, call.Function.Name, args)
	step.Raw = raw
	return step
}

// mapText reads a plain-text reply. Text without any ReAct markers is taken as
// the final answer.
func mapText(content string, tools []*tool.Spec) Step {
	parsed, err := parse.ParseReAct(content)
	if err != nil {
		if hasReActMarkers(content) {
			return Malformed(content, err)
		}
		return Finish("", content)
	}

	if parsed.IsFinalAnswer {
		step := Finish(parsed.Thought, parsed.FinalAnswer)
		step.Raw = content
		return step
	}

	args := parsed.ActionInput
	if args == nil {
		bound, ok := bindRawInput(parsed.Action, parsed.RawInput, tools)
		if !ok {
			return Malformed(content, fmt.Errorf("%w: %q", ErrUnboundRawInput, parsed.RawInput))
		}
		args = bound
	}

	thought := parsed.Thought
	if t, ok := args[tool.ReasoningParamName].(string); ok {
		if thought == "" {
			thought = t
		}
		delete(args, tool.ReasoningParamName)
	}

	step := Action(thought, parsed.Action, args)
	step.Raw = content
	return step
}

// bindRawInput assigns a non-JSON action input to the single non-reasoning
// parameter of the named tool. Unknown tools get empty arguments so the loop
// reports the unknown name.
func bindRawInput(toolName, raw string, tools []*tool.Spec) (map[string]any, bool) {
	spec := findSpec(tools, toolName)
	if spec == nil {
		return map[string]any{}, true
	}

	var candidates []tool.Parameter
	for _, param := range spec.Parameters {
		if param.Name != tool.ReasoningParamName {
			candidates = append(candidates, param)
		}
	}
	if len(candidates) != 1 {
		return nil, false
	}
	return map[string]any{candidates[0].Name: strings.Trim(raw, `"'`)}, true
}

func findSpec(tools []*tool.Spec, name string) *tool.Spec {
	for _, spec := range tools {
		if strings.EqualFold(spec.Name, name) {
			return spec
		}
	}
	return nil
}

func acceptsReasoning(tools []*tool.Spec, name string) bool {
	spec := findSpec(tools, name)
	if spec == nil {
		return false
	}
	_, ok := spec.Parameter(tool.ReasoningParamName)
	return ok
}

func hasReActMarkers(content string) bool {
	lower := strings.ToLower(content)
	return strings.Contains(lower, "thought:") || strings.Contains(lower, "action:") ||
		strings.Contains(lower, "action input") || strings.Contains(lower, "final answer")
}
