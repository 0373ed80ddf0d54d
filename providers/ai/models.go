package ai

import "github.com/leofalp/reactloop/internal/jsonschema"

// ChatRequest is one model call: the whole conversation so far plus the
// tools the model may call.
type ChatRequest struct {
	Model        string            `json:"model,omitempty"`
	SystemPrompt string            `json:"system_prompt,omitempty"`
	Messages     []Message         `json:"messages"` // system prompt excluded
	Tools        []ToolDescription `json:"tools,omitempty"`

	// ToolChoice is "auto" (the default when tools are present), "none" or "required".
	ToolChoice       string            `json:"tool_choice,omitempty"`
	GenerationConfig *GenerationConfig `json:"generation_config,omitempty"`
}

// ToolDescription is what a model sees of a tool.
type ToolDescription struct {
	Name        string             `json:"name"`
	Description string             `json:"description,omitempty"`
	Parameters  *jsonschema.Schema `json:"parameters,omitempty"`
}

// Message is one conversation turn. Assistant turns may request tools
// through ToolCalls; tool turns answer one call, linked by ToolCallID.
type Message struct {
	Role       MessageRole `json:"role"`
	Content    string      `json:"content,omitempty"`
	ToolCalls  []ToolCall  `json:"tool_calls,omitempty"`
	ToolCallID string      `json:"tool_call_id,omitempty"`
	Name       string      `json:"name,omitempty"` // tool name on role=tool
}

// GenerationConfig holds optional sampling settings; zero values are not sent.
type GenerationConfig struct {
	MaxTokens   int     `json:"max_tokens,omitempty"`
	Temperature float32 `json:"temperature,omitempty"` // [0..2]
	TopP        float32 `json:"top_p,omitempty"`       // [0..1]
}

type Usage struct {
	PromptTokens     int `json:"prompt_tokens,omitempty"`
	CompletionTokens int `json:"completion_tokens,omitempty"`
	TotalTokens      int `json:"total_tokens,omitempty"`
}

// ChatResponse is one completed assistant turn.
type ChatResponse struct {
	Id           string     `json:"id"`
	Model        string     `json:"model"`
	Content      string     `json:"content"`
	ToolCalls    []ToolCall `json:"tool_calls,omitempty"`
	FinishReason string     `json:"finish_reason,omitempty"`
	Usage        *Usage     `json:"usage,omitempty"`

	// Refusal is set instead of Content when the model declines to answer.
	Refusal string `json:"refusal,omitempty"`
	// Reasoning is chain-of-thought the backend returned apart from Content.
	Reasoning string `json:"reasoning,omitempty"`
}

// ToolCall is a model's request to run one tool.
type ToolCall struct {
	ID       string           `json:"id,omitempty"`
	Type     string           `json:"type"` // always "function" today
	Function ToolCallFunction `json:"function"`
}

type ToolCallFunction struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"` // raw JSON object, possibly malformed
}

type MessageRole string

const (
	RoleSystem    MessageRole = "system"
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
	RoleTool      MessageRole = "tool"
)
