package openai

import (
	"regexp"
	"strings"

	"github.com/leofalp/reactloop/internal/jsonschema"
	"github.com/leofalp/reactloop/providers/ai"
)

/*
	CHAT COMPLETIONS API - INPUT
*/

type chatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature *float64      `json:"temperature,omitempty"`
	TopP        *float64      `json:"top_p,omitempty"`
	MaxTokens   *int          `json:"max_tokens,omitempty"`

	Tools             []chatTool `json:"tools,omitempty"`
	ToolChoice        string     `json:"tool_choice,omitempty"`
	ParallelToolCalls *bool      `json:"parallel_tool_calls,omitempty"`
}

type chatMessage struct {
	Role       string         `json:"role"`
	Content    string         `json:"content"`
	Name       string         `json:"name,omitempty"`
	ToolCallID string         `json:"tool_call_id,omitempty"`
	ToolCalls  []chatToolCall `json:"tool_calls,omitempty"`
}

type chatTool struct {
	Type     string       `json:"type"` // "function"
	Function chatFunction `json:"function"`
}

type chatFunction struct {
	Name        string             `json:"name"`
	Description string             `json:"description,omitempty"`
	Parameters  *jsonschema.Schema `json:"parameters,omitempty"`
}

type chatToolCall struct {
	ID       string `json:"id"`
	Type     string `json:"type"` // "function"
	Function struct {
		Name      string `json:"name"`
		Arguments string `json:"arguments"`
	} `json:"function"`
}

/*
	CHAT COMPLETIONS API - OUTPUT
*/

type chatCompletionResponse struct {
	ID      string       `json:"id"`
	Object  string       `json:"object"`
	Created int64        `json:"created"`
	Model   string       `json:"model"`
	Choices []chatChoice `json:"choices"`
	Usage   *chatUsage   `json:"usage,omitempty"`
}

type chatChoice struct {
	Index        int                 `json:"index"`
	Message      chatResponseMessage `json:"message"`
	FinishReason string              `json:"finish_reason"` // "stop", "length", "tool_calls", "content_filter"
}

type chatResponseMessage struct {
	Role      string         `json:"role"`
	Content   string         `json:"content,omitempty"`
	ToolCalls []chatToolCall `json:"tool_calls,omitempty"`
	Refusal   string         `json:"refusal,omitempty"`
	Reasoning string         `json:"reasoning,omitempty"`
}

type chatUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

/*
	CONVERSION FUNCTIONS
*/

// requestToChatCompletion converts ai.ChatRequest to chat completions format.
// A loop step executes exactly one tool, so parallel tool calls are disabled
// whenever tools are offered.
func requestToChatCompletion(request ai.ChatRequest) chatCompletionRequest {
	req := chatCompletionRequest{Model: request.Model}

	if request.SystemPrompt != "" {
		req.Messages = append(req.Messages, chatMessage{
			Role:    string(ai.RoleSystem),
			Content: request.SystemPrompt,
		})
	}

	for _, msg := range request.Messages {
		chatMsg := chatMessage{
			Role:       string(msg.Role),
			Content:    msg.Content,
			ToolCallID: msg.ToolCallID,
			Name:       msg.Name,
		}
		for _, tc := range msg.ToolCalls {
			toolCall := chatToolCall{ID: tc.ID, Type: tc.Type}
			if toolCall.Type == "" {
				toolCall.Type = "function"
			}
			toolCall.Function.Name = tc.Function.Name
			toolCall.Function.Arguments = tc.Function.Arguments
			chatMsg.ToolCalls = append(chatMsg.ToolCalls, toolCall)
		}
		req.Messages = append(req.Messages, chatMsg)
	}

	if cfg := request.GenerationConfig; cfg != nil {
		if cfg.Temperature > 0 {
			temp := float64(cfg.Temperature)
			req.Temperature = &temp
		}
		if cfg.TopP > 0 {
			topP := float64(cfg.TopP)
			req.TopP = &topP
		}
		if cfg.MaxTokens > 0 {
			maxTokens := cfg.MaxTokens
			req.MaxTokens = &maxTokens
		}
	}

	if len(request.Tools) > 0 {
		for _, tl := range request.Tools {
			req.Tools = append(req.Tools, chatTool{
				Type: "function",
				Function: chatFunction{
					Name:        tl.Name,
					Description: tl.Description,
					Parameters:  tl.Parameters,
				},
			})
		}
		req.ToolChoice = request.ToolChoice
		if req.ToolChoice == "" {
			req.ToolChoice = "auto"
		}
		parallel := false
		req.ParallelToolCalls = &parallel
	}

	return req
}

var thinkTagPattern = regexp.MustCompile(`(?s)<think>(.*?)</think>`)

// chatCompletionToGeneric converts the first choice of a chat completion
// response to ai.ChatResponse. Reasoning wrapped in <think> tags is moved out
// of the content into Reasoning.
func chatCompletionToGeneric(resp chatCompletionResponse) *ai.ChatResponse {
	chatResp := &ai.ChatResponse{
		Id:    resp.ID,
		Model: resp.Model,
	}
	if resp.Usage != nil {
		chatResp.Usage = &ai.Usage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		}
	}
	if len(resp.Choices) == 0 {
		chatResp.FinishReason = "error"
		return chatResp
	}

	choice := resp.Choices[0]
	content, inContentReasoning := splitThinkTags(choice.Message.Content)
	reasoning := strings.TrimSpace(strings.Join(nonEmpty(choice.Message.Reasoning, inContentReasoning), "\n"))

	chatResp.Content = content
	chatResp.Reasoning = reasoning
	chatResp.Refusal = choice.Message.Refusal
	chatResp.FinishReason = choice.FinishReason

	for _, tc := range choice.Message.ToolCalls {
		chatResp.ToolCalls = append(chatResp.ToolCalls, ai.ToolCall{
			ID:   tc.ID,
			Type: tc.Type,
			Function: ai.ToolCallFunction{
				Name:      tc.Function.Name,
				Arguments: tc.Function.Arguments,
			},
		})
	}
	return chatResp
}

// splitThinkTags returns content without <think> blocks and the text those blocks held.
func splitThinkTags(content string) (cleaned, reasoning string) {
	matches := thinkTagPattern.FindAllStringSubmatch(content, -1)
	if len(matches) == 0 {
		return strings.TrimSpace(content), ""
	}

	parts := make([]string, 0, len(matches))
	for _, m := range matches {
		if text := strings.TrimSpace(m[1]); text != "" {
			parts = append(parts, text)
		}
	}
	return strings.TrimSpace(thinkTagPattern.ReplaceAllString(content, "")), strings.Join(parts, "\n")
}

func nonEmpty(values ...string) []string {
	out := values[:0:0]
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			out = append(out, strings.TrimSpace(v))
		}
	}
	return out
}
