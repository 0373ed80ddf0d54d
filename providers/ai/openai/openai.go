package openai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/leofalp/reactloop/internal/utils"
	"github.com/leofalp/reactloop/providers/ai"
	"github.com/leofalp/reactloop/providers/observability"
)

const (
	DefaultBaseURL          = "https://api.openai.com/v1"
	chatCompletionsEndpoint = "/chat/completions"
)

// ErrMissingAPIKey is returned by SendMessage when no API key was configured.
var ErrMissingAPIKey = errors.New("openai: API key is not set")

// OpenAIProvider implements ai.Provider on top of the Chat Completions API.
// Any OpenAI-compatible endpoint works through WithBaseURL.
type OpenAIProvider struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

var _ ai.Provider = (*OpenAIProvider)(nil)

// NewOpenAIProvider creates a provider for the given API key using the default
// base URL and http.DefaultClient. Credentials are never read from the environment here.
func NewOpenAIProvider(apiKey string) *OpenAIProvider {
	return &OpenAIProvider{
		apiKey:  apiKey,
		baseURL: DefaultBaseURL,
		client:  http.DefaultClient,
	}
}

// WithAPIKey sets the API key for the provider
func (p *OpenAIProvider) WithAPIKey(apiKey string) *OpenAIProvider {
	p.apiKey = apiKey
	return p
}

// WithBaseURL sets the base URL for the API. An empty value keeps the current one.
func (p *OpenAIProvider) WithBaseURL(baseURL string) *OpenAIProvider {
	if baseURL != "" {
		p.baseURL = strings.TrimRight(baseURL, "/")
	}
	return p
}

// WithHttpClient sets a custom HTTP client
func (p *OpenAIProvider) WithHttpClient(httpClient *http.Client) *OpenAIProvider {
	if httpClient != nil {
		p.client = httpClient
	}
	return p
}

// SendMessage implements the Provider interface
func (p *OpenAIProvider) SendMessage(ctx context.Context, request ai.ChatRequest) (*ai.ChatResponse, error) {
	if p.apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	url := p.baseURL + chatCompletionsEndpoint
	if span := observability.SpanFromContext(ctx); span != nil {
		span.SetAttributes(
			observability.String(observability.AttrLLMProvider, "openai"),
			observability.String(observability.AttrLLMModel, request.Model),
			observability.String(observability.AttrLLMEndpoint, url),
			observability.Int(observability.AttrRequestMessagesCount, len(request.Messages)),
			observability.Int(observability.AttrRequestToolsCount, len(request.Tools)),
		)
	}

	httpResponse, resp, err := utils.DoPostSync[chatCompletionResponse](ctx, p.client, url, p.apiKey, requestToChatCompletion(request))
	if err != nil {
		return nil, fmt.Errorf("openai chat completion: %w", err)
	}
	if resp == nil {
		return nil, fmt.Errorf("empty response from OpenAI API: %s", httpResponse.Status)
	}

	chatResp := chatCompletionToGeneric(*resp)
	if span := observability.SpanFromContext(ctx); span != nil {
		span.SetAttributes(
			observability.String(observability.AttrLLMResponseID, chatResp.Id),
			observability.String(observability.AttrLLMFinishReason, chatResp.FinishReason),
		)
		if chatResp.Usage != nil {
			span.SetAttributes(observability.Int(observability.AttrLLMTokensTotal, chatResp.Usage.TotalTokens))
		}
	}
	return chatResp, nil
}

// IsStopMessage reports whether the given chat response should be treated as a stop/end signal.
func (p *OpenAIProvider) IsStopMessage(message *ai.ChatResponse) bool {
	if message == nil {
		return true
	}
	if len(message.ToolCalls) > 0 {
		return false
	}
	switch message.FinishReason {
	case "stop", "length", "content_filter":
		return true
	}
	return message.Content == ""
}
