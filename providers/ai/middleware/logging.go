package middleware

import (
	"context"
	"time"

	"github.com/leofalp/reactloop/providers/ai"
	"github.com/leofalp/reactloop/providers/observability"
)

// LogLevel controls how much detail the logging middleware emits.
type LogLevel int

const (
	// LogLevelMinimal logs the model, duration and token counts.
	LogLevelMinimal LogLevel = iota

	// LogLevelStandard adds message count and finish reason.
	LogLevelStandard

	// LogLevelVerbose adds the last request message and the response content,
	// truncated. It logs raw prompt text: keep it out of production.
	LogLevelVerbose
)

const truncateLen = 500

// Logging logs every request and its outcome through provider.
func Logging(provider observability.Provider, level LogLevel) Middleware {
	obs := observability.OrNop(provider)

	return func(next SendFunc) SendFunc {
		return func(ctx context.Context, request ai.ChatRequest) (*ai.ChatResponse, error) {
			obs.Debug(ctx, "llm send", requestAttrs(request, level)...)

			start := time.Now()
			response, err := next(ctx, request)
			elapsed := time.Since(start)

			if err != nil {
				obs.Error(ctx, "llm send failed",
					observability.String(observability.AttrLLMModel, request.Model),
					observability.Duration(observability.AttrDuration, elapsed),
					observability.Error(err),
				)
				return nil, err
			}

			obs.Info(ctx, "llm send completed", responseAttrs(response, elapsed, level)...)
			return response, nil
		}
	}
}

func requestAttrs(request ai.ChatRequest, level LogLevel) []observability.Attribute {
	attrs := []observability.Attribute{
		observability.String(observability.AttrLLMModel, request.Model),
	}
	if level >= LogLevelStandard {
		attrs = append(attrs,
			observability.Int(observability.AttrRequestMessagesCount, len(request.Messages)),
			observability.Int(observability.AttrRequestToolsCount, len(request.Tools)),
		)
	}
	if level >= LogLevelVerbose && len(request.Messages) > 0 {
		last := request.Messages[len(request.Messages)-1]
		attrs = append(attrs,
			observability.String("request.last_message.role", string(last.Role)),
			observability.String("request.last_message.content", observability.TruncateString(last.Content, truncateLen)),
		)
	}
	return attrs
}

func responseAttrs(response *ai.ChatResponse, elapsed time.Duration, level LogLevel) []observability.Attribute {
	attrs := []observability.Attribute{
		observability.Duration(observability.AttrDuration, elapsed),
	}
	if response == nil {
		return attrs
	}
	attrs = append(attrs, observability.String(observability.AttrLLMModel, response.Model))
	if response.Usage != nil {
		attrs = append(attrs, observability.Int(observability.AttrLLMTokensTotal, response.Usage.TotalTokens))
	}
	if level >= LogLevelStandard && response.FinishReason != "" {
		attrs = append(attrs, observability.String(observability.AttrLLMFinishReason, response.FinishReason))
	}
	if level >= LogLevelVerbose && response.Content != "" {
		attrs = append(attrs, observability.String("response.content", observability.TruncateString(response.Content, truncateLen)))
	}
	return attrs
}
