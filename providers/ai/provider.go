package ai

import "context"

// Provider is the contract every LLM backend implements. A single call sends
// the whole conversation and returns one completed assistant turn.
type Provider interface {
	// SendMessage sends a chat request and returns the completed response.
	// It fails when the call fails, the context is cancelled, or the
	// response cannot be decoded.
	SendMessage(ctx context.Context, request ChatRequest) (*ChatResponse, error)

	// IsStopMessage reports whether the response ends the model's turn
	// without asking for any tool.
	IsStopMessage(message *ChatResponse) bool
}
