package middleware

import (
	"context"

	"github.com/leofalp/reactloop/providers/ai"
)

// SendFunc sends one chat request and returns the completed response.
type SendFunc func(ctx context.Context, request ai.ChatRequest) (*ai.ChatResponse, error)

// Middleware receives the next SendFunc in the chain and returns a SendFunc
// wrapping it.
type Middleware func(next SendFunc) SendFunc

// Wrap returns a provider that runs every SendMessage through middlewares.
// The first middleware is the outermost one. Nil entries are skipped.
func Wrap(provider ai.Provider, middlewares ...Middleware) ai.Provider {
	chain := SendFunc(provider.SendMessage)
	for i := len(middlewares) - 1; i >= 0; i-- {
		if middlewares[i] != nil {
			chain = middlewares[i](chain)
		}
	}
	return &wrapped{provider: provider, send: chain}
}

type wrapped struct {
	provider ai.Provider
	send     SendFunc
}

func (w *wrapped) SendMessage(ctx context.Context, request ai.ChatRequest) (*ai.ChatResponse, error) {
	return w.send(ctx, request)
}

func (w *wrapped) IsStopMessage(message *ai.ChatResponse) bool {
	return w.provider.IsStopMessage(message)
}
