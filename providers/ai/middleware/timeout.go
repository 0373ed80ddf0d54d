package middleware

import (
	"context"
	"time"

	"github.com/leofalp/reactloop/providers/ai"
)

// Timeout bounds every request with its own deadline. A shorter deadline
// already on the caller's context still wins. A non-positive timeout
// disables the middleware.
func Timeout(timeout time.Duration) Middleware {
	return func(next SendFunc) SendFunc {
		if timeout <= 0 {
			return next
		}
		return func(ctx context.Context, request ai.ChatRequest) (*ai.ChatResponse, error) {
			ctx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()
			return next(ctx, request)
		}
	}
}
