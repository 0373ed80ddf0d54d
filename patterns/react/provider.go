package react

import (
	"context"

	"github.com/leofalp/reactloop/providers/tool"
)

// ReasoningProvider proposes the next step of a run. It sees only the query,
// the transcript so far and the tool contracts exposed by the catalog.
//
// Returning an error is not fatal: the loop records it as a malformed step
// and asks again, within the step limit.
type ReasoningProvider interface {
	Propose(ctx context.Context, query string, transcript *Transcript, tools []*tool.Spec) (Step, error)
}

// ProviderFunc adapts a function to the ReasoningProvider interface.
type ProviderFunc func(ctx context.Context, query string, transcript *Transcript, tools []*tool.Spec) (Step, error)

// Propose calls f.
func (f ProviderFunc) Propose(ctx context.Context, query string, transcript *Transcript, tools []*tool.Spec) (Step, error) {
	return f(ctx, query, transcript, tools)
}
