package tool

import "context"

const (
	// ThinkToolName is the name of the dedicated reasoning tool.
	ThinkToolName = "think"

	thinkParamName  = "thought"
	thinkRecordedOK = "Thought recorded."
)

// NewThinkTool returns a tool whose only effect is to hand its thought to
// onThought. It is the alternative to injecting a reasoning parameter into
// every tool.
func NewThinkTool(onThought ThoughtCallback) *Spec {
	return &Spec{
		Name:        ThinkToolName,
		Description: "Think about what to do next. MUST be used before acting.",
		Parameters: []Parameter{{
			Name:        thinkParamName,
			Type:        "string",
			Description: "Your thought about what to do next",
			Required:    true,
		}},
		Handler: func(ctx context.Context, args map[string]any) (string, error) {
			if onThought != nil {
				thought, _ := args[thinkParamName].(string)
				onThought(ctx, ThinkToolName, thought)
			}
			return thinkRecordedOK, nil
		},
	}
}
