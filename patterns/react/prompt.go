package react

import (
	"fmt"
	"strings"

	"github.com/leofalp/reactloop/internal/utils"
	"github.com/leofalp/reactloop/providers/tool"
)

// DefaultSystemPrompt instructs the model to work in Thought/Action/Observation cycles.
const DefaultSystemPrompt = `You are a ReAct (Reasoning and Acting) agent answering the user's query.

Reason about the query and decide on the best course of action to answer it accurately.

Instructions:
1. Analyze the query, your previous reasoning steps and the observations you received.
2. Decide on the next action: use the right tool, or give the final answer.
3. Always think before acting.

Remember:
- Be thorough in your reasoning.
- Use tools when you need more information.
- Base your reasoning on the actual observations returned by the tools.
- If a tool returns no results or fails, acknowledge it and try a different tool or approach.
- Give a final answer only when you are confident you have enough information.
- If the tools cannot provide what you need, say that you do not have enough information to answer confidently.`

const textProtocolInstructions = `Respond in exactly one of these two formats.

To use a tool:
Thought: <your reasoning about what to do next>
Action: <tool name>
Action Input: <JSON object with the tool arguments>

To answer:
Thought: <your reasoning>
Final Answer: <the answer to the query>

Never write the Observation yourself; it is given to you after each action.`

// renderTextProtocolPrompt appends the tool list and the response format to base.
func renderTextProtocolPrompt(base string, tools []*tool.Spec) string {
	var b strings.Builder
	b.WriteString(base)
	b.WriteString("\n\nYou have access to the following tools:\n")
	for _, spec := range tools {
		fmt.Fprintf(&b, "\n%s: %s\nParameters: %s\n",
			spec.Name, spec.Documentation(), utils.JSONToString(spec.Schema()))
	}
	b.WriteString("\n")
	b.WriteString(textProtocolInstructions)
	return b.String()
}

// renderTextAction writes an action back in the format the model is asked to use.
func renderTextAction(step Step) string {
	var b strings.Builder
	if step.Thought != "" {
		fmt.Fprintf(&b, "Thought: %s\n", step.Thought)
	}
	fmt.Fprintf(&b, "Action: %s\nAction Input: %s", step.ToolName, argumentsJSON(step.Arguments))
	return b.String()
}

func argumentsJSON(args map[string]any) string {
	if args == nil {
		return "{}"
	}
	return utils.JSONToString(args)
}
