// Package openai implements ai.Provider against the OpenAI Chat Completions
// API or any endpoint that speaks the same protocol.
//
// Requests go through internal/utils.DoPostSync, so the active span (if any)
// receives request and response events. Parallel tool calls are disabled: the
// ReAct loop runs one tool per step.
package openai
