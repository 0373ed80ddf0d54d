// Package react implements the ReAct (Reasoning + Acting) loop: a controller
// that repeatedly asks a [ReasoningProvider] for the next [Step], runs the
// chosen tool from a tool.Catalog, and feeds the result back as an
// [Observation] until the provider produces a final answer or the step limit
// is reached.
//
// Every step is reported, in order and exactly once, to the registered
// [Observer]s. The run history is kept in a [Transcript] that providers see
// read-only.
//
// The main entry point is [New], which returns a [Loop]; call [Loop.Run] for
// each query. [NewLLMProvider] adapts any ai.Provider into a ReasoningProvider.
package react
