// Package tool defines the contract of the tools a reasoning loop can call and
// the machinery that asks the model to justify every call.
//
// A [Spec] is a tool's externally visible contract: name, description, ordered
// parameter list and handler. Specs can be written by hand or derived from a
// typed Go function with [NewTool].
//
// [Augment] produces a tool whose contract begins with a mandatory reasoning
// parameter named [ReasoningParamName]. When the augmented tool runs, the
// reasoning is handed to a [ThoughtCallback] and removed before the original
// handler is called, so the handler never sees it.
//
// The [Catalog] type is a thread-safe registry that augments tools at
// registration (or, in [ReasoningThinkTool] mode, registers a dedicated think
// tool instead) and dispatches calls by case-insensitive name.
package tool
