// Package ai defines the provider-agnostic request and response types used to
// talk to an LLM. Each backend maps [ChatRequest] and [ChatResponse] to its own
// wire format behind the [Provider] interface, so the ReAct reasoning provider
// never sees vendor-specific details.
package ai
