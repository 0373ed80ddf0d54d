// Package parse turns raw LLM output into Go values. Models wrap JSON in prose
// or markdown fences, emit Python constants, truncate objects and sometimes
// echo schema envelopes; this package extracts the JSON candidate, repairs it
// with jsonrepair and unwraps envelopes before giving up with an error.
//
// [ParseStringAs] converts to any primitive or JSON-shaped type,
// [ParseArguments] decodes tool-call arguments into a map, and [ParseReAct]
// reads the classic Thought / Action / Action Input / Final Answer text format.
package parse
