package observability

// Semantic conventions for observability attributes.
// These constants define standard attribute names to ensure consistency
// across different components of the system.

// --- LLM Provider Attributes ---

const (
	// AttrLLMProvider is the name of the LLM provider (e.g., "openai")
	AttrLLMProvider = "llm.provider"

	// AttrLLMModel is the model identifier
	AttrLLMModel = "llm.model"

	// AttrLLMEndpoint is the API endpoint URL
	AttrLLMEndpoint = "llm.endpoint"

	// AttrLLMResponseID is the unique response identifier from the provider
	AttrLLMResponseID = "llm.response.id"

	// AttrLLMFinishReason is the reason the generation finished
	AttrLLMFinishReason = "llm.finish_reason"

	// AttrLLMTokensTotal is the total number of tokens
	AttrLLMTokensTotal = "llm.tokens.total" // #nosec G101 -- Not a credential, token refers to LLM tokens

	// AttrLLMAttempt is the 1-based attempt number of a retried request
	AttrLLMAttempt = "llm.attempt"
)

// --- Tool Execution Attributes ---

const (
	// AttrToolName is the name of the tool being executed
	AttrToolName = "tool.name"

	// AttrToolInput is the tool input (serialized)
	AttrToolInput = "tool.input"

	// AttrToolOutput is the tool output (serialized)
	AttrToolOutput = "tool.output"

	// AttrToolDuration is the execution duration
	AttrToolDuration = "tool.duration"

	// AttrToolError is the error message if tool execution failed
	AttrToolError = "tool.error"

	// AttrToolThought is the reasoning supplied with a tool call
	AttrToolThought = "tool.thought"
)

// --- ReAct Loop Attributes ---

const (
	// AttrReactRunID identifies one run of the loop
	AttrReactRunID = "react.run_id"

	// AttrReactQuery is the user query driving the run
	AttrReactQuery = "react.query"

	// AttrReactStepIndex is the zero-based index of a step in the transcript
	AttrReactStepIndex = "react.step.index"

	// AttrReactStepKind is the kind of step (action, finish, malformed)
	AttrReactStepKind = "react.step.kind"

	// AttrReactObservationKind classifies the observation fed back to the provider
	AttrReactObservationKind = "react.observation.kind"

	// AttrReactOutcome is how the run ended
	AttrReactOutcome = "react.outcome"

	// AttrReactTools lists the tool names offered to the provider
	AttrReactTools = "react.tools"

	// AttrReactMaxSteps is the configured step limit
	AttrReactMaxSteps = "react.max_steps"

	// AttrReactSteps is the number of steps taken
	AttrReactSteps = "react.steps"
)

// --- Request Attributes ---

const (
	// AttrRequestMessagesCount is the number of messages in the request
	AttrRequestMessagesCount = "request.messages_count"

	// AttrRequestToolsCount is the number of tools in the request
	AttrRequestToolsCount = "request.tools_count"
)

// --- HTTP Attributes ---

const (
	// AttrHTTPMethod is the HTTP method (GET, POST, etc.)
	AttrHTTPMethod = "http.method"

	// AttrHTTPStatusCode is the HTTP response status code
	AttrHTTPStatusCode = "http.status_code"

	// AttrHTTPURL is the full request URL
	AttrHTTPURL = "http.url"

	// AttrHTTPRequestBodySize is the request body size in bytes
	AttrHTTPRequestBodySize = "http.request.body.size"

	// AttrHTTPResponseBodySize is the response body size in bytes
	AttrHTTPResponseBodySize = "http.response.body.size"
)

// --- General Attributes ---

const (
	// AttrError is the error message
	AttrError = "error"

	// AttrDuration is the operation duration
	AttrDuration = "duration"

	// AttrCacheHit reports whether a result was served from cache
	AttrCacheHit = "cache.hit"
)

// --- Span Names ---

const (
	// SpanReactRun is the span name for one loop run
	SpanReactRun = "react.run"

	// SpanLLMRequest is the span name for LLM API requests
	SpanLLMRequest = "llm.request"

	// SpanToolExecution is the span name for tool executions
	SpanToolExecution = "tool.execution"
)

// --- Event Names ---

const (
	// EventToolThought marks the reasoning captured before a tool runs
	EventToolThought = "tool.thought"

	// EventStepMalformed marks provider output that could not be used
	EventStepMalformed = "react.step.malformed"
)

// --- Metric Names ---

const (
	// MetricReactRunCount counts runs by outcome
	MetricReactRunCount = "reactloop.run.count"

	// MetricReactRunDuration is the histogram for run duration in seconds
	MetricReactRunDuration = "reactloop.run.duration"

	// MetricReactStepCount counts steps by kind
	MetricReactStepCount = "reactloop.step.count"

	// MetricToolErrorCount counts tool invocations that produced an error observation
	MetricToolErrorCount = "reactloop.tool.error.count"

	// MetricLLMRequestDuration is the histogram for LLM request duration in seconds
	MetricLLMRequestDuration = "reactloop.llm.request.duration"

	// MetricLLMRetryCount counts retried LLM requests
	MetricLLMRetryCount = "reactloop.llm.retry.count"
)
