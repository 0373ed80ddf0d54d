// Package middleware wraps an [ai.Provider] with cross-cutting behaviour:
// retries with exponential backoff, per-request timeouts and request logging.
//
// Middlewares compose outermost-first:
//
//	llm := middleware.Wrap(openai.NewOpenAIProvider(key),
//		middleware.Logging(obs, middleware.LogLevelStandard),
//		middleware.Retry(middleware.RetryConfig{MaxRetries: 2}),
//		middleware.Timeout(30*time.Second),
//	)
//
// The wrapped value is itself an [ai.Provider], so it plugs into
// react.NewLLMProvider unchanged.
package middleware
