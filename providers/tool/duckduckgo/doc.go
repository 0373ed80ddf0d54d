// Package duckduckgo queries the DuckDuckGo Instant Answer API. It needs no
// API key, which makes it the fallback search tool when no Serper key is
// configured. Results are summaries (abstract, answer, definition, related
// topics) rather than a full result page.
package duckduckgo
