// Package serper provides web search and page scraping backed by the Serper API
// (https://serper.dev).
//
// Every call returns a [Result] instead of an error: a failed request yields a
// fixed, model-readable message so the reasoning loop can carry on. Search
// results can be cached in memory with [WithCache].
//
// Use [NewSearchTool] and [NewAccessURLTool] to register the client with a
// [tool.Catalog].
package serper
