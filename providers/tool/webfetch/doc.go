// Package webfetch fetches web pages over HTTP/HTTPS and converts their HTML
// into Markdown for consumption by language models.
//
// A [Fetcher] performs the request with its own HTTP client. [Fetcher.Fetch]
// returns structured output and errors; [Fetcher.FetchURL] never fails and
// returns a [Result] whose text is safe to hand back to the model. Register
// [NewFetchTool] with a tool.Catalog to expose it as the "fetch_url" tool.
package webfetch
