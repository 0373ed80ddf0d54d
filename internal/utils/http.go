package utils

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/leofalp/reactloop/providers/observability"
)

const (
	// maxResponseBodySize caps how much of a response body is read (10 MB).
	maxResponseBodySize int64 = 10 * 1024 * 1024

	errorPreviewLen = 500
)

// HeaderOption is an extra request header applied after the defaults, so it can
// override Authorization for APIs that authenticate with a custom header.
type HeaderOption struct {
	Key   string
	Value string
}

// StatusError reports a non-2xx response. Body is truncated for logging.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("non-2xx status %d: %s", e.StatusCode, e.Body)
}

// DoPostSync POSTs body as JSON to url and decodes a 2xx response into Out.
// A non-empty apiKey is sent as a bearer token. Request and response are
// recorded as events on the span in ctx, if any.
//
// The *http.Response is returned whenever one was received, with its body
// already consumed and closed. Non-2xx responses yield a *StatusError.
func DoPostSync[Out any](ctx context.Context, client *http.Client, url string, apiKey string, body any, headers ...HeaderOption) (*http.Response, *Out, error) {
	if client == nil {
		client = http.DefaultClient
	}
	span := observability.SpanFromContext(ctx)

	req, size, err := newJSONRequest(ctx, url, apiKey, body, headers)
	if err != nil {
		return nil, nil, err
	}
	addEvent(span, "http.request.prepared",
		observability.String(observability.AttrHTTPMethod, http.MethodPost),
		observability.String(observability.AttrHTTPURL, url),
		observability.Int(observability.AttrHTTPRequestBodySize, size),
	)

	sw := StartTimer()
	res, err := client.Do(req)
	if err != nil {
		addEvent(span, "http.request.error",
			observability.Error(err),
			observability.Duration(observability.AttrDuration, sw.Stop()),
		)
		return res, nil, fmt.Errorf("error sending request: %w", err)
	}
	defer CloseWithLog(res.Body)

	payload, err := io.ReadAll(io.LimitReader(res.Body, maxResponseBodySize))
	if err != nil {
		return res, nil, fmt.Errorf("error reading response body: %w", err)
	}
	addEvent(span, "http.response.received",
		observability.Int(observability.AttrHTTPStatusCode, res.StatusCode),
		observability.Int(observability.AttrHTTPResponseBodySize, len(payload)),
		observability.Duration(observability.AttrDuration, sw.Stop()),
	)

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return res, nil, &StatusError{
			StatusCode: res.StatusCode,
			Body:       observability.TruncateString(string(payload), errorPreviewLen),
		}
	}

	var out Out
	if err := json.Unmarshal(payload, &out); err != nil {
		return res, nil, fmt.Errorf("error unmarshaling response body (status %d): %w; preview: %s",
			res.StatusCode, err, observability.TruncateString(string(payload), errorPreviewLen))
	}
	return res, &out, nil
}

func newJSONRequest(ctx context.Context, url, apiKey string, body any, headers []HeaderOption) (*http.Request, int, error) {
	encoded, err := json.Marshal(body)
	if err != nil {
		return nil, 0, fmt.Errorf("error marshaling body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(encoded))
	if err != nil {
		return nil, 0, fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+apiKey)
	}
	for _, h := range headers {
		req.Header.Set(h.Key, h.Value)
	}
	return req, len(encoded), nil
}

func addEvent(span observability.Span, name string, attrs ...observability.Attribute) {
	if span != nil {
		span.AddEvent(name, attrs...)
	}
}

// CloseWithLog closes c and logs a close failure instead of returning it.
// Meant for deferred cleanup where the primary error must not be overridden.
func CloseWithLog(c io.Closer) {
	if c == nil {
		return
	}
	if err := c.Close(); err != nil {
		slog.Warn("failed to close resource", "error", err.Error())
	}
}
