package webfetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"

	"github.com/leofalp/reactloop/internal/utils"
	"github.com/leofalp/reactloop/providers/observability"
	"github.com/leofalp/reactloop/providers/tool"
)

const (
	// DefaultTimeout is the default HTTP request timeout
	DefaultTimeout = 30 * time.Second
	// DefaultUserAgent is the default User-Agent header value
	DefaultUserAgent = "reactloop-webfetch/1.0"
	// MaxBodySize is the maximum response body size (10MB)
	MaxBodySize = 10 * 1024 * 1024
	// MaxRedirects is the number of redirects followed before giving up
	MaxRedirects = 10

	dialTimeout           = 10 * time.Second
	tlsHandshakeTimeout   = 10 * time.Second
	responseHeaderTimeout = 10 * time.Second
	idleConnTimeout       = 90 * time.Second

	fetchFailedMessage = "There was an error while accessing the URL"
)

// ErrEmptyURL is returned by Fetch for a blank URL.
var ErrEmptyURL = errors.New("URL cannot be empty")

// Input describes one page fetch.
type Input struct {
	// URL may be partial like "go.dev"; "https://" is prepended when no scheme is given.
	URL string `json:"url" jsonschema:"description=The URL of the web page to fetch,required"`
	// TimeoutSeconds overrides the fetcher's timeout when positive.
	TimeoutSeconds int    `json:"timeout_seconds,omitempty"`
	UserAgent      string `json:"user_agent,omitempty"`
	IncludeHTML    bool   `json:"include_html,omitempty"`
}

// Output holds a fetched page. URL is the final destination after redirects
// and HTML is only set when Input.IncludeHTML is true.
type Output struct {
	URL      string `json:"url"`
	Markdown string `json:"markdown"`
	HTML     string `json:"html,omitempty"`
}

// Result is the never-failing form of a fetch used by the fetch_url tool.
type Result struct {
	Text string
	Err  error
}

// String returns the page Markdown, or a fixed message when the fetch failed.
func (r Result) String() string {
	if r.Err != nil {
		return fetchFailedMessage
	}
	return r.Text
}

// Fetcher retrieves pages and converts them to Markdown. It is safe for concurrent use.
type Fetcher struct {
	client    *http.Client
	timeout   time.Duration
	userAgent string
	obs       observability.Provider
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithHTTPClient replaces the default client. Its CheckRedirect is kept as given.
func WithHTTPClient(client *http.Client) Option {
	return func(f *Fetcher) {
		if client != nil {
			f.client = client
		}
	}
}

// WithTimeout sets the default per-request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(f *Fetcher) {
		if timeout > 0 {
			f.timeout = timeout
		}
	}
}

// WithUserAgent sets the default User-Agent header.
func WithUserAgent(userAgent string) Option {
	return func(f *Fetcher) {
		if userAgent != "" {
			f.userAgent = userAgent
		}
	}
}

// WithObservability logs fetches through provider.
func WithObservability(provider observability.Provider) Option {
	return func(f *Fetcher) {
		f.obs = observability.OrNop(provider)
	}
}

// NewFetcher creates a Fetcher whose client follows up to MaxRedirects
// redirects and bounds dial, TLS and header waits.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		client:    newHTTPClient(),
		timeout:   DefaultTimeout,
		userAgent: DefaultUserAgent,
		obs:       observability.Nop(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func newHTTPClient() *http.Client {
	return &http.Client{
		Transport: &http.Transport{
			DialContext: (&net.Dialer{
				Timeout:   dialTimeout,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			TLSHandshakeTimeout:   tlsHandshakeTimeout,
			ResponseHeaderTimeout: responseHeaderTimeout,
			IdleConnTimeout:       idleConnTimeout,
			MaxIdleConns:          100,
			MaxIdleConnsPerHost:   10,
			ForceAttemptHTTP2:     true,
		},
		CheckRedirect: checkRedirect,
	}
}

func checkRedirect(req *http.Request, via []*http.Request) error {
	if len(via) >= MaxRedirects {
		return fmt.Errorf("too many redirects (>%d)", MaxRedirects)
	}
	return nil
}

// NormalizeURL trims url and prepends "https://" when it has no http(s) scheme.
func NormalizeURL(url string) string {
	url = strings.TrimSpace(url)
	if url == "" {
		return ""
	}
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		url = "https://" + url
	}
	return url
}

// Fetch retrieves the page at in.URL and returns it as Markdown.
//
// Fetch returns an error when the URL is empty, the status is not 200 OK,
// the body exceeds MaxBodySize, conversion fails, or the context is
// cancelled or times out.
func (f *Fetcher) Fetch(ctx context.Context, in Input) (Output, error) {
	url := NormalizeURL(in.URL)
	if url == "" {
		return Output{}, ErrEmptyURL
	}

	timeout := f.timeout
	if in.TimeoutSeconds > 0 {
		timeout = time.Duration(in.TimeoutSeconds) * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Output{}, fmt.Errorf("failed to create request: %w", err)
	}
	userAgent := f.userAgent
	if in.UserAgent != "" {
		userAgent = in.UserAgent
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return Output{}, fmt.Errorf("request timeout or canceled: %w", err)
		}
		return Output{}, fmt.Errorf("failed to fetch URL: %w", err)
	}
	defer utils.CloseWithLog(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return Output{}, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	// Read in a goroutine so cancellation is honoured during slow bodies.
	type readResult struct {
		data []byte
		err  error
	}
	readChan := make(chan readResult, 1)
	go func() {
		data, err := io.ReadAll(io.LimitReader(resp.Body, MaxBodySize+1))
		readChan <- readResult{data: data, err: err}
	}()

	var body []byte
	select {
	case <-ctx.Done():
		return Output{}, fmt.Errorf("timeout while reading response body: %w", ctx.Err())
	case result := <-readChan:
		if result.err != nil {
			return Output{}, fmt.Errorf("failed to read response body: %w", result.err)
		}
		body = result.data
	}

	if len(body) > MaxBodySize {
		return Output{}, fmt.Errorf("response body exceeds maximum size of %d bytes", MaxBodySize)
	}

	markdown, err := htmltomarkdown.ConvertString(string(body))
	if err != nil {
		return Output{}, fmt.Errorf("failed to convert HTML to Markdown: %w", err)
	}

	out := Output{URL: resp.Request.URL.String(), Markdown: markdown}
	if in.IncludeHTML {
		out.HTML = string(body)
	}
	return out, nil
}

// FetchURL fetches url and never fails: errors are reported through Result.Err
// and rendered as a fixed message by Result.String.
func (f *Fetcher) FetchURL(ctx context.Context, url string) Result {
	f.obs.Info(ctx, "Accessing URL: "+strings.TrimSpace(url))

	out, err := f.Fetch(ctx, Input{URL: url})
	if err != nil {
		f.obs.Error(ctx, "Error accessing the URL",
			observability.String(observability.AttrHTTPURL, url),
			observability.Error(err),
		)
		return Result{Err: err}
	}
	return Result{Text: out.Markdown}
}

// fetchURLInput is the argument list of the fetch_url tool.
type fetchURLInput struct {
	URL string `json:"url" jsonschema:"description=The URL to access"`
}

// NewFetchTool exposes f as the "fetch_url" tool.
func NewFetchTool(f *Fetcher) *tool.Spec {
	return tool.NewTool("fetch_url",
		func(ctx context.Context, in fetchURLInput) (string, error) {
			return f.FetchURL(ctx, in.URL).String(), nil
		},
		tool.WithDescription("Fetch a web page and return its content as Markdown"),
	)
}
