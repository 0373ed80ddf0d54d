package serper

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/leofalp/reactloop/internal/utils"
	"github.com/leofalp/reactloop/providers/observability"
)

const (
	DefaultSearchURL = "https://google.serper.dev/search"
	DefaultScrapeURL = "https://scrape.serper.dev"

	// Defaults for WithCache when a caller has no better numbers.
	DefaultCacheSize = 256
	DefaultCacheTTL  = 10 * time.Minute

	apiKeyHeader = "X-API-KEY"

	searchFailedMessage = "There was an error while searching for the query"
	scrapeFailedMessage = "There was an error while accessing the URL"
)

// ErrMissingAPIKey is reported when a request is attempted without an API key.
var ErrMissingAPIKey = errors.New("serper: API key is not set")

// Result is the outcome of a search or scrape. Exactly one of Text and Err is meaningful.
type Result struct {
	Text string
	Err  error

	fallback string
}

// OK reports whether the request succeeded.
func (r Result) OK() bool { return r.Err == nil }

// String returns the response text, or a fixed error message when the request failed.
func (r Result) String() string {
	if r.Err != nil {
		return r.fallback
	}
	return r.Text
}

// Client talks to the Serper search and scrape endpoints. It is safe for concurrent use.
type Client struct {
	apiKey     string
	httpClient *http.Client
	searchURL  string
	scrapeURL  string
	cache      *expirable.LRU[string, string]
	obs        observability.Provider
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the HTTP client used for requests.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithBaseURLs overrides the search and scrape endpoints. Empty values keep the defaults.
func WithBaseURLs(searchURL, scrapeURL string) Option {
	return func(c *Client) {
		if searchURL != "" {
			c.searchURL = searchURL
		}
		if scrapeURL != "" {
			c.scrapeURL = scrapeURL
		}
	}
}

// WithCache keeps up to size successful search results for ttl.
func WithCache(size int, ttl time.Duration) Option {
	return func(c *Client) {
		if size > 0 {
			c.cache = expirable.NewLRU[string, string](size, nil, ttl)
		}
	}
}

// WithObservability logs requests and failures through provider.
func WithObservability(provider observability.Provider) Option {
	return func(c *Client) {
		c.obs = observability.OrNop(provider)
	}
}

// NewClient creates a client authenticating with apiKey.
func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		searchURL:  DefaultSearchURL,
		scrapeURL:  DefaultScrapeURL,
		obs:        observability.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Search runs a Google search for query.
func (c *Client) Search(ctx context.Context, query string) Result {
	query = strings.TrimSpace(query)
	c.obs.Info(ctx, "Searching for: "+query)

	if c.cache != nil {
		if text, ok := c.cache.Get(query); ok {
			c.obs.Debug(ctx, "serper search cache hit", observability.Bool(observability.AttrCacheHit, true))
			return Result{Text: text}
		}
	}

	result := c.post(ctx, c.searchURL, map[string]string{"q": query}, searchFailedMessage)
	if result.OK() && c.cache != nil {
		c.cache.Add(query, result.Text)
	}
	if !result.OK() {
		c.obs.Error(ctx, "Error searching for the query", observability.Error(result.Err))
	}
	return result
}

// Scrape fetches url through the Serper scraper and returns its content.
func (c *Client) Scrape(ctx context.Context, url string) Result {
	url = strings.TrimSpace(url)
	c.obs.Info(ctx, "Accessing URL: "+url)

	result := c.post(ctx, c.scrapeURL, map[string]string{"url": url}, scrapeFailedMessage)
	if !result.OK() {
		c.obs.Error(ctx, "Error accessing the URL", observability.Error(result.Err))
	}
	return result
}

func (c *Client) post(ctx context.Context, endpoint string, payload any, fallback string) Result {
	if c.apiKey == "" {
		return Result{Err: ErrMissingAPIKey, fallback: fallback}
	}

	// The bearer token is left empty; Serper authenticates with its own header.
	_, body, err := utils.DoPostSync[json.RawMessage](ctx, c.httpClient, endpoint, "", payload,
		utils.HeaderOption{Key: apiKeyHeader, Value: c.apiKey},
	)
	if err != nil {
		return Result{Err: err, fallback: fallback}
	}
	return Result{Text: string(*body)}
}
