package duckduckgo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/leofalp/reactloop/internal/utils"
	"github.com/leofalp/reactloop/providers/observability"
	"github.com/leofalp/reactloop/providers/tool"
)

const (
	DefaultBaseURL   = "https://api.duckduckgo.com/"
	defaultUserAgent = "reactloop-duckduckgo/1.0"

	maxRelatedTopics    = 5
	noResultsMessage    = "No results found for this query."
	searchFailedMessage = "There was an error while searching for the query"
)

// Client performs Instant Answer lookups.
type Client struct {
	httpClient *http.Client
	baseURL    string
	obs        observability.Provider
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces http.DefaultClient.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithBaseURL points the client at another endpoint, mainly for tests.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		if baseURL != "" {
			c.baseURL = baseURL
		}
	}
}

// WithObservability logs lookups and failures through provider.
func WithObservability(provider observability.Provider) Option {
	return func(c *Client) {
		c.obs = observability.OrNop(provider)
	}
}

func NewClient(opts ...Option) *Client {
	c := &Client{
		httpClient: http.DefaultClient,
		baseURL:    DefaultBaseURL,
		obs:        observability.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Search returns a plain-text summary for query. An empty answer is not an
// error: the summary then says no results were found.
func (c *Client) Search(ctx context.Context, query string) (string, error) {
	if strings.TrimSpace(query) == "" {
		return "", fmt.Errorf("duckduckgo: empty query")
	}

	response, err := c.fetch(ctx, query)
	if err != nil {
		c.obs.Warn(ctx, "duckduckgo search failed",
			observability.String("search.query", observability.TruncateStringDefault(query)),
			observability.Error(err),
		)
		return "", err
	}
	return response.summary(), nil
}

func (c *Client) fetch(ctx context.Context, query string) (*instantAnswer, error) {
	params := url.Values{}
	params.Add("q", query)
	params.Add("format", "json")
	params.Add("no_html", "1")
	params.Add("skip_disambig", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("User-Agent", defaultUserAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error making request: %w", err)
	}
	defer utils.CloseWithLog(resp.Body)

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading response: %w", err)
	}

	var answer instantAnswer
	if err := json.Unmarshal(body, &answer); err != nil {
		return nil, fmt.Errorf("error parsing response: %w", err)
	}
	return &answer, nil
}

// instantAnswer is the subset of the API response the summary uses.
type instantAnswer struct {
	AbstractText  string `json:"AbstractText"`
	AbstractURL   string `json:"AbstractURL"`
	Answer        string `json:"Answer"`
	Definition    string `json:"Definition"`
	RelatedTopics []struct {
		Text string `json:"Text"`
	} `json:"RelatedTopics"`
}

func (a *instantAnswer) summary() string {
	var parts []string
	if a.AbstractText != "" {
		parts = append(parts, "Abstract: "+a.AbstractText)
		if a.AbstractURL != "" {
			parts = append(parts, "Source: "+a.AbstractURL)
		}
	}
	if a.Answer != "" {
		parts = append(parts, "Answer: "+a.Answer)
	}
	if a.Definition != "" {
		parts = append(parts, "Definition: "+a.Definition)
	}

	var topics []string
	for _, topic := range a.RelatedTopics {
		if len(topics) == maxRelatedTopics {
			break
		}
		if topic.Text != "" {
			topics = append(topics, topic.Text)
		}
	}
	if len(topics) > 0 {
		parts = append(parts, "Related topics: "+strings.Join(topics, "; "))
	}

	if len(parts) == 0 {
		return noResultsMessage
	}
	return strings.Join(parts, "\n\n")
}

// NewSearchTool exposes client as the "search" tool. It shares its name with
// the Serper search tool so either can back the same prompt. Failed lookups
// come back as a fixed message, never as an error.
func NewSearchTool(client *Client) *tool.Spec {
	return &tool.Spec{
		Name:        "search",
		Description: "Search the web with DuckDuckGo and return a short summary of instant answers and related topics",
		Parameters: []tool.Parameter{
			{Name: "query", Type: "string", Description: "The search query", Required: true},
		},
		Handler: func(ctx context.Context, args map[string]any) (string, error) {
			query, _ := args["query"].(string)
			summary, err := client.Search(ctx, query)
			if err != nil {
				return searchFailedMessage, nil
			}
			return summary, nil
		},
	}
}
