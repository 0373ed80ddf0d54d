package serper

import (
	"context"

	"github.com/leofalp/reactloop/providers/tool"
)

// NewSearchTool exposes Client.Search as the "search" tool.
func NewSearchTool(client *Client) *tool.Spec {
	return &tool.Spec{
		Name:        "search",
		Description: "Search for a query on Google",
		Parameters: []tool.Parameter{
			{Name: "query", Type: "string", Description: "The query to search for", Required: true},
		},
		Handler: func(ctx context.Context, args map[string]any) (string, error) {
			query, _ := args["query"].(string)
			return client.Search(ctx, query).String(), nil
		},
	}
}

// NewAccessURLTool exposes Client.Scrape as the "access_url" tool.
func NewAccessURLTool(client *Client) *tool.Spec {
	return &tool.Spec{
		Name:        "access_url",
		Description: "Access a URL and scrape the content",
		Parameters: []tool.Parameter{
			{Name: "url", Type: "string", Description: "The URL to access", Required: true},
		},
		Handler: func(ctx context.Context, args map[string]any) (string, error) {
			url, _ := args["url"].(string)
			return client.Scrape(ctx, url).String(), nil
		},
	}
}
