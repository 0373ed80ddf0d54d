package duckduckgo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/leofalp/reactloop/providers/tool"
)

func newTestServer(t *testing.T, status int, body string) (*httptest.Server, *string) {
	t.Helper()
	var gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		if r.URL.Query().Get("format") != "json" {
			t.Errorf("format = %q, want json", r.URL.Query().Get("format"))
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server, &gotQuery
}

func TestSearch_Summary(t *testing.T) {
	server, gotQuery := newTestServer(t, http.StatusOK, `{
		"AbstractText": "Go is a programming language.",
		"AbstractURL": "https://en.wikipedia.org/wiki/Go",
		"Answer": "",
		"Definition": "",
		"RelatedTopics": [
			{"Text": "t1"}, {"Text": ""}, {"Text": "t2"}, {"Text": "t3"},
			{"Text": "t4"}, {"Text": "t5"}, {"Text": "t6"}
		]
	}`)

	client := NewClient(WithBaseURL(server.URL + "/"))
	summary, err := client.Search(context.Background(), "golang")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if *gotQuery != "golang" {
		t.Errorf("query sent = %q", *gotQuery)
	}

	want := "Abstract: Go is a programming language.\n\nSource: https://en.wikipedia.org/wiki/Go\n\nRelated topics: t1; t2; t3; t4; t5"
	if summary != want {
		t.Errorf("summary =\n%s\nwant\n%s", summary, want)
	}
}

func TestSearch_NoResults(t *testing.T) {
	server, _ := newTestServer(t, http.StatusOK, `{}`)
	summary, err := NewClient(WithBaseURL(server.URL)).Search(context.Background(), "zzzz")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if summary != noResultsMessage {
		t.Errorf("summary = %q", summary)
	}
}

func TestSearch_Errors(t *testing.T) {
	server, _ := newTestServer(t, http.StatusInternalServerError, `oops`)
	client := NewClient(WithBaseURL(server.URL))

	if _, err := client.Search(context.Background(), "q"); err == nil || !strings.Contains(err.Error(), "500") {
		t.Errorf("status error = %v", err)
	}
	if _, err := client.Search(context.Background(), "  "); err == nil {
		t.Error("expected error for empty query")
	}

	bad, _ := newTestServer(t, http.StatusOK, `not json`)
	if _, err := NewClient(WithBaseURL(bad.URL)).Search(context.Background(), "q"); err == nil {
		t.Error("expected parse error")
	}
}

func TestNewSearchTool(t *testing.T) {
	server, _ := newTestServer(t, http.StatusOK, `{"Answer": "42"}`)
	spec := NewSearchTool(NewClient(WithBaseURL(server.URL)))
	if err := spec.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	catalog, err := tool.NewCatalogWithTools([]*tool.Spec{spec})
	if err != nil {
		t.Fatalf("NewCatalogWithTools: %v", err)
	}
	out, err := catalog.Dispatch(context.Background(), "search", "look it up", map[string]any{"query": "answer"})
	if err != nil || out != "Answer: 42" {
		t.Errorf("Dispatch = %q, %v", out, err)
	}
}

func TestNewSearchTool_FailureIsText(t *testing.T) {
	server, _ := newTestServer(t, http.StatusInternalServerError, `oops`)
	catalog, err := tool.NewCatalogWithTools([]*tool.Spec{NewSearchTool(NewClient(WithBaseURL(server.URL)))})
	if err != nil {
		t.Fatalf("NewCatalogWithTools: %v", err)
	}

	for _, query := range []string{"answer", ""} {
		out, err := catalog.Dispatch(context.Background(), "search", "look it up", map[string]any{"query": query})
		if err != nil {
			t.Fatalf("Dispatch(%q) error = %v", query, err)
		}
		if out != searchFailedMessage {
			t.Errorf("Dispatch(%q) = %q, want %q", query, out, searchFailedMessage)
		}
	}
}
