package utils

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/leofalp/reactloop/providers/observability"
)

type valueResponse struct {
	Value int `json:"value"`
}

// echoServer answers every request with status and body, recording the
// last request headers.
func echoServer(t *testing.T, status int, body string) (*httptest.Server, *http.Header) {
	t.Helper()
	var headers http.Header
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		headers = r.Header.Clone()
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		fmt.Fprint(w, body)
	}))
	t.Cleanup(server.Close)
	return server, &headers
}

func TestDoPostSync_Success(t *testing.T) {
	server, headers := echoServer(t, http.StatusOK, `{"value":42}`)

	res, result, err := DoPostSync[valueResponse](context.Background(), server.Client(), server.URL, "test-key", map[string]string{"q": "x"})
	if err != nil {
		t.Fatalf("DoPostSync: %v", err)
	}
	if res == nil || res.StatusCode != http.StatusOK {
		t.Errorf("response = %v", res)
	}
	if result == nil || result.Value != 42 {
		t.Errorf("result = %+v, want Value=42", result)
	}
	if got := headers.Get("Content-Type"); got != "application/json" {
		t.Errorf("Content-Type = %q", got)
	}
	if got := headers.Get("Authorization"); got != "Bearer test-key" {
		t.Errorf("Authorization = %q", got)
	}
}

func TestDoPostSync_Headers(t *testing.T) {
	tests := []struct {
		name     string
		apiKey   string
		headers  []HeaderOption
		wantAuth string
		wantKey  string
	}{
		{name: "no credentials"},
		{name: "bearer", apiKey: "k", wantAuth: "Bearer k"},
		{name: "custom key header", headers: []HeaderOption{{Key: "X-API-KEY", Value: "serper-key"}}, wantKey: "serper-key"},
		{name: "header overrides bearer", apiKey: "k", headers: []HeaderOption{{Key: "Authorization", Value: "Token t"}}, wantAuth: "Token t"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server, headers := echoServer(t, http.StatusOK, `{}`)
			if _, _, err := DoPostSync[map[string]any](context.Background(), nil, server.URL, tt.apiKey, struct{}{}, tt.headers...); err != nil {
				t.Fatalf("DoPostSync: %v", err)
			}
			if got := headers.Get("Authorization"); got != tt.wantAuth {
				t.Errorf("Authorization = %q, want %q", got, tt.wantAuth)
			}
			if got := headers.Get("X-API-KEY"); got != tt.wantKey {
				t.Errorf("X-API-KEY = %q, want %q", got, tt.wantKey)
			}
		})
	}
}

func TestDoPostSync_StatusError(t *testing.T) {
	server, _ := echoServer(t, http.StatusServiceUnavailable, strings.Repeat("x", 2000))

	res, result, err := DoPostSync[valueResponse](context.Background(), server.Client(), server.URL, "", nil)
	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("err = %v, want *StatusError", err)
	}
	if statusErr.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("StatusCode = %d", statusErr.StatusCode)
	}
	if len(statusErr.Body) > 600 {
		t.Errorf("body preview not truncated: %d bytes", len(statusErr.Body))
	}
	if !strings.Contains(err.Error(), "non-2xx status 503") {
		t.Errorf("message = %q", err.Error())
	}
	if res == nil || result != nil {
		t.Errorf("want the response and no result, got %v / %v", res, result)
	}
}

func TestDoPostSync_Failures(t *testing.T) {
	badJSON, _ := echoServer(t, http.StatusOK, `"not an object"`)
	cancelled, cancel := context.WithCancel(context.Background())
	cancel()

	tests := []struct {
		name    string
		ctx     context.Context
		url     string
		body    any
		wantSub string
		wantIs  error
	}{
		{name: "unmarshal", ctx: context.Background(), url: badJSON.URL, wantSub: "unmarshaling"},
		{name: "bad url", ctx: context.Background(), url: " bad url", wantSub: "creating request"},
		{name: "unencodable body", ctx: context.Background(), url: badJSON.URL, body: make(chan int), wantSub: "marshaling body"},
		{name: "cancelled", ctx: cancelled, url: badJSON.URL, wantIs: context.Canceled},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := DoPostSync[valueResponse](tt.ctx, nil, tt.url, "", tt.body)
			if err == nil {
				t.Fatal("expected an error")
			}
			if tt.wantSub != "" && !strings.Contains(err.Error(), tt.wantSub) {
				t.Errorf("err = %v, want it to contain %q", err, tt.wantSub)
			}
			if tt.wantIs != nil && !errors.Is(err, tt.wantIs) {
				t.Errorf("err = %v, want errors.Is %v", err, tt.wantIs)
			}
		})
	}
}

// recordingSpan keeps the names of the events added to it.
type recordingSpan struct {
	mu     sync.Mutex
	events []string
}

func (s *recordingSpan) End()                                       {}
func (s *recordingSpan) SetAttributes(...observability.Attribute)   {}
func (s *recordingSpan) SetStatus(observability.StatusCode, string) {}
func (s *recordingSpan) RecordError(error)                          {}
func (s *recordingSpan) AddEvent(name string, _ ...observability.Attribute) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, name)
}

func TestDoPostSync_SpanEvents(t *testing.T) {
	server, _ := echoServer(t, http.StatusOK, `{"value":1}`)
	span := &recordingSpan{}
	ctx := observability.ContextWithSpan(context.Background(), span)

	if _, _, err := DoPostSync[valueResponse](ctx, nil, server.URL, "", nil); err != nil {
		t.Fatalf("DoPostSync: %v", err)
	}
	if got := strings.Join(span.events, ","); got != "http.request.prepared,http.response.received" {
		t.Errorf("events = %s", got)
	}
}

type errCloser struct{ err error }

func (c errCloser) Close() error { return c.err }

func TestCloseWithLog(t *testing.T) {
	CloseWithLog(nil)
	CloseWithLog(errCloser{})
	CloseWithLog(errCloser{err: errors.New("close error")})
}
