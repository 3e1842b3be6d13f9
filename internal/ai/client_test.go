package ai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

type capturedRequest struct {
	Path   string
	Query  string
	Header http.Header
	Body   map[string]any
}

func newFakeProvider(t *testing.T, status int, response string) (*httptest.Server, *capturedRequest) {
	t.Helper()
	got := &capturedRequest{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		got.Path = r.URL.Path
		got.Query = r.URL.RawQuery
		got.Header = r.Header.Clone()
		if err := json.NewDecoder(r.Body).Decode(&got.Body); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(response))
	}))
	t.Cleanup(srv.Close)
	return srv, got
}

func TestClient_OpenAI(t *testing.T) {
	t.Parallel()

	srv, got := newFakeProvider(t, http.StatusOK, `{"choices":[{"message":{"role":"assistant","content":"- Title: A"}}]}`)
	c := &Client{Provider: ProviderOpenAI, APIKey: "sk-test", BaseURL: srv.URL}

	text, err := c.Complete(context.Background(), CompletionRequest{
		System:      "sys",
		Prompt:      "make a playlist",
		Temperature: 0.7,
		MaxTokens:   1000,
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if text != "- Title: A" {
		t.Fatalf("text=%q", text)
	}
	if got.Path != "/v1/chat/completions" {
		t.Fatalf("path=%q", got.Path)
	}
	if got.Header.Get("Authorization") != "Bearer sk-test" {
		t.Fatalf("auth=%q", got.Header.Get("Authorization"))
	}
	if got.Body["model"] != "gpt-4" {
		t.Fatalf("expected default model, got %v", got.Body["model"])
	}
	if got.Body["temperature"] != 0.7 || got.Body["max_tokens"] != float64(1000) {
		t.Fatalf("sampling params not sent: %v", got.Body)
	}
	msgs, _ := got.Body["messages"].([]any)
	if len(msgs) != 2 {
		t.Fatalf("expected system+user messages, got %v", got.Body["messages"])
	}
	user, _ := msgs[1].(map[string]any)
	if user["role"] != "user" || user["content"] != "make a playlist" {
		t.Fatalf("user message mismatch: %v", user)
	}
}

func TestClient_Claude(t *testing.T) {
	t.Parallel()

	srv, got := newFakeProvider(t, http.StatusOK, `{"content":[{"type":"text","text":"{\"songs\":[]}"}]}`)
	c := &Client{Provider: ProviderClaude, APIKey: "ak", BaseURL: srv.URL + "/"}

	text, err := c.Complete(context.Background(), CompletionRequest{System: "sys", Prompt: "p", Model: "claude-x", MaxTokens: 512})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if text != `{"songs":[]}` {
		t.Fatalf("text=%q", text)
	}
	if got.Path != "/v1/messages" {
		t.Fatalf("path=%q", got.Path)
	}
	if got.Header.Get("x-api-key") != "ak" || got.Header.Get("anthropic-version") == "" {
		t.Fatalf("missing claude headers: %v", got.Header)
	}
	if got.Body["system"] != "sys" || got.Body["model"] != "claude-x" {
		t.Fatalf("body mismatch: %v", got.Body)
	}
}

func TestClient_Gemini(t *testing.T) {
	t.Parallel()

	srv, got := newFakeProvider(t, http.StatusOK, `{"candidates":[{"content":{"parts":[{"text":"hello"}]}}]}`)
	c := &Client{Provider: ProviderGemini, APIKey: "g key", BaseURL: srv.URL}

	text, err := c.Complete(context.Background(), CompletionRequest{Prompt: "p", Temperature: 0.6})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if text != "hello" {
		t.Fatalf("text=%q", text)
	}
	if !strings.HasPrefix(got.Path, "/v1beta/models/gemini-3-flash-preview:generateContent") {
		t.Fatalf("path=%q", got.Path)
	}
	if got.Query != "" {
		t.Fatalf("api key leaked into the query string: %q", got.Query)
	}
	if got.Header.Get("x-goog-api-key") != "g key" {
		t.Fatalf("x-goog-api-key=%q", got.Header.Get("x-goog-api-key"))
	}
	if _, ok := got.Body["systemInstruction"]; ok {
		t.Fatalf("system instruction should be omitted when empty")
	}
	cfg, _ := got.Body["generationConfig"].(map[string]any)
	if cfg["temperature"] != 0.6 || cfg["maxOutputTokens"] != float64(2048) {
		t.Fatalf("generationConfig mismatch: %v", cfg)
	}
}

func TestClient_Grok(t *testing.T) {
	t.Parallel()

	srv, got := newFakeProvider(t, http.StatusOK, `{"choices":[{"message":{"content":"ok"}}]}`)
	c := &Client{Provider: ProviderGrok, APIKey: "xk", BaseURL: srv.URL}

	if _, err := c.Complete(context.Background(), CompletionRequest{Prompt: "p"}); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if got.Body["model"] != "grok-4-1-fast-reasoning" {
		t.Fatalf("model=%v", got.Body["model"])
	}
	msgs, _ := got.Body["messages"].([]any)
	if len(msgs) != 1 {
		t.Fatalf("expected only the user message, got %v", msgs)
	}
}

func TestClient_FailuresAreGeneric(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		status   int
		response string
	}{
		{"unauthorized", http.StatusUnauthorized, `{"error":{"message":"bad key"}}`},
		{"rate limited", http.StatusTooManyRequests, `{"error":{"message":"slow down"}}`},
		{"server error", http.StatusInternalServerError, `oops`},
		{"undecodable", http.StatusOK, `not json`},
		{"no choices", http.StatusOK, `{"choices":[]}`},
		{"empty reply", http.StatusOK, `{"choices":[{"message":{"content":"   "}}]}`},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			srv, _ := newFakeProvider(t, tc.status, tc.response)
			c := &Client{Provider: ProviderOpenAI, APIKey: "k", BaseURL: srv.URL}
			_, err := c.Complete(context.Background(), CompletionRequest{Prompt: "p"})
			if !errors.Is(err, ErrGenerationFailed) {
				t.Fatalf("expected ErrGenerationFailed, got %v", err)
			}
		})
	}
}

func TestClient_NetworkError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	c := &Client{Provider: ProviderOpenAI, APIKey: "k", BaseURL: url}
	if _, err := c.Complete(context.Background(), CompletionRequest{Prompt: "p"}); !errors.Is(err, ErrGenerationFailed) {
		t.Fatalf("expected ErrGenerationFailed, got %v", err)
	}
}

func TestClient_UnknownProvider(t *testing.T) {
	t.Parallel()

	c := &Client{Provider: Provider("llama"), APIKey: "k"}
	_, err := c.Complete(context.Background(), CompletionRequest{Prompt: "p"})
	if !errors.Is(err, ErrGenerationFailed) {
		t.Fatalf("expected ErrGenerationFailed, got %v", err)
	}
}

func TestClient_MissingKey(t *testing.T) {
	t.Parallel()

	c := NewClient(ProviderClaude, "")
	_, err := c.Complete(context.Background(), CompletionRequest{Prompt: "p"})
	if !errors.Is(err, ErrMissingAPIKey) {
		t.Fatalf("expected ErrMissingAPIKey, got %v", err)
	}
}

func TestParseProvider(t *testing.T) {
	t.Parallel()

	cases := map[string]Provider{
		"":          ProviderOpenAI,
		"OpenAI":    ProviderOpenAI,
		"anthropic": ProviderClaude,
		"google":    ProviderGemini,
		"xai":       ProviderGrok,
	}
	for in, want := range cases {
		got, err := ParseProvider(in)
		if err != nil || got != want {
			t.Fatalf("ParseProvider(%q)=%q,%v want %q", in, got, err, want)
		}
	}
	if _, err := ParseProvider("llama"); err == nil {
		t.Fatalf("expected error for unknown provider")
	}
}
