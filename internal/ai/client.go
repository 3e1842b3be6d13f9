package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

var apiHTTPClient = &http.Client{Timeout: 90 * time.Second}

// Client sends one completion request to the configured provider. It never
// retries; every failure wraps ErrGenerationFailed.
type Client struct {
	Provider   Provider
	APIKey     string
	BaseURL    string
	HTTPClient *http.Client
}

func NewClient(provider Provider, apiKey string) *Client {
	return &Client{Provider: provider, APIKey: apiKey}
}

func (c *Client) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	if strings.TrimSpace(c.APIKey) == "" {
		return "", fmt.Errorf("%w for provider %s", ErrMissingAPIKey, c.Provider)
	}
	if req.Model == "" {
		req.Model = DefaultModel(c.Provider)
	}
	if req.MaxTokens <= 0 {
		req.MaxTokens = 2048
	}

	var (
		text string
		err  error
	)
	switch c.Provider {
	case ProviderOpenAI, "":
		text, err = completeOpenAI(ctx, c, req)
	case ProviderClaude:
		text, err = completeClaude(ctx, c, req)
	case ProviderGemini:
		text, err = completeGemini(ctx, c, req)
	case ProviderGrok:
		text, err = completeGrok(ctx, c, req)
	default:
		return "", fmt.Errorf("%w: unknown provider %q", ErrGenerationFailed, c.Provider)
	}
	if err != nil {
		slog.Debug("ai: completion failed", "provider", c.Provider, "model", req.Model, "err", err)
		return "", fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%w: %s returned an empty reply", ErrGenerationFailed, c.Provider)
	}
	slog.Debug("ai: completion ok", "provider", c.Provider, "model", req.Model, "chars", len(text))
	return text, nil
}

func (c *Client) endpoint(defaultBase, path string) string {
	base := strings.TrimRight(c.BaseURL, "/")
	if base == "" {
		base = defaultBase
	}
	return base + path
}

func (c *Client) postJSON(ctx context.Context, url string, headers map[string]string, payload any) ([]byte, error) {
	buf, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(buf))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	hc := c.HTTPClient
	if hc == nil {
		hc = apiHTTPClient
	}
	resp, err := hc.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%s api error: %d - %s", c.Provider, resp.StatusCode, snippet(body))
	}
	return body, nil
}

func snippet(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > 300 {
		s = s[:300] + "..."
	}
	return s
}
