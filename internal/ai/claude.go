package ai

import (
	"context"
	"encoding/json"
	"errors"
)

const anthropicBaseURL = "https://api.anthropic.com"

func completeClaude(ctx context.Context, c *Client, req CompletionRequest) (string, error) {
	payload := map[string]any{
		"model":       req.Model,
		"max_tokens":  req.MaxTokens,
		"temperature": req.Temperature,
		"messages": []map[string]any{
			{"role": "user", "content": req.Prompt},
		},
	}
	if req.System != "" {
		payload["system"] = req.System
	}
	body, err := c.postJSON(ctx, c.endpoint(anthropicBaseURL, "/v1/messages"), map[string]string{
		"x-api-key":         c.APIKey,
		"anthropic-version": "2023-06-01",
	}, payload)
	if err != nil {
		return "", err
	}

	var data struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	}
	if err := json.Unmarshal(body, &data); err != nil {
		return "", err
	}
	for _, part := range data.Content {
		if part.Type == "text" || part.Type == "" {
			return part.Text, nil
		}
	}
	return "", errors.New("no text content in response")
}
