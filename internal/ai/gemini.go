package ai

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
)

const geminiBaseURL = "https://generativelanguage.googleapis.com"

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

func completeGemini(ctx context.Context, c *Client, req CompletionRequest) (string, error) {
	payload := map[string]any{
		"contents": []geminiContent{
			{Role: "user", Parts: []geminiPart{{Text: req.Prompt}}},
		},
		"generationConfig": map[string]any{
			"temperature":     req.Temperature,
			"maxOutputTokens": req.MaxTokens,
		},
	}
	if req.System != "" {
		payload["systemInstruction"] = geminiContent{Parts: []geminiPart{{Text: req.System}}}
	}
	u := c.endpoint(geminiBaseURL, "/v1beta/models/"+url.PathEscape(req.Model)+":generateContent")
	body, err := c.postJSON(ctx, u, map[string]string{"x-goog-api-key": c.APIKey}, payload)
	if err != nil {
		return "", err
	}

	var data struct {
		Candidates []struct {
			Content geminiContent `json:"content"`
		} `json:"candidates"`
	}
	if err := json.Unmarshal(body, &data); err != nil {
		return "", err
	}
	if len(data.Candidates) == 0 || len(data.Candidates[0].Content.Parts) == 0 {
		return "", errors.New("no candidates in response")
	}
	return data.Candidates[0].Content.Parts[0].Text, nil
}
