package ai

import (
	"context"
	"encoding/json"
	"errors"
)

const openAIBaseURL = "https://api.openai.com"

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

func completeOpenAI(ctx context.Context, c *Client, req CompletionRequest) (string, error) {
	return chatCompletion(ctx, c, c.endpoint(openAIBaseURL, "/v1/chat/completions"), req)
}

// chatCompletion speaks the OpenAI-compatible chat completions dialect.
func chatCompletion(ctx context.Context, c *Client, url string, req CompletionRequest) (string, error) {
	messages := []chatMessage{}
	if req.System != "" {
		messages = append(messages, chatMessage{Role: "system", Content: req.System})
	}
	messages = append(messages, chatMessage{Role: "user", Content: req.Prompt})

	body, err := c.postJSON(ctx, url, map[string]string{"Authorization": "Bearer " + c.APIKey}, chatRequest{
		Model:       req.Model,
		Messages:    messages,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	})
	if err != nil {
		return "", err
	}

	var data chatResponse
	if err := json.Unmarshal(body, &data); err != nil {
		return "", err
	}
	if len(data.Choices) == 0 {
		return "", errors.New("no choices in response")
	}
	return data.Choices[0].Message.Content, nil
}
