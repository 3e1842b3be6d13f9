package ai

import "context"

const xAIBaseURL = "https://api.x.ai"

func completeGrok(ctx context.Context, c *Client, req CompletionRequest) (string, error) {
	return chatCompletion(ctx, c, c.endpoint(xAIBaseURL, "/v1/chat/completions"), req)
}
