package ai

import (
	"fmt"
	"strings"
)

type Provider string

const (
	ProviderOpenAI Provider = "openai"
	ProviderClaude Provider = "claude"
	ProviderGemini Provider = "gemini"
	ProviderGrok   Provider = "grok"
)

var defaultModels = map[Provider]string{
	ProviderOpenAI: "gpt-4",
	ProviderClaude: "claude-sonnet-4-5",
	ProviderGemini: "gemini-3-flash-preview",
	ProviderGrok:   "grok-4-1-fast-reasoning",
}

func ProviderNames() []string {
	return []string{string(ProviderOpenAI), string(ProviderClaude), string(ProviderGemini), string(ProviderGrok)}
}

func ParseProvider(s string) (Provider, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "openai", "gpt", "":
		return ProviderOpenAI, nil
	case "claude", "anthropic":
		return ProviderClaude, nil
	case "gemini", "google":
		return ProviderGemini, nil
	case "grok", "xai":
		return ProviderGrok, nil
	default:
		return "", fmt.Errorf("provider must be one of: %s", strings.Join(ProviderNames(), ", "))
	}
}

func DefaultModel(p Provider) string {
	if m, ok := defaultModels[p]; ok {
		return m
	}
	return defaultModels[ProviderOpenAI]
}
