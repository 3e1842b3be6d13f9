package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/cabobadilla/AIMusicAgent/internal/ai"
)

const (
	defaultTemperature = 0.7
	defaultMaxTokens   = 2048
)

type Config struct {
	OpenAIAPIKey    string
	AnthropicAPIKey string
	GoogleAPIKey    string
	XAIAPIKey       string

	DefaultProvider ai.Provider
	Model           string
	BaseURL         string
	Temperature     float64
	MaxTokens       int
	Format          ai.OutputFormat
	FlushPolicy     ai.FlushPolicy
}

type fileConfig struct {
	DefaultProvider string   `json:"defaultProvider"`
	Model           string   `json:"model"`
	BaseURL         string   `json:"baseUrl"`
	Temperature     *float64 `json:"temperature"`
	MaxTokens       int      `json:"maxTokens"`
	Format          string   `json:"format"`
	FlushPolicy     string   `json:"flushPolicy"`
}

func init() {
	_ = godotenv.Load()
}

// Load reads credentials and defaults once: environment first, then the
// user's config file, then built-in defaults.
func Load() Config {
	return loadFrom(defaultConfigPath())
}

func loadFrom(path string) Config {
	fc := loadFileConfig(path)

	provider, err := ai.ParseProvider(firstNonEmpty(os.Getenv("MUSIC_AGENT_PROVIDER"), fc.DefaultProvider))
	if err != nil {
		provider = ai.ProviderOpenAI
	}

	temperature := defaultTemperature
	if fc.Temperature != nil {
		temperature = *fc.Temperature
	}
	if v, err := strconv.ParseFloat(os.Getenv("MUSIC_AGENT_TEMPERATURE"), 64); err == nil {
		temperature = v
	}

	maxTokens := fc.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}

	format, err := ai.ParseOutputFormat(fc.Format)
	if err != nil {
		format = ai.FormatJSON
	}
	flush, err := ai.ParseFlushPolicy(fc.FlushPolicy)
	if err != nil {
		flush = ai.FlushOnNextTitle
	}

	return Config{
		OpenAIAPIKey:    os.Getenv("OPENAI_API_KEY"),
		AnthropicAPIKey: os.Getenv("ANTHROPIC_API_KEY"),
		GoogleAPIKey:    os.Getenv("GOOGLE_API_KEY"),
		XAIAPIKey:       firstNonEmpty(os.Getenv("XAI_API_KEY"), os.Getenv("GROK_API_KEY")),
		DefaultProvider: provider,
		Model:           firstNonEmpty(os.Getenv("MUSIC_AGENT_MODEL"), fc.Model),
		BaseURL:         firstNonEmpty(os.Getenv("MUSIC_AGENT_BASE_URL"), fc.BaseURL),
		Temperature:     temperature,
		MaxTokens:       maxTokens,
		Format:          format,
		FlushPolicy:     flush,
	}
}

// APIKey returns the credential for a provider, empty when none is set.
func (c Config) APIKey(p ai.Provider) string {
	switch p {
	case ai.ProviderClaude:
		return c.AnthropicAPIKey
	case ai.ProviderGemini:
		return c.GoogleAPIKey
	case ai.ProviderGrok:
		return c.XAIAPIKey
	default:
		return c.OpenAIAPIKey
	}
}

func KeyEnvVar(p ai.Provider) string {
	switch p {
	case ai.ProviderClaude:
		return "ANTHROPIC_API_KEY"
	case ai.ProviderGemini:
		return "GOOGLE_API_KEY"
	case ai.ProviderGrok:
		return "XAI_API_KEY"
	default:
		return "OPENAI_API_KEY"
	}
}

func defaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "music-agent", "config.json")
}

func loadFileConfig(path string) fileConfig {
	if path == "" {
		return fileConfig{}
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return fileConfig{}
	}
	var fc fileConfig
	if err := json.Unmarshal(b, &fc); err != nil {
		return fileConfig{}
	}
	return fc
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
