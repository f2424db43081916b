package llm

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"marketevents/internal/config"
)

// DefaultDeepSeekBaseURL serves the OpenAI-compatible providers when no base
// URL is configured.
const DefaultDeepSeekBaseURL = "https://api.deepseek.com"

// providerBaseURL applies the DeepSeek endpoint to the OpenAI-compatible
// providers only. Other providers keep their SDK default unless a base URL
// is set.
func providerBaseURL(provider, baseURL string) string {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" && (provider == "openai" || provider == "deepseek") {
		return DefaultDeepSeekBaseURL
	}
	return baseURL
}

// NewClient builds the configured provider and wraps it with the retry policy.
func NewClient(ctx context.Context, cfg config.LLMConfig, retry config.RetryConfig, logger *zap.Logger) (*Client, error) {
	provider := strings.ToLower(strings.TrimSpace(cfg.Provider))
	if provider == "" {
		provider = "openai"
	}
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("llm api key is empty (set llm.api_key or MEV_LLM_API_KEY)")
	}

	baseURL := providerBaseURL(provider, cfg.BaseURL)
	var completer Completer
	switch provider {
	case "openai", "deepseek":
		completer = NewOpenAIProvider(cfg.APIKey, baseURL)
	case "anthropic", "claude":
		completer = NewAnthropicProvider(cfg.APIKey, baseURL)
	case "gemini":
		p, err := NewGeminiProvider(ctx, cfg.APIKey)
		if err != nil {
			return nil, fmt.Errorf("init gemini client: %w", err)
		}
		completer = p
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}

	return &Client{
		Completer:   completer,
		Provider:    provider,
		Model:       cfg.Model,
		Temperature: cfg.Temperature,
		MaxTokens:   cfg.MaxTokens,
		Timeout:     cfg.Timeout,
		Logger:      logger,
		Retrier: &Retrier{
			MaxAttempts: retry.MaxAttempts,
			BaseDelay:   retry.BaseDelay,
			Logger:      logger,
		},
	}, nil
}
