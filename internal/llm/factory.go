package llm

import (
	"context"
	"fmt"
	"strings"

	"homeschool_hub_backend/internal/config"
)

// NewProvider creates a Provider from configuration, wrapped with logging.
// The "mock" provider has no canned responses, so every call falls back.
func NewProvider(ctx context.Context, cfg config.AIConfig) (Provider, error) {
	var base Provider
	var err error

	name := strings.ToLower(strings.TrimSpace(cfg.Provider))
	switch name {
	case "", "openai":
		name = "openai"
		base, err = NewOpenAIProvider(cfg.APIKey, cfg.BaseURL, cfg.Model)
	case "anthropic":
		base, err = NewAnthropicProvider(cfg.APIKey, cfg.BaseURL, cfg.Model)
	case "gemini":
		base, err = NewGeminiProvider(ctx, cfg.APIKey, cfg.BaseURL, cfg.Model)
	case "ollama":
		base, err = NewOllamaProvider(cfg.BaseURL, cfg.Model)
	case "mock":
		base = NewMockProvider()
	default:
		return nil, fmt.Errorf("unknown LLM provider: %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", name, err)
	}

	return WithLogging(base), nil
}
