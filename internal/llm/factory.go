package llm

import (
	"fmt"
	"strings"

	"sparkacademy/internal/config"
	"sparkacademy/internal/llm/ollama"
	"sparkacademy/internal/llm/openai"
	"sparkacademy/internal/logger"
)

type Provider string

const (
	ProviderNone   Provider = "none"
	ProviderOllama Provider = "ollama"
	ProviderOpenAI Provider = "openai"
)

// NewLLMClient creates a new LLM client based on the configuration. It
// returns a nil client when the AI helper is disabled.
func NewLLMClient(cfg config.AIConfig, log *logger.Logger) (LLM, error) {
	switch Provider(strings.ToLower(cfg.Provider)) {
	case ProviderNone, "":
		return nil, nil
	case ProviderOllama:
		return ollama.NewClient(cfg, log)
	case ProviderOpenAI:
		return openai.NewClient(cfg, log)
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.Provider)
	}
}
