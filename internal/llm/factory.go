package llm

import (
	"fmt"

	"github.com/kiranshivaraju/docsense/internal/config"
)

// Groq exposes an OpenAI-compatible chat completions API.
const groqBaseURL = "https://api.groq.com/openai/v1"

// NewClient constructs the configured LLM backend. Called once at server
// startup. Returns (nil, nil) when no provider is configured; agents built
// with a nil client run their heuristic strategy only.
func NewClient(cfg config.LLMConfig) (Client, error) {
	switch cfg.Provider {
	case "":
		return nil, nil
	case "openai":
		return NewOpenAIClient("openai", cfg.OpenAI.BaseURL, cfg.OpenAI.APIKey, cfg.OpenAI.Model, cfg.Timeout), nil
	case "groq":
		return NewOpenAIClient("groq", groqBaseURL, cfg.Groq.APIKey, cfg.Groq.Model, cfg.Timeout), nil
	case "ollama":
		return NewOllamaClient(cfg.Ollama.BaseURL, cfg.Ollama.Model, cfg.Timeout), nil
	default:
		return nil, fmt.Errorf("unknown LLM provider %q: must be one of openai, groq, ollama", cfg.Provider)
	}
}
