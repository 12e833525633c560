// Package llm defines the language-model client used by the LLM-backed agent
// strategies and a factory that selects the configured backend at startup.
package llm

import (
	"context"
	"errors"
)

// Sentinel errors for LLM call failures. Agents treat all of these as
// classified errors that trigger the heuristic fallback strategy.
var (
	ErrUnavailable     = errors.New("llm backend unavailable")
	ErrTimeout         = errors.New("llm call timeout")
	ErrInvalidResponse = errors.New("llm backend returned invalid response")
)

// Client is the interface every LLM backend implements. Callers always go
// through this interface rather than a concrete backend.
type Client interface {
	// Complete sends a system prompt plus the user content and returns the
	// raw completion text. Agents parse the text themselves.
	Complete(ctx context.Context, system, user string) (string, error)
	// Name returns the backend identifier (e.g., "groq", "ollama").
	Name() string
	// Model returns the configured model name.
	Model() string
}
