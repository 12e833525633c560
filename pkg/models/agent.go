// Package models contains shared data models used across the docsense codebase.
package models

import "context"

// Agent names double as keys in the merged results map. Merge order is fixed
// to the order the orchestrator is configured with: summary, entities, sentiment.
const (
	AgentSummary   = "summary"
	AgentEntities  = "entities"
	AgentSentiment = "sentiment"
)

// Agent is the interface every analysis agent implements. Run takes the
// extracted document text and returns the agent's typed payload. The
// orchestration core never interprets the payload; it only merges it.
// Whether an agent is LLM-backed or purely heuristic is decided once at
// construction, never per call.
type Agent interface {
	// Name returns the agent identifier ("summary", "entities", "sentiment").
	Name() string
	// Run analyzes the document text and returns the agent-specific payload.
	Run(ctx context.Context, documentText string) (any, error)
}
