// Package analysis contains the orchestration core: the fan-out that runs
// all agents concurrently against one document, and the service that drives
// job processing end to end.
package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/kiranshivaraju/docsense/pkg/models"
)

// AgentOutcome captures one agent's run: its payload or error, plus the
// wall-clock duration of the attempt. Timeouts and panics land here as
// failures with the elapsed time preserved.
type AgentOutcome struct {
	Name                  string
	Success               bool
	Payload               any
	ProcessingTimeSeconds float64
	Error                 string
}

// Orchestrator runs the configured agents concurrently and merges their
// outcomes into one results map. It never fails as a whole; individual agent
// failures surface as error slots in the merged results.
type Orchestrator struct {
	agents       []models.Agent
	agentTimeout time.Duration
	logger       *slog.Logger
}

// NewOrchestrator creates an orchestrator over the given agents. The slice
// order fixes the merge order of the results map. agentTimeout bounds each
// agent's run individually.
func NewOrchestrator(agents []models.Agent, agentTimeout time.Duration, logger *slog.Logger) *Orchestrator {
	return &Orchestrator{
		agents:       agents,
		agentTimeout: agentTimeout,
		logger:       logger,
	}
}

// Run fans out one goroutine per agent, waits for all of them, and returns
// the merged results keyed by agent name alongside the raw outcomes. Total
// wall time tracks the slowest agent, not the sum.
func (o *Orchestrator) Run(ctx context.Context, documentText string) (map[string]map[string]any, []AgentOutcome) {
	outcomes := make([]AgentOutcome, len(o.agents))

	var wg sync.WaitGroup
	for i, agent := range o.agents {
		wg.Add(1)
		go func(i int, agent models.Agent) {
			defer wg.Done()
			outcomes[i] = o.runTimed(ctx, agent, documentText)
		}(i, agent)
	}
	wg.Wait()

	results := make(map[string]map[string]any, len(outcomes))
	for _, outcome := range outcomes {
		if outcome.Success {
			slot := payloadToMap(outcome.Payload)
			slot["processing_time_seconds"] = outcome.ProcessingTimeSeconds
			results[outcome.Name] = slot
		} else {
			results[outcome.Name] = map[string]any{
				"error":                   outcome.Error,
				"processing_time_seconds": outcome.ProcessingTimeSeconds,
			}
		}
	}

	return results, outcomes
}

// runTimed executes one agent under the per-agent timeout and measures its
// wall-clock duration. A panicking agent is recorded as a failure, never
// allowed to take down the worker.
func (o *Orchestrator) runTimed(ctx context.Context, agent models.Agent, documentText string) (outcome AgentOutcome) {
	agentCtx, cancel := context.WithTimeout(ctx, o.agentTimeout)
	defer cancel()

	start := time.Now()
	outcome.Name = agent.Name()

	defer func() {
		outcome.ProcessingTimeSeconds = round3(time.Since(start).Seconds())
		if r := recover(); r != nil {
			o.logger.Error("agent panicked", "agent", outcome.Name, "panic", r)
			outcome.Success = false
			outcome.Payload = nil
			outcome.Error = fmt.Sprintf("panic: %v", r)
		}
	}()

	payload, err := agent.Run(agentCtx, documentText)
	if err != nil {
		o.logger.Warn("agent failed", "agent", outcome.Name, "error", err)
		outcome.Error = err.Error()
		return outcome
	}

	outcome.Success = true
	outcome.Payload = payload
	return outcome
}

// payloadToMap flattens a typed agent payload into the generic results shape
// via a JSON round-trip, so the merged map serializes exactly like the
// payload would on its own.
func payloadToMap(payload any) map[string]any {
	out := map[string]any{}
	if payload == nil {
		return out
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return out
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return map[string]any{}
	}
	return out
}

func round3(f float64) float64 {
	return math.Round(f*1000) / 1000
}
