package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kiranshivaraju/docsense/internal/cache"
	"github.com/kiranshivaraju/docsense/internal/extract"
	"github.com/kiranshivaraju/docsense/internal/jobs"
	"github.com/kiranshivaraju/docsense/pkg/models"
)

// ErrQueueFull is returned by Trigger when the analysis queue cannot accept
// another job. The job is marked failed before Trigger returns, so the
// client sees a terminal state rather than a job stuck in processing.
var ErrQueueFull = errors.New("analysis queue full")

// partialWarning is attached to jobs where some but not all agents succeeded.
const partialWarning = "Partial results available - one or more agents failed."

// statusTTL bounds how long job state lives in the cache.
const statusTTL = 30 * time.Minute

// Service drives job processing: Trigger moves a job to processing and hands
// it to the worker pool; workers extract the document text, run the
// orchestrator, and write the terminal state back to the registry.
type Service struct {
	registry     *jobs.Registry
	orchestrator *Orchestrator
	cache        cache.Cache
	logger       *slog.Logger
	queue        chan uuid.UUID
	wg           sync.WaitGroup
}

// NewService creates the analysis service with a bounded work queue.
func NewService(registry *jobs.Registry, orchestrator *Orchestrator, ca cache.Cache, logger *slog.Logger, queueSize int) *Service {
	return &Service{
		registry:     registry,
		orchestrator: orchestrator,
		cache:        ca,
		logger:       logger,
		queue:        make(chan uuid.UUID, queueSize),
	}
}

// Start launches the worker pool. Workers exit when ctx is cancelled; call
// Wait to block until they have drained.
func (s *Service) Start(ctx context.Context, workers int) {
	for i := 0; i < workers; i++ {
		s.wg.Add(1)
		go func(worker int) {
			defer s.wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case jobID := <-s.queue:
					s.Process(ctx, jobID)
				}
			}
		}(i)
	}
}

// Wait blocks until all workers have exited.
func (s *Service) Wait() {
	s.wg.Wait()
}

// Trigger atomically moves the job from uploaded to processing and enqueues
// it for a worker. Exactly one concurrent caller wins; the rest get the
// registry's state conflict. Returns immediately without waiting for the
// analysis itself.
func (s *Service) Trigger(ctx context.Context, jobID uuid.UUID) error {
	if err := s.registry.StartProcessing(jobID); err != nil {
		return err
	}

	_ = s.cache.SetJobStatus(ctx, jobID, models.JobStatusProcessing, statusTTL)

	select {
	case s.queue <- jobID:
		return nil
	default:
		// The job already transitioned to processing; fail it so it does
		// not hang there forever with no worker coming.
		s.markFailed(ctx, jobID, "Analysis failed: queue full")
		return ErrQueueFull
	}
}

// Process runs the full analysis pipeline for one job. Exported so tests can
// drive it synchronously without the worker pool.
func (s *Service) Process(ctx context.Context, jobID uuid.UUID) {
	job, err := s.registry.Get(jobID)
	if err != nil {
		s.logger.Warn("dequeued unknown job", "job_id", jobID)
		return
	}

	s.logger.Info("analysis started", "job_id", jobID, "document", job.FileName)

	documentText, err := extract.ExtractText(job.FilePath)
	if err != nil {
		s.markFailed(ctx, jobID, fmt.Sprintf("Document parsing failed: %v", err))
		return
	}

	results, outcomes := s.orchestrator.Run(ctx, documentText)

	var completed int
	var total float64
	for _, outcome := range outcomes {
		if outcome.Success {
			completed++
		}
		if outcome.ProcessingTimeSeconds > total {
			total = outcome.ProcessingTimeSeconds
		}
	}
	failed := len(outcomes) - completed

	status := models.JobStatusCompleted
	var warning *string
	if failed > 0 {
		status = models.JobStatusPartial
		w := partialWarning
		warning = &w
	}

	err = s.registry.Finish(jobID, jobs.Completion{
		Status:              status,
		Results:             results,
		TotalProcessingTime: round3(total),
		AgentsCompleted:     completed,
		AgentsFailed:        failed,
		Warning:             warning,
	})
	if err != nil {
		s.logger.Error("finishing job", "job_id", jobID, "error", err)
		return
	}

	s.publishState(ctx, jobID, status, results)
	s.logger.Info("analysis finished",
		"job_id", jobID,
		"status", status,
		"agents_completed", completed,
		"agents_failed", failed,
		"total_processing_time_seconds", round3(total),
	)
}

// markFailed writes the failed terminal state with the same error message in
// every agent slot and zeroed timing.
func (s *Service) markFailed(ctx context.Context, jobID uuid.UUID, message string) {
	slot := func() map[string]any {
		return map[string]any{
			"error":                   message,
			"processing_time_seconds": 0.0,
		}
	}
	results := map[string]map[string]any{
		models.AgentSummary:   slot(),
		models.AgentEntities:  slot(),
		models.AgentSentiment: slot(),
	}

	err := s.registry.Finish(jobID, jobs.Completion{
		Status:              models.JobStatusFailed,
		Results:             results,
		TotalProcessingTime: 0,
		AgentsCompleted:     0,
		AgentsFailed:        len(results),
		Warning:             &message,
	})
	if err != nil {
		s.logger.Error("marking job failed", "job_id", jobID, "error", err)
		return
	}

	s.publishState(ctx, jobID, models.JobStatusFailed, results)
	s.logger.Warn("analysis failed", "job_id", jobID, "reason", message)
}

// publishState mirrors the terminal status and results blob to the cache.
// Cache writes are best-effort; the registry stays the source of truth.
func (s *Service) publishState(ctx context.Context, jobID uuid.UUID, status string, results map[string]map[string]any) {
	if err := s.cache.SetJobStatus(ctx, jobID, status, statusTTL); err != nil {
		s.logger.Warn("caching job status", "job_id", jobID, "error", err)
	}

	blob, err := json.Marshal(results)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, cache.JobResultsKey(jobID), blob, statusTTL); err != nil {
		s.logger.Warn("caching job results", "job_id", jobID, "error", err)
	}
}
