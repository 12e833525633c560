// Package jobs provides the in-memory job registry that tracks each
// document's analysis lifecycle. The registry is the single writer for job
// state; callers only ever see snapshots.
package jobs

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kiranshivaraju/docsense/pkg/models"
)

// ErrNotFound is returned when no job exists for the given ID.
var ErrNotFound = errors.New("job not found")

// StateConflictError is returned when a transition is requested from a state
// that does not admit it. Current carries the job's status at the time of the
// attempt so the API layer can distinguish in-progress from already-done.
type StateConflictError struct {
	Current string
}

func (e *StateConflictError) Error() string {
	return fmt.Sprintf("job is %s", e.Current)
}

// Completion carries everything a terminal transition writes in one shot.
// Status must be one of completed, partial, or failed.
type Completion struct {
	Status              string
	Results             map[string]map[string]any
	TotalProcessingTime float64
	AgentsCompleted     int
	AgentsFailed        int
	Warning             *string
}

// Registry is a mutex-guarded map of jobs keyed by ID. All methods are safe
// for concurrent use.
type Registry struct {
	mu   sync.RWMutex
	jobs map[uuid.UUID]*models.Job
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{jobs: make(map[uuid.UUID]*models.Job)}
}

// Create registers a new job in the uploaded state and returns a snapshot.
// The caller supplies the ID because the stored document's filename is
// derived from it before the job exists.
func (r *Registry) Create(id uuid.UUID, fileName, filePath string) *models.Job {
	job := &models.Job{
		ID:        id,
		FileName:  fileName,
		FilePath:  filePath,
		Status:    models.JobStatusUploaded,
		Results:   map[string]map[string]any{},
		CreatedAt: time.Now().UTC(),
	}

	r.mu.Lock()
	r.jobs[job.ID] = job
	r.mu.Unlock()

	return snapshot(job)
}

// Get returns a snapshot of the job, or ErrNotFound.
func (r *Registry) Get(id uuid.UUID) (*models.Job, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	job, ok := r.jobs[id]
	if !ok {
		return nil, ErrNotFound
	}
	return snapshot(job), nil
}

// StartProcessing atomically moves the job from uploaded to processing and
// resets the analysis fields. Any other current state returns a
// StateConflictError; the check and the transition happen under one lock so
// concurrent callers cannot both win.
func (r *Registry) StartProcessing(id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	job, ok := r.jobs[id]
	if !ok {
		return ErrNotFound
	}
	if job.Status != models.JobStatusUploaded {
		return &StateConflictError{Current: job.Status}
	}

	now := time.Now().UTC()
	job.Status = models.JobStatusProcessing
	job.StartedAt = &now
	job.FinishedAt = nil
	job.Results = map[string]map[string]any{}
	job.TotalProcessingTime = nil
	job.AgentsCompleted = 0
	job.AgentsFailed = 0
	job.Warning = nil
	return nil
}

// Finish atomically writes the terminal state. Only a processing job can
// finish; anything else is a StateConflictError.
func (r *Registry) Finish(id uuid.UUID, c Completion) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	job, ok := r.jobs[id]
	if !ok {
		return ErrNotFound
	}
	if job.Status != models.JobStatusProcessing {
		return &StateConflictError{Current: job.Status}
	}

	now := time.Now().UTC()
	total := c.TotalProcessingTime
	job.Status = c.Status
	job.Results = c.Results
	job.FinishedAt = &now
	job.TotalProcessingTime = &total
	job.AgentsCompleted = c.AgentsCompleted
	job.AgentsFailed = c.AgentsFailed
	job.Warning = c.Warning
	return nil
}

// snapshot copies the job so callers never share memory with the registry.
// Result maps are copied two levels deep; payload values are never mutated
// after a job finishes, so sharing them is safe.
func snapshot(job *models.Job) *models.Job {
	out := *job

	out.Results = make(map[string]map[string]any, len(job.Results))
	for name, payload := range job.Results {
		inner := make(map[string]any, len(payload))
		for k, v := range payload {
			inner[k] = v
		}
		out.Results[name] = inner
	}

	if job.StartedAt != nil {
		t := *job.StartedAt
		out.StartedAt = &t
	}
	if job.FinishedAt != nil {
		t := *job.FinishedAt
		out.FinishedAt = &t
	}
	if job.TotalProcessingTime != nil {
		f := *job.TotalProcessingTime
		out.TotalProcessingTime = &f
	}
	if job.Warning != nil {
		w := *job.Warning
		out.Warning = &w
	}

	return &out
}
