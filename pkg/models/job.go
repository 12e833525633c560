package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	JobStatusUploaded   = "uploaded"
	JobStatusProcessing = "processing"
	JobStatusCompleted  = "completed"
	JobStatusPartial    = "partial"
	JobStatusFailed     = "failed"
)

// Job tracks one document's analysis lifecycle. The API returns a job_id on
// POST /api/v1/documents; POST /api/v1/analyze moves the job to processing and
// the client polls GET /api/v1/results/{job_id} until a terminal status.
//
// Status only moves forward: uploaded -> processing -> completed|partial|failed.
// Results holds one entry per agent once the job is terminal and is empty before.
type Job struct {
	ID                  uuid.UUID                 `json:"job_id"`
	FileName            string                    `json:"document_name"`
	FilePath            string                    `json:"-"`
	Status              string                    `json:"status"`
	Results             map[string]map[string]any `json:"results"`
	StartedAt           *time.Time                `json:"started_at,omitempty"`
	FinishedAt          *time.Time                `json:"finished_at,omitempty"`
	TotalProcessingTime *float64                  `json:"total_processing_time_seconds,omitempty"`
	AgentsCompleted     int                       `json:"agents_completed"`
	AgentsFailed        int                       `json:"agents_failed"`
	Warning             *string                   `json:"warning,omitempty"`
	CreatedAt           time.Time                 `json:"created_at"`
}

// Terminal reports whether the status admits no further transitions.
func (j *Job) Terminal() bool {
	return j.Status == JobStatusCompleted || j.Status == JobStatusPartial || j.Status == JobStatusFailed
}
