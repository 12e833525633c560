package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/kiranshivaraju/docsense/internal/analysis"
	"github.com/kiranshivaraju/docsense/internal/api/response"
	"github.com/kiranshivaraju/docsense/internal/jobs"
	"github.com/kiranshivaraju/docsense/pkg/models"
)

// AnalysisTrigger starts asynchronous processing for an uploaded job.
type AnalysisTrigger interface {
	Trigger(ctx context.Context, jobID uuid.UUID) error
}

type analyzeResponse struct {
	JobID   uuid.UUID `json:"job_id"`
	Status  string    `json:"status"`
	Message string    `json:"message"`
}

// NewAnalyzeHandler returns the handler for POST /api/v1/analyze. On success
// the job is queued and the client gets 202 immediately; results arrive via
// the results endpoint.
func NewAnalyzeHandler(svc AnalysisTrigger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			JobID string `json:"job_id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST",
				"Invalid JSON body", nil)
			return
		}
		if req.JobID == "" {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST",
				"job_id is required", nil)
			return
		}
		jobID, err := uuid.Parse(req.JobID)
		if err != nil {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST",
				"job_id must be a valid UUID", nil)
			return
		}

		if err := svc.Trigger(r.Context(), jobID); err != nil {
			var conflict *jobs.StateConflictError
			switch {
			case errors.Is(err, jobs.ErrNotFound):
				response.Error(w, http.StatusNotFound, "JOB_NOT_FOUND",
					"Unknown job_id.", nil)
			case errors.As(err, &conflict):
				if conflict.Current == models.JobStatusProcessing {
					response.Error(w, http.StatusConflict, "ANALYSIS_IN_PROGRESS",
						"Analysis already in progress.", nil)
				} else {
					response.Error(w, http.StatusConflict, "ANALYSIS_ALREADY_COMPLETED",
						"Analysis already completed.", nil)
				}
			case errors.Is(err, analysis.ErrQueueFull):
				response.Error(w, http.StatusServiceUnavailable, "QUEUE_FULL",
					"Analysis queue is full, try again later", nil)
			default:
				response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR",
					"Failed to start analysis", nil)
			}
			return
		}

		response.Accepted(w, analyzeResponse{
			JobID:   jobID,
			Status:  models.JobStatusProcessing,
			Message: "Analysis started. Check /results/{job_id} for updates.",
		})
	}
}
