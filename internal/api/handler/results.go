package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/kiranshivaraju/docsense/internal/api/response"
	"github.com/kiranshivaraju/docsense/internal/jobs"
)

// NewResultsHandler returns the handler for GET /api/v1/results/{jobID}.
// The response is a snapshot of the job: pre-terminal polls see the current
// status with empty results, terminal polls see the full merged results.
func NewResultsHandler(registry JobRegistry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		jobID, err := uuid.Parse(chi.URLParam(r, "jobID"))
		if err != nil {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST",
				"jobID must be a valid UUID", nil)
			return
		}

		job, err := registry.Get(jobID)
		if err != nil {
			if errors.Is(err, jobs.ErrNotFound) {
				response.Error(w, http.StatusNotFound, "JOB_NOT_FOUND",
					"Unknown job_id.", nil)
				return
			}
			response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR",
				"Failed to load job", nil)
			return
		}

		response.JSON(w, job)
	}
}
