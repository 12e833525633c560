// Package handler contains the HTTP handlers for the document analysis API.
// Handlers depend on narrow interfaces so tests can drive them with fakes.
package handler

import (
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/kiranshivaraju/docsense/internal/api/response"
	"github.com/kiranshivaraju/docsense/pkg/models"
)

// maxUploadBytes caps uploaded documents at 10MB.
const maxUploadBytes = 10 << 20

// DocumentStore persists the raw uploaded document.
type DocumentStore interface {
	Save(id uuid.UUID, ext string, r io.Reader) (string, error)
}

// JobRegistry is the slice of the job registry the handlers need.
type JobRegistry interface {
	Create(id uuid.UUID, fileName, filePath string) *models.Job
	Get(id uuid.UUID) (*models.Job, error)
}

type uploadResponse struct {
	JobID        uuid.UUID `json:"job_id"`
	DocumentName string    `json:"document_name"`
	Status       string    `json:"status"`
	Message      string    `json:"message"`
}

// NewUploadHandler returns the handler for POST /api/v1/documents. It accepts
// a multipart form with a single "file" field, stores the document, and
// registers a job in the uploaded state.
func NewUploadHandler(registry JobRegistry, store DocumentStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes+4096)

		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				response.Error(w, http.StatusBadRequest, "FILE_TOO_LARGE",
					"File exceeds 10MB limit.", nil)
				return
			}
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST",
				"Expected a multipart form with a file field", nil)
			return
		}

		file, header, err := r.FormFile("file")
		if err != nil {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST",
				"file is required", nil)
			return
		}
		defer file.Close()

		if header.Size > maxUploadBytes {
			response.Error(w, http.StatusBadRequest, "FILE_TOO_LARGE",
				"File exceeds 10MB limit.", nil)
			return
		}

		contentType := header.Header.Get("Content-Type")
		ext := strings.ToLower(filepath.Ext(header.Filename))
		if !allowedDocument(contentType, ext) {
			response.Error(w, http.StatusBadRequest, "UNSUPPORTED_FILE_TYPE",
				"Only PDF and TXT files are supported.", nil)
			return
		}
		if ext == "" {
			ext = guessExtension(contentType)
		}

		id := uuid.New()
		path, err := store.Save(id, ext, file)
		if err != nil {
			response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR",
				"Failed to store the uploaded document", nil)
			return
		}

		job := registry.Create(id, header.Filename, path)

		response.Created(w, uploadResponse{
			JobID:        job.ID,
			DocumentName: job.FileName,
			Status:       job.Status,
			Message:      "Document uploaded successfully. Use /analyze to start processing.",
		})
	}
}

func allowedDocument(contentType, ext string) bool {
	if contentType == "application/pdf" || contentType == "text/plain" {
		return true
	}
	return ext == ".pdf" || ext == ".txt"
}

func guessExtension(contentType string) string {
	if contentType == "application/pdf" {
		return ".pdf"
	}
	return ".txt"
}
