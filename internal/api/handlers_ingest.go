package api

import (
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/docsight/docsight/internal/extractor"
	"github.com/docsight/docsight/internal/ingest"
	"github.com/docsight/docsight/internal/session"
)

// handleIngest accepts an upload batch (multipart field "files", one or
// more) and queues it as one all-or-nothing job. An optional session_id
// field targets an existing session; otherwise the batch creates one.
func (s *Server) handleIngest(w http.ResponseWriter, r *http.Request) {
	maxBody := s.cfg.MaxUploadBytes*int64(s.cfg.MaxBatchFiles) + 10*1024*1024
	r.Body = http.MaxBytesReader(w, r.Body, maxBody)

	if err := r.ParseMultipartForm(64 << 20); err != nil {
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	fileHeaders := r.MultipartForm.File["files"]
	if len(fileHeaders) == 0 {
		jsonError(w, "at least one file is required", http.StatusBadRequest)
		return
	}
	if len(fileHeaders) > s.cfg.MaxBatchFiles {
		jsonError(w, fmt.Sprintf("too many files in batch (max %d)", s.cfg.MaxBatchFiles), http.StatusBadRequest)
		return
	}

	sessionID := r.FormValue("session_id")
	if sessionID != "" {
		if _, err := s.sessions.Get(sessionID); err != nil {
			jsonError(w, "target session not found", http.StatusNotFound)
			return
		}
	}

	files := make([]extractor.File, 0, len(fileHeaders))
	for _, fh := range fileHeaders {
		f, err := fh.Open()
		if err != nil {
			jsonError(w, "failed to open upload: "+err.Error(), http.StatusBadRequest)
			return
		}
		data, err := io.ReadAll(io.LimitReader(f, s.cfg.MaxUploadBytes+1))
		f.Close()
		if err != nil {
			jsonError(w, "failed to read upload", http.StatusInternalServerError)
			return
		}
		if int64(len(data)) > s.cfg.MaxUploadBytes {
			jsonError(w, fmt.Sprintf("file %q exceeds max size (%d bytes)", fh.Filename, s.cfg.MaxUploadBytes), http.StatusRequestEntityTooLarge)
			return
		}
		files = append(files, extractor.File{
			Name:      sanitizeFilename(fh.Filename),
			MediaType: fh.Header.Get("Content-Type"),
			Data:      data,
		})
	}

	now := time.Now()
	job := &ingest.Job{
		ID:        session.NewID(),
		SessionID: sessionID,
		Files:     files,
		Status:    ingest.StatusQueued,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.orchestrator.Submit(job); err != nil {
		jsonError(w, err.Error(), http.StatusServiceUnavailable)
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]any{
		"job_id":   job.ID,
		"status":   job.Status,
		"files":    len(files),
		"poll_url": fmt.Sprintf("/api/ingest/%s/status", job.ID),
	})
}

func (s *Server) handleIngestStatus(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")
	job := s.orchestrator.GetJob(jobID)
	if job == nil {
		jsonError(w, "job not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, job.Snapshot())
}

// sanitizeFilename keeps only the base name and strips path separators.
func sanitizeFilename(name string) string {
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, "..", "")
	if name == "" || name == "." || name == "/" {
		name = "upload"
	}
	return name
}
