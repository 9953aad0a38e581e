// Package ingest runs upload batches through extraction and commits them to
// sessions atomically. A batch either produces a document record for every
// file or produces nothing and reports the first failure.
package ingest

import (
	"sync"
	"time"

	"github.com/docsight/docsight/internal/extractor"
	"github.com/docsight/docsight/internal/format"
)

// Status of a batch job.
type Status string

const (
	StatusQueued     Status = "queued"
	StatusExtracting Status = "extracting"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// Job tracks one upload batch through the pipeline.
type Job struct {
	mu sync.Mutex

	ID string
	// SessionID is the target session; empty means a new session is created
	// when the batch commits.
	SessionID string

	Files []extractor.File

	Status    Status
	CreatedAt time.Time
	UpdatedAt time.Time

	// Set on completion.
	ResultSessionID string
	DocumentIDs     []string

	// Set on failure: which file broke the batch and why.
	FailedFile string
	FailedKind format.Kind
	Err        string
}

func (j *Job) SetStatus(status Status) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Status = status
	j.UpdatedAt = time.Now()
}

func (j *Job) SetFailed(file string, kind format.Kind, err error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Status = StatusFailed
	j.FailedFile = file
	j.FailedKind = kind
	j.Err = err.Error()
	j.UpdatedAt = time.Now()
}

func (j *Job) SetCompleted(sessionID string, docIDs []string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Status = StatusCompleted
	j.ResultSessionID = sessionID
	j.DocumentIDs = docIDs
	j.UpdatedAt = time.Now()
}

// Snapshot is a read-only, JSON-safe copy of job state.
type Snapshot struct {
	ID          string      `json:"job_id"`
	SessionID   string      `json:"session_id,omitempty"`
	Status      Status      `json:"status"`
	FileCount   int         `json:"file_count"`
	DocumentIDs []string    `json:"document_ids,omitempty"`
	FailedFile  string      `json:"failed_file,omitempty"`
	FailedKind  format.Kind `json:"failed_format_kind,omitempty"`
	Error       string      `json:"error,omitempty"`
}

func (j *Job) Snapshot() Snapshot {
	j.mu.Lock()
	defer j.mu.Unlock()
	snap := Snapshot{
		ID:          j.ID,
		Status:      j.Status,
		FileCount:   len(j.Files),
		DocumentIDs: j.DocumentIDs,
		FailedFile:  j.FailedFile,
		FailedKind:  j.FailedKind,
		Error:       j.Err,
	}
	if j.Status == StatusCompleted {
		snap.SessionID = j.ResultSessionID
	} else {
		snap.SessionID = j.SessionID
	}
	return snap
}

// JobStore is a thread-safe in-memory job registry with TTL eviction.
type JobStore struct {
	mu   sync.Mutex
	jobs map[string]*Job
	ttl  time.Duration
}

func NewJobStore(ttl time.Duration) *JobStore {
	return &JobStore{
		jobs: make(map[string]*Job),
		ttl:  ttl,
	}
}

func (s *JobStore) Put(job *Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.ID] = job
}

func (s *JobStore) Get(id string) *Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.jobs[id]
}

// Cleanup removes expired jobs.
func (s *JobStore) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for id, job := range s.jobs {
		job.mu.Lock()
		expired := now.Sub(job.UpdatedAt) > s.ttl
		job.mu.Unlock()
		if expired {
			delete(s.jobs, id)
		}
	}
}
