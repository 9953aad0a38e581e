package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/docsight/docsight/internal/document"
	"github.com/docsight/docsight/internal/extractor"
	"github.com/docsight/docsight/internal/format"
	"github.com/docsight/docsight/internal/session"
)

// Worker extracts one batch and commits it.
type Worker struct {
	extractors extractor.Set
	sessions   *session.Store
	log        *slog.Logger

	maxConcurrentExtract int
}

func NewWorker(extractors extractor.Set, sessions *session.Store, log *slog.Logger, maxExtract int) *Worker {
	if maxExtract <= 0 {
		maxExtract = 1
	}
	return &Worker{
		extractors:           extractors,
		sessions:             sessions,
		log:                  log,
		maxConcurrentExtract: maxExtract,
	}
}

// batchError carries enough context to report which file sank the batch.
type batchError struct {
	file string
	kind format.Kind
	err  error
}

// Process runs extraction for every file in the batch with bounded
// concurrency. Files are independent, so they extract in parallel; within a
// file the adapter works strictly in unit order. First failure wins: the
// remaining extractions are abandoned via context cancellation and no
// document is committed.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID)
	job.SetStatus(StatusExtracting)

	extractCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	type fileResult struct {
		idx    int
		result extractor.Result
		kind   format.Kind
		err    error
	}
	results := make(chan fileResult, len(job.Files))
	sem := make(chan struct{}, w.maxConcurrentExtract)

	for i, f := range job.Files {
		sem <- struct{}{}
		go func(i int, f extractor.File) {
			defer func() { <-sem }()
			kind := format.Classify(f.MediaType, f.Name)
			res, err := w.extractors.ForKind(kind).Extract(extractCtx, f)
			results <- fileResult{idx: i, result: res, kind: kind, err: err}
		}(i, f)
	}

	extracted := make([]extractor.Result, len(job.Files))
	kinds := make([]format.Kind, len(job.Files))
	var firstErr *batchError
	for range job.Files {
		r := <-results
		if r.err != nil {
			// Cancellations of abandoned siblings are a consequence of the
			// first failure, not failures in their own right.
			if errors.Is(r.err, context.Canceled) && firstErr != nil {
				continue
			}
			if firstErr == nil {
				firstErr = &batchError{file: job.Files[r.idx].Name, kind: r.kind, err: r.err}
				cancel()
			}
			continue
		}
		extracted[r.idx] = r.result
		kinds[r.idx] = r.kind
	}

	if firstErr != nil {
		log.Error("batch extraction failed", "file", firstErr.file, "format_kind", firstErr.kind, "error", firstErr.err)
		job.SetFailed(firstErr.file, firstErr.kind, firstErr.err)
		return
	}

	// Build records in upload order. A header-invariant violation here means
	// an adapter bug; it fails the batch the same way extraction does.
	docs := make([]*document.Record, 0, len(job.Files))
	for i, f := range job.Files {
		rec, err := document.New(session.NewID(), f.Name, kinds[i], extracted[i].Text, extracted[i].UnitCount)
		if err != nil {
			log.Error("record construction failed", "file", f.Name, "error", err)
			job.SetFailed(f.Name, kinds[i], err)
			return
		}
		rec.RawBytes = f.Data
		rec.Visual = extracted[i].Visual
		docs = append(docs, rec)
	}

	sessionID, err := w.commit(job.SessionID, docs)
	if err != nil {
		log.Error("batch commit failed", "error", err)
		job.SetFailed("", "", err)
		return
	}

	docIDs := make([]string, len(docs))
	for i, d := range docs {
		docIDs[i] = d.ID
	}
	job.SetCompleted(sessionID, docIDs)
	log.Info("batch completed", "session_id", sessionID, "documents", len(docs))
}

// commit adds the batch to its target session, creating one when the batch
// is the session's first.
func (w *Worker) commit(sessionID string, docs []*document.Record) (string, error) {
	if sessionID == "" {
		s := session.New(docs)
		if err := w.sessions.Save(s); err != nil {
			return "", err
		}
		return s.ID, nil
	}

	s, err := w.sessions.Get(sessionID)
	if err != nil {
		return "", fmt.Errorf("target session: %w", err)
	}
	s.AddDocuments(docs)
	if err := w.sessions.Save(s); err != nil {
		return "", err
	}
	return s.ID, nil
}
