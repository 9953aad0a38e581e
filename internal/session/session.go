// Package session owns the ordered document list and message transcript of
// one chat, and persists snapshots of both. Raw file bytes are never part of
// a snapshot; a reloaded session navigates by text offsets only.
package session

import (
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/docsight/docsight/internal/document"
)

// Message is one transcript entry.
type Message struct {
	Role      string    `json:"role"` // "user" or "assistant"
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// Session is an ordered list of documents plus the running transcript.
// Created on the first successful ingestion batch, destroyed on explicit
// deletion. The store hands the same instance to every caller, so mutable
// state is guarded by mu; readers take a View instead of touching the slices
// directly.
type Session struct {
	mu sync.Mutex

	ID        string
	Title     string
	CreatedAt time.Time
	UpdatedAt time.Time
	Documents []*document.Record
	Messages  []Message
}

// View is a read-only copy of session state, safe to use without holding the
// session lock. Document records are shared pointers; a record is immutable
// once committed.
type View struct {
	ID        string
	Title     string
	CreatedAt time.Time
	UpdatedAt time.Time
	Documents []*document.Record
	Messages  []Message
}

// NewID returns a fresh session or document identifier.
func NewID() string {
	return ulid.Make().String()
}

// New creates a session around the first committed batch. The title is the
// first document's name.
func New(docs []*document.Record) *Session {
	now := time.Now().UTC()
	s := &Session{
		ID:        NewID(),
		CreatedAt: now,
		UpdatedAt: now,
		Documents: docs,
	}
	if len(docs) > 0 {
		s.Title = docs[0].Name
	}
	return s
}

// View returns a point-in-time copy of the session.
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()

	docs := make([]*document.Record, len(s.Documents))
	copy(docs, s.Documents)
	msgs := make([]Message, len(s.Messages))
	copy(msgs, s.Messages)

	return View{
		ID:        s.ID,
		Title:     s.Title,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
		Documents: docs,
		Messages:  msgs,
	}
}

// Document finds a document by ID, or nil.
func (s *Session) Document(id string) *document.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, d := range s.Documents {
		if d.ID == id {
			return d
		}
	}
	return nil
}

// Append adds a transcript entry and touches the session.
func (s *Session) Append(role, content string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now().UTC()
	s.Messages = append(s.Messages, Message{Role: role, Content: content, CreatedAt: now})
	s.UpdatedAt = now
}

// AddDocuments commits a later batch into the session.
func (s *Session) AddDocuments(docs []*document.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Documents = append(s.Documents, docs...)
	s.UpdatedAt = time.Now().UTC()
}

// LatestAnswer returns the most recent assistant message, if any.
func (s *Session) LatestAnswer() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(s.Messages) - 1; i >= 0; i-- {
		if s.Messages[i].Role == "assistant" {
			return s.Messages[i].Content, true
		}
	}
	return "", false
}
