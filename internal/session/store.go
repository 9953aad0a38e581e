package session

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/docsight/docsight/internal/document"
)

// ErrNotFound means no session exists under the given ID.
var ErrNotFound = errors.New("session not found")

// snapshotJSON is the persisted wire form of a session. It carries no lock,
// so a View converts to it directly.
type snapshotJSON struct {
	ID        string             `json:"id"`
	Title     string             `json:"title"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt time.Time          `json:"updated_at"`
	Documents []*document.Record `json:"documents"`
	Messages  []Message          `json:"messages"`
}

// Store persists session snapshots as JSON text in SQLite and keeps live
// sessions (including their in-memory raw bytes) cached for the process
// lifetime. Snapshots deliberately exclude raw file bytes, so sessions
// loaded after a restart degrade to text-only navigation.
type Store struct {
	db *sql.DB

	mu   sync.Mutex
	live map[string]*Session
}

// Open initializes the store at baseDir/docsight.db.
func Open(baseDir string) (*Store, error) {
	if err := os.MkdirAll(baseDir, 0o700); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	dbPath := filepath.Join(baseDir, "docsight.db")
	dsn := dbPath + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	const schema = `
CREATE TABLE IF NOT EXISTS sessions (
	id         TEXT PRIMARY KEY,
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL,
	snapshot   TEXT NOT NULL
);`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &Store{db: db, live: make(map[string]*Session)}, nil
}

func (st *Store) Close() error {
	return st.db.Close()
}

// Save upserts the session's snapshot and caches the live instance. The
// snapshot is taken under the session's lock, so a concurrent Append cannot
// tear the marshaled state.
func (st *Store) Save(s *Session) error {
	v := s.View()
	snapshot, err := json.Marshal(snapshotJSON(v))
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	_, err = st.db.Exec(`
INSERT INTO sessions (id, created_at, updated_at, snapshot) VALUES (?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET updated_at = excluded.updated_at, snapshot = excluded.snapshot`,
		v.ID, v.CreatedAt.Format(time.RFC3339Nano), v.UpdatedAt.Format(time.RFC3339Nano), string(snapshot))
	if err != nil {
		return fmt.Errorf("save session %s: %w", v.ID, err)
	}

	st.mu.Lock()
	st.live[v.ID] = s
	st.mu.Unlock()
	return nil
}

// Get returns the live session if this process created it, otherwise loads
// the snapshot from disk (without raw bytes) and caches it.
func (st *Store) Get(id string) (*Session, error) {
	st.mu.Lock()
	if s, ok := st.live[id]; ok {
		st.mu.Unlock()
		return s, nil
	}
	st.mu.Unlock()

	var snapshot string
	err := st.db.QueryRow(`SELECT snapshot FROM sessions WHERE id = ?`, id).Scan(&snapshot)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load session %s: %w", id, err)
	}

	var snap snapshotJSON
	if err := json.Unmarshal([]byte(snapshot), &snap); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", id, err)
	}
	s := &Session{
		ID:        snap.ID,
		Title:     snap.Title,
		CreatedAt: snap.CreatedAt,
		UpdatedAt: snap.UpdatedAt,
		Documents: snap.Documents,
		Messages:  snap.Messages,
	}

	st.mu.Lock()
	// Another goroutine may have loaded it first; keep whichever instance won
	// so all callers share one lock.
	if cached, ok := st.live[s.ID]; ok {
		st.mu.Unlock()
		return cached, nil
	}
	st.live[s.ID] = s
	st.mu.Unlock()
	return s, nil
}

// Summary is a listing row.
type Summary struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
	DocumentCount int       `json:"document_count"`
	MessageCount  int       `json:"message_count"`
}

// List returns summaries of all sessions, most recently updated first.
func (st *Store) List() ([]Summary, error) {
	rows, err := st.db.Query(`SELECT snapshot FROM sessions ORDER BY updated_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var out []Summary
	for rows.Next() {
		var snapshot string
		if err := rows.Scan(&snapshot); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		var snap snapshotJSON
		if err := json.Unmarshal([]byte(snapshot), &snap); err != nil {
			return nil, fmt.Errorf("decode session: %w", err)
		}
		out = append(out, Summary{
			ID:            snap.ID,
			Title:         snap.Title,
			CreatedAt:     snap.CreatedAt,
			UpdatedAt:     snap.UpdatedAt,
			DocumentCount: len(snap.Documents),
			MessageCount:  len(snap.Messages),
		})
	}
	return out, rows.Err()
}

// Delete removes a session from disk and from the live cache.
func (st *Store) Delete(id string) error {
	res, err := st.db.Exec(`DELETE FROM sessions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete session %s: %w", id, err)
	}
	n, _ := res.RowsAffected()

	st.mu.Lock()
	delete(st.live, id)
	st.mu.Unlock()

	if n == 0 {
		return ErrNotFound
	}
	return nil
}
