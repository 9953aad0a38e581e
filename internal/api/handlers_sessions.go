package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/docsight/docsight/internal/document"
	"github.com/docsight/docsight/internal/session"
)

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	summaries, err := s.sessions.List()
	if err != nil {
		jsonError(w, "failed to list sessions: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if summaries == nil {
		summaries = []session.Summary{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"sessions": summaries})
}

// documentView is the API shape of one document: record fields plus whether
// the original bytes are still held (navigation is degraded when not).
type documentView struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Kind      string `json:"format_kind"`
	UnitCount int    `json:"unit_count"`
	HasRaw    bool   `json:"has_raw_bytes"`
	HasVisual bool   `json:"has_visual_payload"`
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.loadSession(w, r)
	if !ok {
		return
	}

	v := sess.View()
	docs := make([]documentView, len(v.Documents))
	for i, d := range v.Documents {
		docs[i] = documentView{
			ID:        d.ID,
			Name:      d.Name,
			Kind:      string(d.Kind),
			UnitCount: d.UnitCount,
			HasRaw:    d.RawBytes != nil,
			HasVisual: d.Visual != nil,
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"id":         v.ID,
		"title":      v.Title,
		"created_at": v.CreatedAt,
		"updated_at": v.UpdatedAt,
		"documents":  docs,
		"messages":   v.Messages,
	})
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")
	if err := s.sessions.Delete(id); err != nil {
		if errors.Is(err, session.ErrNotFound) {
			jsonError(w, "session not found", http.StatusNotFound)
			return
		}
		jsonError(w, "failed to delete session: "+err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"deleted": id})
}

type resolveRequest struct {
	DocID     string `json:"doc_id"`
	UnitIndex int    `json:"unit_index"`
}

// handleResolve binds a citation's unit index to a navigation target.
// Out-of-range indices are reported as unresolved, never clamped.
func (s *Server) handleResolve(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.loadSession(w, r)
	if !ok {
		return
	}

	var req resolveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	doc := sess.Document(req.DocID)
	if doc == nil {
		jsonError(w, "document not in session", http.StatusNotFound)
		return
	}

	target, err := document.Resolve(doc, req.UnitIndex)
	if err != nil {
		var resErr *document.ResolutionError
		if errors.As(err, &resErr) {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
				"resolved":   false,
				"unit_index": resErr.UnitIndex,
				"reason":     resErr.Reason,
			})
			return
		}
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"resolved": true,
		"target":   target,
	})
}

// loadSession fetches the session named in the URL, writing the error
// response itself when it cannot.
func (s *Server) loadSession(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	id := chi.URLParam(r, "sessionID")
	sess, err := s.sessions.Get(id)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			jsonError(w, "session not found", http.StatusNotFound)
		} else {
			jsonError(w, "failed to load session: "+err.Error(), http.StatusInternalServerError)
		}
		return nil, false
	}
	return sess, true
}
