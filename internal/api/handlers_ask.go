package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/yuin/goldmark"

	"github.com/docsight/docsight/internal/citation"
	"github.com/docsight/docsight/internal/reason"
)

type askRequest struct {
	Question string `json:"question"`
}

// handleAsk sends one question to the reasoning engine over the session's
// documents and returns the answer as raw text, parsed citation segments,
// and rendered HTML.
func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.loadSession(w, r)
	if !ok {
		return
	}

	var req askRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	question := strings.TrimSpace(req.Question)
	if question == "" {
		jsonError(w, "question is required", http.StatusBadRequest)
		return
	}

	v := sess.View()
	docContext := reason.BuildContext(v.Documents, s.cfg.ContextCharBudget)
	images := reason.Images(v.Documents)

	history := make([]reason.Turn, 0, len(v.Messages))
	for _, m := range v.Messages {
		history = append(history, reason.Turn{Role: m.Role, Content: m.Content})
	}

	answer, err := reason.Do(r.Context(), s.log, func() (string, error) {
		return s.engine.Answer(r.Context(), docContext, history, images, question)
	})
	if err != nil {
		jsonError(w, "engine request failed: "+err.Error(), http.StatusBadGateway)
		return
	}

	sess.Append("user", question)
	sess.Append("assistant", answer)
	if err := s.sessions.Save(sess); err != nil {
		s.log.Error("failed to persist transcript", "session_id", sess.ID, "error", err)
	}

	segments := citation.Parse(answer)

	writeJSON(w, http.StatusOK, map[string]any{
		"answer":   answer,
		"segments": segments,
		"html":     renderAnswerHTML(answer),
	})
}

// renderAnswerHTML converts the answer's markdown to HTML for clients that
// display rich text. Citation tokens pass through as literal text; the
// segments field is the interactive representation.
func renderAnswerHTML(answer string) string {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(answer), &buf); err != nil {
		return ""
	}
	return buf.String()
}
