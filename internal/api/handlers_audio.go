package api

import (
	"net/http"
)

// handleSpeak plays the session's latest answer. Synthesized audio is
// preferred; if synthesis is unavailable or fails, the player falls back to
// platform speech, and if nothing can play it completes immediately. Audio
// problems never surface as request errors.
func (s *Server) handleSpeak(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.loadSession(w, r)
	if !ok {
		return
	}

	answer, found := sess.LatestAnswer()
	if !found {
		jsonError(w, "session has no answer to speak", http.StatusNotFound)
		return
	}

	var pcm string
	if s.tts != nil {
		synthesized, err := s.tts.Synthesize(r.Context(), answer)
		if err != nil {
			s.log.Warn("speech synthesis failed, falling back", "session_id", sess.ID, "error", err)
		} else {
			pcm = synthesized
		}
	}

	gen := s.player.Play(pcm, answer, func() {
		s.log.Info("playback complete", "session_id", sess.ID)
	})

	writeJSON(w, http.StatusOK, map[string]any{
		"generation": gen,
		"state":      s.player.State(),
	})
}

// handleStopPlayback stops any in-flight playback. Idempotent.
func (s *Server) handleStopPlayback(w http.ResponseWriter, r *http.Request) {
	s.player.Stop()
	writeJSON(w, http.StatusOK, map[string]any{"state": s.player.State()})
}

func (s *Server) handleLLMStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.engine.Stats().Snapshot())
}
