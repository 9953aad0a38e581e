package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/docsight/docsight/internal/audio"
	"github.com/docsight/docsight/internal/config"
	"github.com/docsight/docsight/internal/ingest"
	"github.com/docsight/docsight/internal/reason"
	"github.com/docsight/docsight/internal/session"
	"github.com/docsight/docsight/internal/speech"
)

// Server is the docsight HTTP API.
type Server struct {
	router       chi.Router
	orchestrator *ingest.Orchestrator
	sessions     *session.Store
	engine       *reason.Client
	player       *audio.Player
	tts          *speech.Client // nil when the capability is absent
	log          *slog.Logger
	cfg          config.Config
}

// NewServer creates and configures the HTTP server. tts may be nil.
func NewServer(orch *ingest.Orchestrator, sessions *session.Store, engine *reason.Client, player *audio.Player, tts *speech.Client, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		orchestrator: orch,
		sessions:     sessions,
		engine:       engine,
		player:       player,
		tts:          tts,
		log:          log,
		cfg:          cfg,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	// Public endpoints.
	r.Get("/health", s.handleHealth)

	// Authenticated endpoints.
	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(s.cfg.APIKey, s.log))

		r.Post("/api/ingest", s.handleIngest)
		r.Get("/api/ingest/{jobID}/status", s.handleIngestStatus)

		r.Get("/api/sessions", s.handleListSessions)
		r.Get("/api/sessions/{sessionID}", s.handleGetSession)
		r.Delete("/api/sessions/{sessionID}", s.handleDeleteSession)

		r.Post("/api/sessions/{sessionID}/ask", s.handleAsk)
		r.Post("/api/sessions/{sessionID}/resolve", s.handleResolve)
		r.Post("/api/sessions/{sessionID}/speak", s.handleSpeak)
		r.Post("/api/sessions/{sessionID}/stop", s.handleStopPlayback)

		r.Get("/api/stats/llm", s.handleLLMStats)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}
