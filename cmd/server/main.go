package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/docsight/docsight/internal/api"
	"github.com/docsight/docsight/internal/audio"
	"github.com/docsight/docsight/internal/config"
	"github.com/docsight/docsight/internal/extractor"
	"github.com/docsight/docsight/internal/extractor/decode"
	"github.com/docsight/docsight/internal/ingest"
	"github.com/docsight/docsight/internal/ocr"
	"github.com/docsight/docsight/internal/reason"
	"github.com/docsight/docsight/internal/session"
	"github.com/docsight/docsight/internal/speech"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sessions, err := session.Open(cfg.DataDir)
	if err != nil {
		log.Error("failed to open session store", "error", err)
		os.Exit(1)
	}

	// Decoder capabilities. OCR is remote and optional; the in-process
	// decoders are always available.
	extractors := extractor.Set{
		PDF:    decode.PDF{},
		Sheets: decode.Excel{},
		Slides: decode.Slides{},
		Word:   decode.Word{},
	}
	if cfg.OCRURL != "" {
		extractors.OCR = ocr.NewClient(cfg.OCRURL, cfg.OCRAPIKey)
	}

	engine := reason.NewClient(cfg.AnthropicAPIKey, cfg.AnthropicModel)

	var tts *speech.Client
	if cfg.TTSURL != "" {
		tts = speech.NewClient(cfg.TTSURL, cfg.TTSAPIKey, cfg.AudioSampleRate)
	}
	player := audio.NewPlayer(audio.NullSink{}, nil, cfg.AudioSampleRate, log)

	orch := ingest.NewOrchestrator(cfg, extractors, sessions, log)
	orch.Start(ctx)

	srv := api.NewServer(orch, sessions, engine, player, tts, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		player.Stop()
		orch.Stop()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)

		engine.Close()
		sessions.Close()
	}()

	log.Info("starting docsight", "port", cfg.Port)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
