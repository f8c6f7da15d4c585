package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/use-agent/pagelens/analyzer"
	"github.com/use-agent/pagelens/api"
	"github.com/use-agent/pagelens/cache"
	"github.com/use-agent/pagelens/config"
	"github.com/use-agent/pagelens/models"
	"github.com/use-agent/pagelens/session"
	"github.com/use-agent/pagelens/snapshot"
	"github.com/use-agent/pagelens/webhook"
)

func main() {
	// ── 1. Load configuration ───────────────────────────────────────
	cfg := config.Load()

	// ── 2. Initialise structured logging ────────────────────────────
	initLogger(cfg.Log)
	slog.Info("pagelens starting",
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
		"mode", cfg.Server.Mode,
		"model", cfg.Extraction.Model,
		"extraction_mode", cfg.Extraction.Mode,
	)

	// ── 3. Initialise model client ──────────────────────────────────
	// A missing credential is a warning, not a startup failure: the service
	// stays up for health and diagnostics, and each analysis fails with
	// MISSING_CREDENTIAL until the key is set.
	client := analyzer.NewClient(cfg.Extraction.APIKey, cfg.Extraction.Model)
	if !client.CredentialConfigured() {
		slog.Warn("GEMINI_API_KEY is not set; all analyses will fail until it is configured")
	}

	// ── 4. Initialise analyzer ──────────────────────────────────────
	an, err := analyzer.New(client, cfg.Extraction.Mode)
	if err != nil {
		slog.Error("failed to initialise analyzer", "error", err)
		os.Exit(1)
	}

	if cfg.Snapshot.Enabled {
		an.SetSnapshotter(snapshot.New(cfg.Snapshot))
		slog.Info("page snapshot enabled",
			"timeout", cfg.Snapshot.Timeout,
			"max_chars", cfg.Snapshot.MaxChars,
		)
	}

	cc := cache.New(cfg.Cache.MaxEntries, cfg.Cache.TTL)
	an.SetCache(cc)

	// ── 5. Initialise session store ─────────────────────────────────
	var onTerminal session.TerminalFunc
	if cfg.Webhook.URL != "" {
		onTerminal = func(state session.State) {
			event := &webhook.Event{
				SessionID: state.ID,
				URL:       state.URL,
				Timestamp: time.Now().Unix(),
			}
			if state.Status == session.StatusComplete {
				event.Type = webhook.EventAnalysisCompleted
				if state.Data != nil {
					event.Data = state.Data.Payload()
				}
			} else {
				event.Type = webhook.EventAnalysisFailed
				event.Error = state.Error
			}
			webhook.DeliverAsync(cfg.Webhook.URL, cfg.Webhook.Secret, event)
		}
		slog.Info("webhook delivery enabled", "url", cfg.Webhook.URL)
	}

	analyzeFn := func(ctx context.Context, url, imageURL string) (*models.AnalysisResult, error) {
		res, _, err := an.Analyze(ctx, url, imageURL)
		return res, err
	}
	sessions := session.NewStore(func(id string) *session.Session {
		return session.New(id, analyzeFn, cfg.Session.ProgressInterval, onTerminal)
	}, cfg.Session.TTL)

	// ── 6. Setup router ─────────────────────────────────────────────
	startTime := time.Now()
	router := api.NewRouter(an, client, sessions, cfg, startTime)

	// ── 7. Start HTTP server ────────────────────────────────────────
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		slog.Info("HTTP server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("HTTP server error", "error", err)
			os.Exit(1)
		}
	}()

	// ── 8. Graceful shutdown ────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig.String())

	// Give in-flight requests 5 seconds to complete.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("HTTP server forced shutdown", "error", err)
	} else {
		slog.Info("HTTP server drained gracefully")
	}

	slog.Info("pagelens stopped")
}

// initLogger configures slog based on the LogConfig.
func initLogger(cfg config.LogConfig) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if cfg.Format == "text" {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	slog.SetDefault(slog.New(handler))
}
