package api

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/use-agent/pagelens/analyzer"
	"github.com/use-agent/pagelens/api/handler"
	"github.com/use-agent/pagelens/api/middleware"
	"github.com/use-agent/pagelens/config"
	"github.com/use-agent/pagelens/session"
)

// NewRouter creates a configured Gin engine with all routes and middleware.
//
// Middleware chain:
//
//	Global:  Recovery → Logger
//	API:     Auth (if enabled) → RateLimit
//
// Health endpoint is intentionally outside auth so monitoring probes always work.
func NewRouter(an *analyzer.Analyzer, client *analyzer.Client, sessions *session.Store, cfg *config.Config, startTime time.Time) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(gin.Logger())

	// Health — no auth required.
	r.GET("/health", handler.Health(startTime))

	// Protected group — auth + rate limit.
	protected := r.Group("/api")
	if cfg.Auth.Enabled {
		protected.Use(middleware.Auth(cfg.Auth.APIKeys))
	}
	protected.Use(middleware.RateLimit(cfg.RateLimit))

	// Synchronous analysis.
	protected.POST("/analyze", handler.Analyze(an))

	// Service diagnostics (credential presence, never its value).
	protected.GET("/diagnostics", handler.Diagnostics(client, cfg))

	// Session-based analysis with progress polling.
	protected.POST("/sessions/analyze", handler.StartSession(sessions))
	protected.POST("/sessions/:id/analyze", handler.ReanalyzeSession(sessions))
	protected.GET("/sessions/:id", handler.GetSession(sessions))

	return r
}
