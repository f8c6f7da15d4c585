package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/use-agent/pagelens/analyzer"
	"github.com/use-agent/pagelens/config"
	"github.com/use-agent/pagelens/models"
)

// Diagnostics returns a handler for GET /api/diagnostics.
//
// Reports whether the extraction credential is configured without ever
// echoing its value. Status degrades when the credential is missing, since
// every analysis will fail with MISSING_CREDENTIAL until it is set.
func Diagnostics(client *analyzer.Client, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		status := "ok"
		if !client.CredentialConfigured() {
			status = "degraded"
		}

		c.JSON(http.StatusOK, models.DiagnosticsResponse{
			Status:               status,
			CredentialConfigured: client.CredentialConfigured(),
			Model:                client.Model(),
			ExtractionMode:       cfg.Extraction.Mode,
			SnapshotEnabled:      cfg.Snapshot.Enabled,
		})
	}
}
