package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/use-agent/pagelens/models"
	"github.com/use-agent/pagelens/session"
)

// StartSession returns a handler for POST /api/sessions/analyze.
//
// Creates a fresh session, kicks off the analysis in the background, and
// returns immediately with 202 so the caller can poll for state.
func StartSession(store *session.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.AnalyzeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Error: err.Error(),
				Code:  models.ErrCodeInvalidInput,
			})
			return
		}

		s := store.Create()
		s.Analyze(req.URL, req.ImageURL)

		c.JSON(http.StatusAccepted, models.SessionStartResponse{
			ID:     s.ID(),
			Status: string(session.StatusAnalyzing),
		})
	}
}

// ReanalyzeSession returns a handler for POST /api/sessions/:id/analyze.
//
// Restarts analysis on an existing session. If a run is in flight it is
// superseded: its eventual outcome is discarded and the session restarts
// from analyzing with cleared data, error, and logs.
func ReanalyzeSession(store *session.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, ok := store.Get(c.Param("id"))
		if !ok {
			c.JSON(http.StatusNotFound, models.ErrorResponse{
				Error: "session not found",
				Code:  models.ErrCodeInvalidInput,
			})
			return
		}

		var req models.AnalyzeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Error: err.Error(),
				Code:  models.ErrCodeInvalidInput,
			})
			return
		}

		s.Analyze(req.URL, req.ImageURL)

		c.JSON(http.StatusAccepted, models.SessionStartResponse{
			ID:     s.ID(),
			Status: string(session.StatusAnalyzing),
		})
	}
}

// GetSession returns a handler for GET /api/sessions/:id.
func GetSession(store *session.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, ok := store.Get(c.Param("id"))
		if !ok {
			c.JSON(http.StatusNotFound, models.ErrorResponse{
				Error: "session not found",
				Code:  models.ErrCodeInvalidInput,
			})
			return
		}

		state := s.State()
		resp := models.SessionStateResponse{
			ID:     state.ID,
			Status: string(state.Status),
			Error:  state.Error,
			Logs:   state.Logs,
		}
		if state.Data != nil {
			resp.Data = state.Data.Payload()
		}

		c.JSON(http.StatusOK, resp)
	}
}
