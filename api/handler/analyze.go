package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/use-agent/pagelens/analyzer"
	"github.com/use-agent/pagelens/models"
)

// Analyze returns a handler for POST /api/analyze.
//
// Synchronous: the call blocks until the extraction finishes and returns the
// bare analysis payload on success. Cache status is reported via the
// X-Cache-Status header (hit/miss) because the body carries no envelope.
func Analyze(an *analyzer.Analyzer) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.AnalyzeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Error: err.Error(),
				Code:  models.ErrCodeInvalidInput,
			})
			return
		}

		result, cached, err := an.Analyze(c.Request.Context(), req.URL, req.ImageURL)
		if err != nil {
			respondAnalysisError(c, err)
			return
		}

		if cached {
			c.Header("X-Cache-Status", "hit")
		} else {
			c.Header("X-Cache-Status", "miss")
		}
		c.JSON(http.StatusOK, result.Payload())
	}
}

// respondAnalysisError maps an AnalysisError to the correct HTTP status and
// writes a structured JSON error response.
func respondAnalysisError(c *gin.Context, err error) {
	ae := models.AsAnalysisError(err)
	c.JSON(statusForCode(ae.Code), models.ErrorResponse{
		Error: ae.Message,
		Code:  ae.Code,
	})
}

// statusForCode translates error codes to HTTP status codes. Every analysis
// pipeline failure after input validation is a 500, upstream model failures
// included: the caller sent a valid request and the service could not
// fulfil it.
func statusForCode(code string) int {
	switch code {
	case models.ErrCodeInvalidInput:
		return http.StatusBadRequest
	case models.ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case models.ErrCodeRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}
