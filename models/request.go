package models

// AnalyzeRequest is the payload for POST /api/analyze and the session
// analyze endpoints.
type AnalyzeRequest struct {
	// URL is the target page to analyze. Required.
	URL string `json:"url" binding:"required"`

	// ImageURL is an optional image (e.g. a supplement facts label photo)
	// attached to the model request alongside the prompt.
	ImageURL string `json:"imageUrl,omitempty"`
}
