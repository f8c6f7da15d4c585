package models

// ErrorResponse is the JSON body returned on any failed API call.
// Error is always a single human-readable message; Code mirrors the
// internal error taxonomy for programmatic callers.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// HealthResponse is the response for GET /health.
type HealthResponse struct {
	Status  string `json:"status"` // always "ok"
	Uptime  string `json:"uptime"`
	Version string `json:"version"`
}

// DiagnosticsResponse is the response for GET /api/diagnostics.
// It reports whether the model credential is configured without ever
// revealing its value.
type DiagnosticsResponse struct {
	Status               string `json:"status"`
	CredentialConfigured bool   `json:"credential_configured"`
	Model                string `json:"model"`
	ExtractionMode       string `json:"extraction_mode"`
	SnapshotEnabled      bool   `json:"snapshot_enabled"`
}

// SessionStartResponse is the immediate response when an analysis session
// is created or restarted.
type SessionStartResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// SessionStateResponse is the response for GET /api/sessions/:id.
// Data is the analysis payload and is only present when Status is
// "complete"; Error only when Status is "error". Logs carries the
// progress notices emitted so far for the current run.
type SessionStateResponse struct {
	ID     string   `json:"id"`
	Status string   `json:"status"`
	Data   any      `json:"data,omitempty"`
	Error  string   `json:"error,omitempty"`
	Logs   []string `json:"logs"`
}
