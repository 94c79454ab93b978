// Package dto holds the JSON bodies exchanged over the storefront HTTP API.
package dto

// ErrorResponse is the body of every JSON error: {"error": "..."}.
type ErrorResponse struct {
	Error string `json:"error"`
}

// NewErrorResponse creates an ErrorResponse
func NewErrorResponse(message string) ErrorResponse {
	return ErrorResponse{Error: message}
}

// SavedGame identifies a saved game and where its page lives.
type SavedGame struct {
	ID   string `json:"id"`
	Slug string `json:"slug"`
	URL  string `json:"url"`
}

// SaveGameResponse is returned by POST /api/save-game. SavedToKV is false
// when the record store is missing or rejected the write; the status is
// still 200 in that case.
type SaveGameResponse struct {
	Success   bool      `json:"success"`
	SavedToKV bool      `json:"savedToKV"`
	Message   string    `json:"message"`
	Game      SavedGame `json:"game"`
}

// WorkerInfo is the diagnostic body of GET /test-worker.
type WorkerInfo struct {
	Message   string `json:"message"`
	Pathname  string `json:"pathname"`
	HasKV     bool   `json:"hasKV"`
	HasAssets bool   `json:"hasAssets"`
	URL       string `json:"url"`
}

// Component states reported by /health
const (
	ComponentOK            = "ok"
	ComponentDown          = "down"
	ComponentNotConfigured = "not_configured"
)

// Overall health states
const (
	HealthStatusOK       = "ok"
	HealthStatusDegraded = "degraded"
)

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string `json:"status"`
	Time   string `json:"time"`
	Store  string `json:"store"`
	Assets string `json:"assets"`
}
