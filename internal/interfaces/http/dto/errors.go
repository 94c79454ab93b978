package dto

import "net/http"

// Domain error codes surfaced over HTTP
const (
	ErrCodeGameNotFound          = "GAME_NOT_FOUND"
	ErrCodeGameIDRequired        = "GAME_ID_REQUIRED"
	ErrCodeInvalidGameID         = "INVALID_GAME_ID"
	ErrCodeMissingRequiredFields = "MISSING_REQUIRED_FIELDS"
)

// ErrorCodeHTTPStatus maps domain error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeGameNotFound:          http.StatusNotFound,
	ErrCodeGameIDRequired:        http.StatusBadRequest,
	ErrCodeInvalidGameID:         http.StatusBadRequest,
	ErrCodeMissingRequiredFields: http.StatusBadRequest,
}

// GetHTTPStatus returns the HTTP status for a domain error code.
// Unknown codes map to 500.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
