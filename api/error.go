package api

import (
	"encoding/json"
	"net/http"
)

// Error is the normalized failure shape for every non-2xx response. Its
// message is exactly what a toast should show: the backend's structured
// message when one exists, the HTTP status text otherwise.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string { return e.Message }

func newError(status int, body []byte) *Error {
	var parsed struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.Message != "" {
		return &Error{Status: status, Message: parsed.Message}
	}
	if status == http.StatusUnauthorized {
		return &Error{Status: status, Message: defaultUnauthorizedMessage}
	}
	return &Error{Status: status, Message: http.StatusText(status)}
}

// IsUnauthorized reports whether err is an API error with a 401 status.
func IsUnauthorized(err error) bool {
	apiErr, ok := err.(*Error)
	return ok && apiErr.Status == http.StatusUnauthorized
}
