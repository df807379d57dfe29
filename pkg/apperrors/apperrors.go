package apperrors

import (
	"errors"
	"fmt"
)

// FallbackMessage dipakai saat tidak ada pesan error yang bisa diambil.
const FallbackMessage = "An unexpected error occurred"

// APIError is the structured error body the backend returns on non-2xx
// responses: {status, message, errors, timestamp}.
type APIError struct {
	HTTPStatus int      `json:"-"`
	Status     string   `json:"status"`
	Message    string   `json:"message"`
	Errors     []string `json:"errors"`
	Timestamp  string   `json:"timestamp"`
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("request failed with status %d", e.HTTPStatus)
}

// TransportError marks a request that never produced a response
// (connection refused, timeout, DNS failure).
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return e.Err.Error()
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Messages reduces any failure to a non-empty list of human-readable strings:
// the structured error list if present, else the top-level message, else the
// error's own text, else a fixed fallback.
func Messages(err error) []string {
	if err == nil {
		return []string{FallbackMessage}
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		if len(apiErr.Errors) > 0 {
			out := make([]string, len(apiErr.Errors))
			copy(out, apiErr.Errors)
			return out
		}
		if apiErr.Message != "" {
			return []string{apiErr.Message}
		}
	}

	if msg := err.Error(); msg != "" {
		return []string{msg}
	}
	return []string{FallbackMessage}
}
