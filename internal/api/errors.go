package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// APIError is returned for any non-2xx response.
type APIError struct {
	Method     string
	Path       string
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.Path, e.StatusCode, e.Message)
}

// errorBody covers the error shapes seen in the wild: {"message": ...}
// and {"error": ...} / {"err": ...}.
type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
	Err     string `json:"err"`
}

func newAPIError(method, path string, status int, body []byte) *APIError {
	e := &APIError{Method: method, Path: path, StatusCode: status}

	var eb errorBody
	if err := json.Unmarshal(body, &eb); err == nil {
		for _, m := range []string{eb.Message, eb.Error, eb.Err} {
			if strings.TrimSpace(m) != "" {
				e.Message = m
				return e
			}
		}
	}
	// mockapi-style backends answer errors with a bare JSON string
	var s string
	if err := json.Unmarshal(body, &s); err == nil && strings.TrimSpace(s) != "" {
		e.Message = s
		return e
	}
	if raw := strings.TrimSpace(string(body)); raw != "" && len(raw) <= 200 {
		e.Message = raw
		return e
	}
	e.Message = http.StatusText(status)
	return e
}

// IsNotFound reports whether err wraps a 404 APIError.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}
