package domain

import (
	"fmt"
	"strings"
)

// FieldError describes one rejected request parameter.
// The JSON shape mirrors the error list returned to API clients.
type FieldError struct {
	Type     string `json:"type"`
	Value    string `json:"value"`
	Msg      string `json:"msg"`
	Path     string `json:"path"`
	Location string `json:"location"`
}

// ValidationErrors is returned when request parameters fail validation
type ValidationErrors []FieldError

func (e ValidationErrors) Error() string {
	msgs := make([]string, 0, len(e))
	for _, fe := range e {
		msgs = append(msgs, fe.Path+": "+fe.Msg)
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// FetchError reports a failed outbound page fetch.
// StatusCode is set when the remote answered with a non-success status.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("request failed with status code %d", e.StatusCode)
	}
	if e.Err == nil {
		return "fetch failed"
	}
	return e.Err.Error()
}

func (e *FetchError) Unwrap() error {
	return e.Err
}
