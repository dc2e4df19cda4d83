package vapor

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrUnauthorized matches API errors caused by a missing or expired session.
	ErrUnauthorized = errors.New("session expired, log in again")
	// ErrNotFound matches API errors for resources that do not exist.
	ErrNotFound = errors.New("not found")
)

// APIError is returned for non-2xx responses.
type APIError struct {
	Method  string
	Path    string
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api %s %s returned status %d", e.Method, e.Path, e.Status)
	}
	return fmt.Sprintf("api %s %s returned status %d: %s", e.Method, e.Path, e.Status, e.Message)
}

// Is lets callers match status classes with errors.Is.
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return isAuthStatus(e.Status)
	case ErrNotFound:
		return e.Status == http.StatusNotFound
	}
	return false
}

func isAuthStatus(status int) bool {
	return status == http.StatusUnauthorized || status == http.StatusForbidden
}

// Message returns the text best suited to show a user for err.
func Message(err error) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, ErrUnauthorized) {
		return ErrUnauthorized.Error()
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return err.Error()
}
