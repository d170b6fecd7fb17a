package translator

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	// ErrTranslationFailed wraps every error returned by Client.Translate.
	ErrTranslationFailed = errors.New("translation failed")

	ErrAuth          = errors.New("authentication rejected by backend")
	ErrRateLimit     = errors.New("backend rate limit exceeded")
	ErrEmptyResponse = errors.New("empty response from backend")

	// ErrBackendReported marks a failure a backend returned only in
	// ServiceResult.Error.
	ErrBackendReported = errors.New("backend reported an error")
)

// statusCause maps an HTTP status code to ErrAuth or ErrRateLimit, or nil.
func statusCause(code int) error {
	switch code {
	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrAuth
	case http.StatusTooManyRequests:
		return ErrRateLimit
	}
	return nil
}

// statusError builds the error for a non-OK HTTP response.
func statusError(code int) error {
	if cause := statusCause(code); cause != nil {
		return fmt.Errorf("%w: API returned status %d", cause, code)
	}
	return fmt.Errorf("API returned status %d", code)
}

// classifyMessage is the fallback for SDK errors that carry no status code.
func classifyMessage(err error) error {
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "error 401"),
		strings.Contains(msg, "error 403"),
		strings.Contains(msg, "status 401"),
		strings.Contains(msg, "status 403"),
		strings.Contains(msg, "api key not valid"),
		strings.Contains(msg, "permission_denied"),
		strings.Contains(msg, "unauthenticated"):
		return fmt.Errorf("%w: %w", ErrAuth, err)
	case strings.Contains(msg, "error 429"),
		strings.Contains(msg, "status 429"),
		strings.Contains(msg, "resource_exhausted"),
		strings.Contains(msg, "quota"):
		return fmt.Errorf("%w: %w", ErrRateLimit, err)
	}
	return err
}
