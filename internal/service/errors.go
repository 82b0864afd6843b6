package service

import (
	"errors"
	"fmt"

	"google.golang.org/api/googleapi"
)

var (
	// ErrInvalidInput is returned when input validation fails.
	ErrInvalidInput = errors.New("invalid input")
	// ErrNotFound is returned when a requested resource is not found.
	ErrNotFound = errors.New("not found")
	// ErrUnauthorized is returned when no valid session or access token is present.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrNotConfigured is returned when the user has not saved folder/spreadsheet ids yet.
	ErrNotConfigured = errors.New("drive settings not configured")
	// ErrExternalService is returned when an external service call fails.
	ErrExternalService = errors.New("external service error")
)

// ValidationError represents a validation error with a field name.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field %s: %s", e.Field, e.Message)
}

// UpstreamError wraps a failure from one of the Google APIs. It keeps the
// provider's HTTP status code and message so handlers can surface them
// instead of a generic fallback.
type UpstreamError struct {
	Op   string // the operation that failed, e.g. "drive.files.list"
	Code int    // upstream HTTP status, 0 when unknown
	Err  error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// Describe returns the human-readable message from the upstream error
// payload when available, otherwise the fallback.
func (e *UpstreamError) Describe(fallback string) string {
	var apiErr *googleapi.Error
	if errors.As(e.Err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}

// WrapUpstream wraps err in an UpstreamError for the given operation.
// Returns nil when err is nil. The upstream status code is extracted from
// googleapi.Error when present.
func WrapUpstream(op string, err error) error {
	if err == nil {
		return nil
	}
	code := 0
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		code = apiErr.Code
	}
	return &UpstreamError{Op: op, Code: code, Err: err}
}

// UpstreamStatus returns the upstream HTTP status carried by err, or 0.
func UpstreamStatus(err error) int {
	var ue *UpstreamError
	if errors.As(err, &ue) {
		return ue.Code
	}
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return apiErr.Code
	}
	return 0
}

// WrapError wraps an error with additional context.
func WrapError(err error, msg string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, err)
}
