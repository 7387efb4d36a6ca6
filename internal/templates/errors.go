package templates

import (
	"fmt"
	"strings"
)

// ErrorType represents the category of a template load failure
type ErrorType string

const (
	// ErrTypeNotFound indicates the backing resource could not be fetched
	ErrTypeNotFound ErrorType = "not_found"

	// ErrTypeEmpty indicates the resource has no usable data rows
	ErrTypeEmpty ErrorType = "empty"

	// ErrTypeMalformed indicates the resource is not readable text
	ErrTypeMalformed ErrorType = "malformed"
)

// Sentinels for errors.Is comparisons. Only Type is compared.
var (
	ErrNotFound  = &LoadError{Type: ErrTypeNotFound}
	ErrEmpty     = &LoadError{Type: ErrTypeEmpty}
	ErrMalformed = &LoadError{Type: ErrTypeMalformed}
)

// LoadError is returned when templates cannot be loaded. It is fatal to a session.
type LoadError struct {
	// Type categorizes the failure
	Type ErrorType

	// Message is the human-readable reason shown to the user
	Message string

	// Source names the resource that was fetched
	Source string

	// Cause is the underlying error, if any
	Cause error
}

// Error implements the error interface
func (e *LoadError) Error() string {
	parts := []string{e.Message}

	if e.Source != "" {
		parts = append(parts, fmt.Sprintf("source=%s", e.Source))
	}
	if e.Cause != nil {
		parts = append(parts, fmt.Sprintf("cause=%s", e.Cause.Error()))
	}

	return strings.Join(parts, ": ")
}

// Unwrap returns the underlying error
func (e *LoadError) Unwrap() error {
	return e.Cause
}

// Is checks if the error matches the target error type
func (e *LoadError) Is(target error) bool {
	if le, ok := target.(*LoadError); ok {
		return e.Type == le.Type
	}
	return false
}

func newNotFoundError(source string, cause error) *LoadError {
	return &LoadError{
		Type:    ErrTypeNotFound,
		Message: "templates file not found",
		Source:  source,
		Cause:   cause,
	}
}

func newEmptyError(source string) *LoadError {
	return &LoadError{
		Type:    ErrTypeEmpty,
		Message: "templates file has no data",
		Source:  source,
	}
}

func newMalformedError(source, reason string) *LoadError {
	return &LoadError{
		Type:    ErrTypeMalformed,
		Message: "templates file is not valid text (" + reason + ")",
		Source:  source,
	}
}
