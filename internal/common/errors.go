package common

import (
	"errors"
	"fmt"
)

// AppError represents application-specific errors
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Fatal extraction errors. Both abort the request with no partial record;
// everything softer is absorbed into the record's extraction_issues list.
var (
	// ErrImageDecode means the input image could not be read or decoded.
	// Distinct from a readable image with zero detected text, which is a
	// valid empty result.
	ErrImageDecode = errors.New("image decode failed")

	// ErrExtractorFormat means the extractor's output was not parseable as
	// schema-shaped JSON even after stripping code fencing.
	ErrExtractorFormat = errors.New("extractor output not schema-shaped JSON")

	// ErrInvalidInput means the request itself was malformed.
	ErrInvalidInput = errors.New("invalid input")
)

// NewAppError builds an AppError with a stable code for logs and clients.
func NewAppError(code, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}
