package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingUpload indicates setup was attempted without a schedule file.
	ErrMissingUpload = errors.New("manca il file excel")

	// ErrInvalidConfig indicates a setup field is missing or malformed.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrNotConfigured indicates an operation needs a configured session.
	ErrNotConfigured = errors.New("session not configured")

	// ErrSchemaValidation indicates agent output failed schema checking.
	ErrSchemaValidation = errors.New("payload failed schema validation")

	// ErrEmptyResult indicates the agent returned no usable payload.
	ErrEmptyResult = errors.New("agent returned no usable payload")

	// ErrExternalCall indicates the agent call itself failed.
	ErrExternalCall = errors.New("external agent call failed")
)

// FieldError describes a single invalid field. It unwraps to ErrInvalidConfig
// unless Cause is set.
type FieldError struct {
	Field  string
	Reason string
	Cause  error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *FieldError) Unwrap() error {
	if e.Cause != nil {
		return e.Cause
	}
	return ErrInvalidConfig
}

// ErrorKind returns a short label for the error family of err, suitable for
// user-facing messages and structured logs.
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrMissingUpload):
		return "MissingUploadError"
	case errors.Is(err, ErrInvalidConfig):
		return "ValidationError"
	case errors.Is(err, ErrNotConfigured):
		return "NotConfiguredError"
	case errors.Is(err, ErrSchemaValidation):
		return "SchemaValidationError"
	case errors.Is(err, ErrEmptyResult):
		return "EmptyResultError"
	case errors.Is(err, ErrExternalCall):
		return "ExternalCallError"
	default:
		return "InternalError"
	}
}
