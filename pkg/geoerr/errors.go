// Package geoerr defines the error kinds surfaced by the geodetic tools and
// the exit status each kind maps to.
package geoerr

import (
	"errors"
	"fmt"
	"strings"
)

// Reason classifies a ValidationError
type Reason string

const (
	UnknownToken         Reason = "unknown-token"
	BadEpochFormat       Reason = "bad-epoch-format"
	EpochOutOfRange      Reason = "epoch-out-of-range"
	IncompatibleOptions  Reason = "incompatible-options"
	IncompleteVelocity   Reason = "incomplete-velocity"
	MissingRequiredField Reason = "missing-required-field"
	InvalidValue         Reason = "invalid-value"
)

// Exit statuses reported to the shell
const (
	ExitOK         = 0
	ExitOther      = 1
	ExitValidation = 2
	ExitTransport  = 3
	ExitService    = 4
	ExitFileSystem = 5
)

// ValidationError is raised before any network call when user input is rejected.
type ValidationError struct {
	Reason       Reason
	Field        string
	Value        string
	Message      string
	Alternatives []string
	Missing      []string
}

func (e *ValidationError) Error() string {
	var b strings.Builder
	b.WriteString(e.Message)
	if len(e.Alternatives) > 0 {
		b.WriteString("; possible inputs: ")
		b.WriteString(strings.Join(e.Alternatives, ", "))
	}
	return b.String()
}

// NewValidationError builds a ValidationError with a formatted message
func NewValidationError(reason Reason, field, value, format string, a ...interface{}) *ValidationError {
	return &ValidationError{
		Reason:  reason,
		Field:   field,
		Value:   value,
		Message: fmt.Sprintf(format, a...),
	}
}

// Missing reports the named required parameters as absent
func Missing(fields ...string) *ValidationError {
	return &ValidationError{
		Reason:  MissingRequiredField,
		Field:   strings.Join(fields, ","),
		Message: fmt.Sprintf("missing required parameter(s): %s", strings.Join(fields, ", ")),
		Missing: fields,
	}
}

// TransportError covers unreachable services, non-2xx statuses and malformed bodies.
type TransportError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("request to %s failed with status %d", e.URL, e.StatusCode)
	}
	if e.Err != nil {
		return fmt.Sprintf("request to %s failed: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("request to %s failed", e.URL)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ServiceError carries the service's own diagnostic from an Errors.Msg payload.
type ServiceError struct {
	Message string
}

func (e *ServiceError) Error() string {
	return e.Message
}

// FileSystemError reports local I/O failures in batch mode.
type FileSystemError struct {
	Op   string
	Path string
	Err  error
}

func (e *FileSystemError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *FileSystemError) Unwrap() error { return e.Err }

// IsValidation reports whether err is a ValidationError with the given reason
func IsValidation(err error, reason Reason) bool {
	var ve *ValidationError
	if !errors.As(err, &ve) {
		return false
	}
	return ve.Reason == reason
}

// ExitCode maps an error to the process exit status
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var (
		ve *ValidationError
		te *TransportError
		se *ServiceError
		fe *FileSystemError
	)
	switch {
	case errors.As(err, &ve):
		return ExitValidation
	case errors.As(err, &te):
		return ExitTransport
	case errors.As(err, &se):
		return ExitService
	case errors.As(err, &fe):
		return ExitFileSystem
	}
	return ExitOther
}
