package crawlbase

import (
	"errors"
	"fmt"
)

// Fixed messages returned to callers. Tests and downstream code compare against them.
const (
	msgTokenRequired         = "Token is required"
	msgURLRequired           = "URL is required"
	msgDomainRequired        = "Domain is required"
	msgScraperGetOnly        = "Only GET is allowed for the ScraperAPI"
	msgScreenshotsGetOnly    = "Only GET is allowed for the ScreenshotsAPI"
	msgLeadsGetOnly          = "Only GET is allowed for the LeadsAPI"
	msgInvalidScreenshotPath = "Filename must end with .jpg or .jpeg"
	msgUnknownVariant        = "Unknown endpoint variant"
)

// ValidationError is returned when an argument is rejected before any I/O happens.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// Is matches any ValidationError carrying the same message, so the sentinels
// below work with errors.Is.
func (e *ValidationError) Is(target error) bool {
	t, ok := target.(*ValidationError)
	return ok && t.Message == e.Message
}

// Sentinel validation errors.
var (
	ErrTokenRequired         = &ValidationError{Message: msgTokenRequired}
	ErrURLRequired           = &ValidationError{Message: msgURLRequired}
	ErrDomainRequired        = &ValidationError{Message: msgDomainRequired}
	ErrInvalidScreenshotPath = &ValidationError{Message: msgInvalidScreenshotPath}
	ErrUnknownVariant        = &ValidationError{Message: msgUnknownVariant}
)

// UnsupportedOperationError is returned when a variant does not support the
// requested HTTP method.
type UnsupportedOperationError struct {
	Message string
}

func (e *UnsupportedOperationError) Error() string { return e.Message }

// TransportError wraps a failure of the transport collaborator.
type TransportError struct {
	Method string
	URL    string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// DecodeError is returned when the JSON response path cannot decode the body.
type DecodeError struct {
	Reason string
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("decode response: %s: %v", e.Reason, e.Err)
	}
	return "decode response: " + e.Reason
}

func (e *DecodeError) Unwrap() error { return e.Err }

// ParseError is returned when a numeric metadata field holds a non-numeric value.
type ParseError struct {
	Field string
	Value string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s %q: %v", e.Field, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsUnsupported reports whether err is (or wraps) an UnsupportedOperationError.
func IsUnsupported(err error) bool {
	var ue *UnsupportedOperationError
	return errors.As(err, &ue)
}
