package errors

import (
	"errors"
	"fmt"
)

// Code represents an error code for categorizing errors
type Code string

const (
	// CodeUnknown indicates an unknown error
	CodeUnknown Code = "unknown"

	// CodeInvalidArgument indicates client specified an invalid argument
	CodeInvalidArgument Code = "invalid_argument"

	// CodeNotFound indicates a requested resource was not found
	CodeNotFound Code = "not_found"

	// CodeInternal indicates internal system error
	CodeInternal Code = "internal"

	// CodeDuplicateDefinition indicates a qualified identifier was registered twice
	CodeDuplicateDefinition Code = "duplicate_definition"

	// CodeUnknownType indicates a lookup against a primary type id that does not exist
	CodeUnknownType Code = "unknown_type"

	// CodeUnknownSubtype indicates a lookup against a subtype id that does not exist
	CodeUnknownSubtype Code = "unknown_subtype"

	// CodeMalformedConfiguration indicates a schema or parse failure while loading one entry
	CodeMalformedConfiguration Code = "malformed_configuration"

	// CodeLegacyUnreadable indicates the legacy data source could not be read
	CodeLegacyUnreadable Code = "legacy_unreadable"
)

// Error represents an application error with code and metadata
type Error struct {
	// Code is the error code
	Code Code

	// Message is the error message
	Message string

	// Cause is the wrapped error
	Cause error

	// Meta contains additional context
	Meta map[string]any
}

// Error returns the error message
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the wrapped error
func (e *Error) Unwrap() error {
	return e.Cause
}

// WithMeta adds metadata to the error (builder pattern)
func (e *Error) WithMeta(key string, value any) *Error {
	if e.Meta == nil {
		e.Meta = make(map[string]any)
	}
	e.Meta[key] = value
	return e
}

// New creates a new error with the given code and message
func New(code Code, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
	}
}

// Newf creates a new error with formatted message
func Newf(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap wraps an error with additional context
func Wrap(err error, message string) *Error {
	if err == nil {
		return nil
	}

	// If it's already our error type, preserve the code
	var engErr *Error
	if errors.As(err, &engErr) {
		return &Error{
			Code:    engErr.Code,
			Message: message,
			Cause:   err,
			Meta:    copyMeta(engErr.Meta),
		}
	}

	return &Error{
		Code:    CodeUnknown,
		Message: message,
		Cause:   err,
	}
}

// Wrapf wraps an error with formatted message
func Wrapf(err error, format string, args ...any) *Error {
	if err == nil {
		return nil
	}
	return Wrap(err, fmt.Sprintf(format, args...))
}

// WrapWithCode wraps an error with a specific code
func WrapWithCode(err error, code Code, message string) *Error {
	if err == nil {
		return nil
	}

	wrapped := Wrap(err, message)
	wrapped.Code = code
	return wrapped
}

// Helper functions for common error types

// NotFound creates a not found error
func NotFound(message string) *Error {
	return New(CodeNotFound, message)
}

// NotFoundf creates a formatted not found error
func NotFoundf(format string, args ...any) *Error {
	return Newf(CodeNotFound, format, args...)
}

// InvalidArgument creates an invalid argument error
func InvalidArgument(message string) *Error {
	return New(CodeInvalidArgument, message)
}

// InvalidArgumentf creates a formatted invalid argument error
func InvalidArgumentf(format string, args ...any) *Error {
	return Newf(CodeInvalidArgument, format, args...)
}

// Internal creates an internal error
func Internal(message string) *Error {
	return New(CodeInternal, message)
}

// Internalf creates a formatted internal error
func Internalf(format string, args ...any) *Error {
	return Newf(CodeInternal, format, args...)
}

// DuplicateDefinitionf creates a formatted duplicate definition error
func DuplicateDefinitionf(format string, args ...any) *Error {
	return Newf(CodeDuplicateDefinition, format, args...)
}

// UnknownTypef creates a formatted unknown type error
func UnknownTypef(format string, args ...any) *Error {
	return Newf(CodeUnknownType, format, args...)
}

// UnknownSubtypef creates a formatted unknown subtype error
func UnknownSubtypef(format string, args ...any) *Error {
	return Newf(CodeUnknownSubtype, format, args...)
}

// MalformedConfigurationf creates a formatted malformed configuration error
func MalformedConfigurationf(format string, args ...any) *Error {
	return Newf(CodeMalformedConfiguration, format, args...)
}

// LegacyUnreadablef creates a formatted legacy source error
func LegacyUnreadablef(format string, args ...any) *Error {
	return Newf(CodeLegacyUnreadable, format, args...)
}

// Error checking functions

// Is checks if the error is of a specific code
func Is(err error, code Code) bool {
	var engErr *Error
	if errors.As(err, &engErr) {
		return engErr.Code == code
	}
	return false
}

// IsNotFound checks if the error is a not found error
func IsNotFound(err error) bool {
	return Is(err, CodeNotFound)
}

// IsInvalidArgument checks if the error is an invalid argument error
func IsInvalidArgument(err error) bool {
	return Is(err, CodeInvalidArgument)
}

// IsDuplicateDefinition checks if the error is a duplicate definition error
func IsDuplicateDefinition(err error) bool {
	return Is(err, CodeDuplicateDefinition)
}

// IsUnknownType checks if the error is an unknown type error
func IsUnknownType(err error) bool {
	return Is(err, CodeUnknownType)
}

// IsUnknownSubtype checks if the error is an unknown subtype error
func IsUnknownSubtype(err error) bool {
	return Is(err, CodeUnknownSubtype)
}

// IsMalformedConfiguration checks if the error is a malformed configuration error
func IsMalformedConfiguration(err error) bool {
	return Is(err, CodeMalformedConfiguration)
}

// IsLegacyUnreadable checks if the error is a legacy source error
func IsLegacyUnreadable(err error) bool {
	return Is(err, CodeLegacyUnreadable)
}

// GetCode returns the error code
func GetCode(err error) Code {
	var engErr *Error
	if errors.As(err, &engErr) {
		return engErr.Code
	}
	return CodeUnknown
}

// GetMeta returns the error metadata
func GetMeta(err error) map[string]any {
	var engErr *Error
	if errors.As(err, &engErr) {
		return engErr.Meta
	}
	return nil
}

// copyMeta creates a copy of the metadata map
func copyMeta(meta map[string]any) map[string]any {
	if meta == nil {
		return nil
	}

	copied := make(map[string]any, len(meta))
	for k, v := range meta {
		copied[k] = v
	}
	return copied
}
