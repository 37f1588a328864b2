// Package errors defines the structured error type shared by the loader
// packages. Resolution-time failures (malformed inline settings, unusable
// bind targets) are modeled as non-recoverable LoaderErrors so callers can
// abort widget construction without retrying.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorType represents different categories of errors.
type ErrorType string

const (
	ErrorTypeConfig     ErrorType = "config"
	ErrorTypeBinding    ErrorType = "binding"
	ErrorTypeValidation ErrorType = "validation"
	ErrorTypeIO         ErrorType = "io"
	ErrorTypeInternal   ErrorType = "internal"
)

// Common error codes.
const (
	ErrCodeInlineSettingsJSON      = "ERR_INLINE_SETTINGS_JSON"
	ErrCodeInlineSettingsNotObject = "ERR_INLINE_SETTINGS_NOT_OBJECT"
	ErrCodeBindTarget              = "ERR_BIND_TARGET"
	ErrCodeRegistryPath            = "ERR_REGISTRY_PATH"
	ErrCodeRegistryConflict        = "ERR_REGISTRY_CONFLICT"
	ErrCodeDocumentParse           = "ERR_DOCUMENT_PARSE"
	ErrCodeConfigInvalid           = "ERR_CONFIG_INVALID"
)

// LoaderError is a structured error type with context.
type LoaderError struct {
	Type        ErrorType
	Code        string
	Message     string
	Cause       error
	Context     map[string]interface{}
	Component   string
	Recoverable bool
}

// Error implements the error interface.
func (e *LoaderError) Error() string {
	var parts []string

	if e.Code != "" {
		parts = append(parts, fmt.Sprintf("[%s]", e.Code))
	}

	if e.Component != "" {
		parts = append(parts, "component:"+e.Component)
	}

	parts = append(parts, e.Message)

	result := strings.Join(parts, " ")

	if e.Cause != nil {
		result += fmt.Sprintf(": %v", e.Cause)
	}

	return result
}

// Unwrap returns the underlying cause error.
func (e *LoaderError) Unwrap() error {
	return e.Cause
}

// Is implements error comparison.
func (e *LoaderError) Is(target error) bool {
	var t *LoaderError
	if errors.As(target, &t) {
		return e.Type == t.Type && e.Code == t.Code
	}

	return false
}

// WithContext adds context information to the error.
func (e *LoaderError) WithContext(key string, value interface{}) *LoaderError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value

	return e
}

// WithComponent adds component context.
func (e *LoaderError) WithComponent(component string) *LoaderError {
	e.Component = component

	return e
}

// NewConfigError creates a configuration error. Configuration is static
// authoring data, so it is never recoverable.
func NewConfigError(code, message string, cause error) *LoaderError {
	return &LoaderError{
		Type:        ErrorTypeConfig,
		Code:        code,
		Message:     message,
		Cause:       cause,
		Recoverable: false,
	}
}

// NewBindingError creates a binding error.
func NewBindingError(code, message string) *LoaderError {
	return &LoaderError{
		Type:        ErrorTypeBinding,
		Code:        code,
		Message:     message,
		Recoverable: false,
	}
}

// NewValidationError creates a validation error.
func NewValidationError(code, message string) *LoaderError {
	return &LoaderError{
		Type:        ErrorTypeValidation,
		Code:        code,
		Message:     message,
		Recoverable: true,
	}
}

// NewIOError creates an I/O error.
func NewIOError(code, message string, cause error) *LoaderError {
	return &LoaderError{
		Type:        ErrorTypeIO,
		Code:        code,
		Message:     message,
		Cause:       cause,
		Recoverable: false,
	}
}

// NewInternalError creates an internal error.
func NewInternalError(code, message string, cause error) *LoaderError {
	return &LoaderError{
		Type:        ErrorTypeInternal,
		Code:        code,
		Message:     message,
		Cause:       cause,
		Recoverable: false,
	}
}

// Wrap attaches a message to err, preserving LoaderError classification.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}

	return fmt.Errorf("%s: %w", message, err)
}

// IsRecoverable checks if an error is recoverable.
func IsRecoverable(err error) bool {
	var le *LoaderError
	if errors.As(err, &le) {
		return le.Recoverable
	}

	return false
}

// IsConfigError checks if an error is a configuration error.
func IsConfigError(err error) bool {
	return hasType(err, ErrorTypeConfig)
}

// IsBindingError checks if an error is a binding error.
func IsBindingError(err error) bool {
	return hasType(err, ErrorTypeBinding)
}

func hasType(err error, t ErrorType) bool {
	var le *LoaderError
	if errors.As(err, &le) {
		return le.Type == t
	}

	return false
}
