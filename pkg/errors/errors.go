// SPDX-License-Identifier: Apache-2.0
// Package errors provides typed errors for ruleset generation.
//
// Three families matter to callers: validation errors (bad project input,
// reported to the client), provider errors (backend failures, always
// recovered through the fallback document) and configuration errors
// (startup-time, fatal).
package errors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
)

// ErrorCode classifies errors for monitoring and recovery.
type ErrorCode string

const (
	// CodeInternal indicates an internal system error.
	CodeInternal ErrorCode = "INTERNAL_ERROR"

	// CodeInvalidInput indicates the project description was invalid.
	CodeInvalidInput ErrorCode = "INVALID_INPUT"

	// CodeConfiguration indicates an unusable startup configuration.
	CodeConfiguration ErrorCode = "CONFIGURATION_ERROR"

	// CodeProvider indicates an AI backend failed or rejected the request.
	CodeProvider ErrorCode = "PROVIDER_ERROR"

	// CodeUnauthorized indicates the backend credential is missing or rejected.
	CodeUnauthorized ErrorCode = "UNAUTHORIZED"

	// CodeTimeout indicates an operation exceeded its time limit.
	CodeTimeout ErrorCode = "TIMEOUT"
)

// Error is a typed error with context for observability.
// It implements the error interface and can be unwrapped with errors.As().
type Error struct {
	Code        ErrorCode
	Message     string
	Err         error
	Context     map[string]interface{}
	Recoverable bool
	StatusCode  int
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements errors.Unwrap for error chain traversal.
func (e *Error) Unwrap() error {
	return e.Err
}

// MarshalJSON implements json.Marshaler for structured logging.
func (e *Error) MarshalJSON() ([]byte, error) {
	out := struct {
		Message     string                 `json:"message"`
		Code        string                 `json:"code"`
		Err         string                 `json:"error,omitempty"`
		Recoverable bool                   `json:"recoverable"`
		Context     map[string]interface{} `json:"context,omitempty"`
	}{
		Message:     e.Error(),
		Code:        string(e.Code),
		Recoverable: e.Recoverable,
		Context:     e.Context,
	}
	if e.Err != nil {
		out.Err = e.Err.Error()
	}
	return json.Marshal(out)
}

// New creates a new Error with the given code, message, and cause.
func New(code ErrorCode, msg string, cause error) *Error {
	return &Error{
		Code:       code,
		Message:    msg,
		Err:        cause,
		Context:    make(map[string]interface{}),
		StatusCode: codeToStatusCode(code),
	}
}

// WithContext adds a key-value pair to the error context.
// Returns the error for method chaining.
func (e *Error) WithContext(key string, value interface{}) *Error {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// WithRecoverable sets whether the error can be recovered from.
func (e *Error) WithRecoverable(recoverable bool) *Error {
	e.Recoverable = recoverable
	return e
}

// Validation returns a ValidationError for the named input field.
func Validation(field, msg string) *Error {
	return New(CodeInvalidInput, msg, nil).WithContext("field", field)
}

// Provider returns a ProviderError raised by the named backend.
// Provider errors are recoverable: callers substitute a fallback document.
func Provider(provider, msg string, cause error) *Error {
	return New(CodeProvider, msg, cause).
		WithContext("provider", provider).
		WithRecoverable(true)
}

// MissingCredential returns the ProviderError used when a backend has no API key.
func MissingCredential(provider, credential string) *Error {
	return New(CodeUnauthorized, provider+" API key not configured", nil).
		WithContext("provider", provider).
		WithContext("credential", credential).
		WithRecoverable(true)
}

// Configuration returns a ConfigurationError.
func Configuration(msg string, cause error) *Error {
	return New(CodeConfiguration, msg, cause)
}

// As converts err to an *Error if one is present in the chain.
func As(err error) (*Error, bool) {
	var e *Error
	if stderrors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// AsError converts err to an *Error, wrapping unknown errors as internal.
func AsError(err error) *Error {
	if err == nil {
		return nil
	}
	if e, ok := As(err); ok {
		return e
	}
	return New(CodeInternal, "wrapped error", err)
}

// CodeOf returns the code of the first *Error in the chain, or CodeInternal.
func CodeOf(err error) ErrorCode {
	if e, ok := As(err); ok {
		return e.Code
	}
	return CodeInternal
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	return err != nil && CodeOf(err) == CodeInvalidInput
}

// IsConfiguration reports whether err is a ConfigurationError.
func IsConfiguration(err error) bool {
	return err != nil && CodeOf(err) == CodeConfiguration
}

// IsProvider reports whether err is a ProviderError of any kind.
func IsProvider(err error) bool {
	if err == nil {
		return false
	}
	switch CodeOf(err) {
	case CodeProvider, CodeUnauthorized, CodeTimeout:
		return true
	}
	return false
}

// RecoverableString returns "true" or "false" as a string for observability.
func (e *Error) RecoverableString() string {
	if e.Recoverable {
		return "true"
	}
	return "false"
}

// codeToStatusCode maps error codes to HTTP status codes.
func codeToStatusCode(code ErrorCode) int {
	switch code {
	case CodeUnauthorized:
		return 401
	case CodeInvalidInput:
		return 400
	case CodeTimeout:
		return 504
	case CodeProvider:
		return 502
	default:
		return 500
	}
}
