// Copyright 2026 © The Rulesetgen Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/jllopis/rulesetgen/pkg/errors"
)

// CLIError wraps an Error with a hint for the user.
type CLIError struct {
	Err  *errors.Error
	Hint string
}

// Error returns the formatted error message with hints.
func (e *CLIError) Error() string {
	if e.Err == nil {
		return "unknown error"
	}
	msg := e.Err.Error()
	if e.Hint != "" {
		msg += "\n  Hint: " + e.Hint
	}
	return msg
}

// Unwrap returns the underlying Error.
func (e *CLIError) Unwrap() error {
	return e.Err
}

// Print writes the error to w.
func (e *CLIError) Print(w io.Writer, asJSON bool) {
	if e.Err == nil {
		fmt.Fprintln(w, "Error: unknown error")
		return
	}
	if asJSON {
		payload := map[string]any{"error": map[string]any{
			"code":    e.Err.Code,
			"message": e.Err.Message,
			"hint":    e.Hint,
		}}
		_ = json.NewEncoder(w).Encode(payload)
		return
	}

	fmt.Fprintf(w, "Error [%s]: %s\n", e.Err.Code, e.Err.Message)
	if e.Err.Err != nil {
		fmt.Fprintf(w, "  Cause: %v\n", e.Err.Err)
	}
	if e.Hint != "" {
		fmt.Fprintf(w, "  Hint: %s\n", e.Hint)
	}
}

// wrapError classifies err and attaches a hint for its code.
func wrapError(err error) *CLIError {
	if ce, ok := err.(*CLIError); ok {
		return ce
	}
	e, ok := errors.As(err)
	if !ok {
		e = errors.New(errors.CodeInternal, err.Error(), nil)
	}
	return &CLIError{Err: e, Hint: hintFor(e.Code)}
}

func hintFor(code errors.ErrorCode) string {
	switch code {
	case errors.CodeConfiguration:
		return "check --config, --set values and RULESETGEN_* / provider environment variables"
	case errors.CodeInvalidInput:
		return "run 'rulesetgen generate --help' for the project description format"
	case errors.CodeUnauthorized:
		return "set the API key for the selected AI provider"
	case errors.CodeTimeout:
		return "increase llm.timeout or check that the provider is reachable"
	case errors.CodeProvider:
		return "the AI provider is unavailable; generation will use the fallback template"
	default:
		return ""
	}
}
