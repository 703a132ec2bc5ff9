// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/jeranaias/stockdeck/internal/api"
)

// =============================================================================
// EXIT CODES
// =============================================================================

const (
	// ExitSuccess indicates successful execution
	ExitSuccess = 0
	// ExitGeneralError indicates a general/unknown error
	ExitGeneralError = 1
	// ExitUsageError indicates invalid command usage or arguments
	ExitUsageError = 2
	// ExitConfigError indicates configuration file or settings error
	ExitConfigError = 3
	// ExitNetworkError indicates the backend was unreachable
	ExitNetworkError = 5
	// ExitNotFoundError indicates a resource was not found
	ExitNotFoundError = 7
	// ExitTimeoutError indicates an operation timed out
	ExitTimeoutError = 8
)

// =============================================================================
// ERROR TYPES
// =============================================================================

// UsageError represents invalid user input: a missing argument, a value out
// of range, or an unsupported option.
type UsageError struct {
	Field   string // Field that failed validation
	Value   string // Value that was provided
	Reason  string // Why validation failed
	Example string // Example of valid usage (optional)
}

func (e *UsageError) Error() string {
	msg := fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
	if e.Value != "" {
		msg += fmt.Sprintf(" (got: %s)", e.Value)
	}
	if e.Example != "" {
		msg += fmt.Sprintf("\nExample: %s", e.Example)
	}
	return msg
}

// ErrMissingArgument creates an error for missing required arguments.
func ErrMissingArgument(argName, usage string) error {
	return &UsageError{
		Field:   argName,
		Reason:  "required argument missing",
		Example: usage,
	}
}

// ErrInvalidValue creates an error for an argument outside its valid range
// or set.
func ErrInvalidValue(field, value, reason, example string) error {
	return &UsageError{
		Field:   field,
		Value:   value,
		Reason:  reason,
		Example: example,
	}
}

// =============================================================================
// ERROR DISPLAY
// =============================================================================

// DisplayError displays an error in a consistent format. In JSON mode the
// envelope goes to stdout so pipelines observe the failure; otherwise a
// styled line goes to stderr.
func DisplayError(command string, err error, jsonMode bool) {
	if err == nil {
		return
	}

	if jsonMode {
		NewJSONErrorResponse(command, err).Print()
		return
	}

	fmt.Fprintf(os.Stderr, "%s %s\n", ErrorStyle.Render("[ERROR]"), err.Error())
}

// GetExitCode determines the appropriate exit code for an error.
// Backend client errors map through the api error taxonomy; everything
// else falls back to message sniffing.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var usageErr *UsageError
	if errors.As(err, &usageErr) {
		return ExitUsageError
	}

	var ttyErr *TTYRequiredError
	if errors.As(err, &ttyErr) {
		return ExitUsageError
	}

	if api.IsTimeout(err) {
		return ExitTimeoutError
	}
	if api.IsTransportError(err) {
		return ExitNetworkError
	}
	if api.IsBadRequest(err) {
		return ExitUsageError
	}
	if api.IsNotFound(err) {
		return ExitNotFoundError
	}

	errMsg := strings.ToLower(err.Error())

	if strings.Contains(errMsg, "config") ||
		strings.Contains(errMsg, "configuration") {
		return ExitConfigError
	}

	if strings.Contains(errMsg, "connection") ||
		strings.Contains(errMsg, "unreachable") ||
		strings.Contains(errMsg, "dial") {
		return ExitNetworkError
	}

	if strings.Contains(errMsg, "timed out") ||
		strings.Contains(errMsg, "deadline exceeded") {
		return ExitTimeoutError
	}

	if strings.Contains(errMsg, "not found") {
		return ExitNotFoundError
	}

	return ExitGeneralError
}

// WrapError wraps an error with additional context as it bubbles up.
func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}
