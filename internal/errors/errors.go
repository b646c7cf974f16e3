// Package errors provides structured error handling for the relcut CLI.
// Every failure is categorized and fatal to the run; categories exist so the
// user can tell a misconfiguration from an upstream or repository problem.
package errors

import (
	stderrors "errors"
	"fmt"
)

// Category classifies what went wrong.
type Category int

const (
	// Configuration errors are caused by missing credentials or invalid settings.
	Configuration Category = iota
	// Structure errors are caused by malformed inputs relcut relies on:
	// a changelog without its heading, a manifest version that does not parse.
	Structure
	// Upstream errors come from the release advisor: HTTP failures or
	// responses that fail validation.
	Upstream
	// UserAbort records an explicit user decision to stop the release.
	UserAbort
	// Execution errors come from the git or npm collaborators failing.
	Execution
)

// String returns a human-readable name for the category.
func (c Category) String() string {
	switch c {
	case Configuration:
		return "Configuration Error"
	case Structure:
		return "Structure Error"
	case Upstream:
		return "Upstream Error"
	case UserAbort:
		return "Aborted"
	case Execution:
		return "Execution Error"
	default:
		return "Error"
	}
}

// CLIError is a structured error with a category and remediation guidance.
type CLIError struct {
	// Category is the kind of failure.
	Category Category
	// Message is a human-readable description of what went wrong.
	Message string
	// Remediation is a list of actionable steps to resolve the error.
	Remediation []string
	// Err is the underlying error, if any.
	Err error
}

// Error implements the error interface.
func (e *CLIError) Error() string {
	return e.Message
}

// Unwrap exposes the underlying error for errors.Is/As.
func (e *CLIError) Unwrap() error {
	return e.Err
}

// NewConfigurationError creates a configuration error with remediation steps.
func NewConfigurationError(message string, remediation ...string) *CLIError {
	return &CLIError{Category: Configuration, Message: message, Remediation: remediation}
}

// NewStructureError creates a structure error.
func NewStructureError(message string, remediation ...string) *CLIError {
	return &CLIError{Category: Structure, Message: message, Remediation: remediation}
}

// NewUpstreamError creates an upstream error.
func NewUpstreamError(message string, remediation ...string) *CLIError {
	return &CLIError{Category: Upstream, Message: message, Remediation: remediation}
}

// NewUserAbort records an explicit user abort.
func NewUserAbort(message string) *CLIError {
	return &CLIError{Category: UserAbort, Message: message}
}

// NewExecutionError creates an execution error.
func NewExecutionError(message string, remediation ...string) *CLIError {
	return &CLIError{Category: Execution, Message: message, Remediation: remediation}
}

// Wrap wraps an existing error with a category, preserving its message.
// Returns nil for a nil error. An error that is already a CLIError keeps
// its original category.
func Wrap(err error, category Category, remediation ...string) *CLIError {
	if err == nil {
		return nil
	}
	if cliErr := AsCLIError(err); cliErr != nil {
		return cliErr
	}
	return &CLIError{Category: category, Message: err.Error(), Remediation: remediation, Err: err}
}

// WrapWithMessage wraps an error with a contextual message and category.
func WrapWithMessage(err error, category Category, message string, remediation ...string) *CLIError {
	if err == nil {
		return nil
	}
	return &CLIError{
		Category:    category,
		Message:     fmt.Sprintf("%s: %v", message, err),
		Remediation: remediation,
		Err:         err,
	}
}

// AsCLIError converts an error to a *CLIError, or returns nil.
func AsCLIError(err error) *CLIError {
	var cliErr *CLIError
	if stderrors.As(err, &cliErr) {
		return cliErr
	}
	return nil
}

// IsUserAbort reports whether the error records an explicit user abort.
func IsUserAbort(err error) bool {
	cliErr := AsCLIError(err)
	return cliErr != nil && cliErr.Category == UserAbort
}
