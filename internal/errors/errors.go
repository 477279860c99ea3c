// Package errors provides structured error types and exit codes for testnorm.
package errors

import (
	"errors"
	"fmt"
)

// Process exit codes.
const (
	ExitSuccess      = 0 // Success
	ExitRuntimeError = 1 // Runtime error (unreadable input, failed write, failing tests with --fail-on-failures)
	ExitUsageError   = 2 // Usage or configuration error (bad arguments, invalid .testnorm.yaml)
)

// ErrorKind represents the type of error.
type ErrorKind int

const (
	KindRuntime ErrorKind = iota
	KindConfig
	KindUsage
	KindIO
	KindTestFailures
)

// Error is the base error type for testnorm commands.
type Error struct {
	Kind    ErrorKind
	Message string
	Command string // Command name if applicable
	Cause   error  // Underlying error
}

func (e *Error) Error() string {
	msg := e.Message
	if e.Command != "" {
		msg = fmt.Sprintf("%s: %s", e.Command, msg)
	}
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// ExitCode returns the appropriate exit code for this error.
func (e *Error) ExitCode() int {
	switch e.Kind {
	case KindConfig, KindUsage:
		return ExitUsageError
	default:
		return ExitRuntimeError
	}
}

// WithCommand returns a copy of e attributed to the named command.
func (e *Error) WithCommand(command string) *Error {
	c := *e
	c.Command = command
	return &c
}

// New creates a new runtime error.
func New(message string) *Error {
	return &Error{Kind: KindRuntime, Message: message}
}

// Newf creates a new runtime error with formatting.
func Newf(format string, args ...any) *Error {
	return New(fmt.Sprintf(format, args...))
}

// Config creates a new configuration error.
func Config(message string, cause error) *Error {
	return &Error{Kind: KindConfig, Message: message, Cause: cause}
}

// Usage creates a new usage error.
func Usage(message string) *Error {
	return &Error{Kind: KindUsage, Message: message}
}

// Usagef creates a new usage error with formatting.
func Usagef(format string, args ...any) *Error {
	return Usage(fmt.Sprintf(format, args...))
}

// IO wraps a file system failure on path.
func IO(op, path string, cause error) *Error {
	return &Error{Kind: KindIO, Message: fmt.Sprintf("failed to %s %s", op, path), Cause: cause}
}

// TestFailures reports that the converted results contain failing tests.
func TestFailures(failed int) *Error {
	return &Error{Kind: KindTestFailures, Message: fmt.Sprintf("%d failing test(s)", failed)}
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) *Error {
	return &Error{Kind: KindRuntime, Message: message, Cause: err}
}

// IsKind reports whether err, or any error it wraps, is an *Error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}

// GetExitCode returns the exit code for an error.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var e *Error
	if errors.As(err, &e) {
		return e.ExitCode()
	}
	return ExitRuntimeError
}
