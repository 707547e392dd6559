package errors

import (
	"fmt"
)

// Process exit codes.
const (
	ExitOK     = 0
	ExitFailed = 1
	ExitUsage  = 2
)

// InputError reports an artifact that could not be read or has no analyzer.
type InputError struct {
	Path string
	Err  error
}

// Error implements the error interface for InputError.
func (e *InputError) Error() string {
	return fmt.Sprintf("cannot read %q: %v", e.Path, e.Err)
}

// Unwrap returns the underlying cause.
func (e *InputError) Unwrap() error {
	return e.Err
}

// NewInputError creates a new InputError for the given path.
func NewInputError(path string, err error) *InputError {
	return &InputError{Path: path, Err: err}
}

// ParseFailure reports malformed input found by a structural parser.
type ParseFailure struct {
	Line    int
	Message string
}

// Error implements the error interface for ParseFailure.
func (e *ParseFailure) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return e.Message
}

// NewParseFailure creates a new ParseFailure.
func NewParseFailure(line int, format string, args ...interface{}) *ParseFailure {
	return &ParseFailure{Line: line, Message: fmt.Sprintf(format, args...)}
}

// RuleEvaluationError reports a rule that failed or panicked on one artifact.
type RuleEvaluationError struct {
	RuleID string
	Err    error
}

// Error implements the error interface for RuleEvaluationError.
func (e *RuleEvaluationError) Error() string {
	return fmt.Sprintf("rule %q failed: %v", e.RuleID, e.Err)
}

// Unwrap returns the underlying cause.
func (e *RuleEvaluationError) Unwrap() error {
	return e.Err
}

// CommandError carries the exit code a command wants the process to end with.
type CommandError struct {
	ExitCode    int
	CommonError string
}

// Error implements the error interface, returning the message from the common error.
func (e *CommandError) Error() string {
	return e.CommonError
}

// NewCommandError creates a new CommandError from an error and an exit code.
func NewCommandError(err error, code int) *CommandError {
	return &CommandError{
		ExitCode:    code,
		CommonError: err.Error(),
	}
}

// NewUsageError creates a CommandError with the usage exit code.
func NewUsageError(format string, args ...interface{}) *CommandError {
	return &CommandError{
		ExitCode:    ExitUsage,
		CommonError: fmt.Sprintf(format, args...),
	}
}
