// Package errors provides centralized error definitions and error handling
// utilities for the ownersync codebase. It defines domain-specific errors
// and error constructors with context wrapping.
//
// # Error Types
//
// Domain-specific errors map onto the phases of a sync run:
//   - ConfigError: missing credentials or malformed configuration
//   - DiscoveryError: repository coordinates or file listing unavailable
//   - ParseError: a malformed directive line inside one OWNERS file
//   - TransportError: the registry POST failed or returned a bad status
//
// # Usage
//
// Creating errors:
//
//	err := errors.NewDiscoveryError("failed to list repository tree", cause).
//		WithRepository("acme/widgets")
//
// Checking errors:
//
//	if errors.Is(err, errors.ErrRateLimited) { ... }
//
//	var discErr *errors.DiscoveryError
//	if errors.As(err, &discErr) { ... }
//
// ParseError is the only recoverable class: it never escalates past the line
// that produced it. Config, discovery and transport errors terminate the run.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Re-export standard library functions for convenience.
// This allows callers to import only this package for all error handling.
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
	New    = errors.New
	Join   = errors.Join
)

// Severity represents the severity level of an error.
type Severity int

const (
	// SeverityDebug is for errors that are useful for debugging but not critical.
	SeverityDebug Severity = iota
	// SeverityWarning is for errors that might indicate a problem but aren't fatal.
	SeverityWarning
	// SeverityError is for errors that terminate the run.
	SeverityError
)

// String returns the string representation of the severity level.
func (s Severity) String() string {
	switch s {
	case SeverityDebug:
		return "debug"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "unknown"
	}
}

// -----------------------------------------------------------------------------
// Sentinel Errors
// -----------------------------------------------------------------------------

// Configuration-related sentinel errors
var (
	// ErrMissingCredential indicates a token required by the selected mode is absent.
	ErrMissingCredential = New("required credential not set")
	// ErrInvalidArguments indicates malformed CLI input.
	ErrInvalidArguments = New("invalid arguments")
)

// Discovery-related sentinel errors
var (
	// ErrNotGitRepository indicates that the directory is not a git repository.
	ErrNotGitRepository = New("not a git repository")
	// ErrNoRemote indicates that the repository has no usable origin remote.
	ErrNoRemote = New("no origin remote configured")
	// ErrRateLimited indicates the remote listing exhausted its rate-limit retries.
	ErrRateLimited = New("rate limit retries exhausted")
	// ErrFileNotFound indicates a listed file could not be read back.
	ErrFileNotFound = New("file not found")
)

// Transport-related sentinel errors
var (
	// ErrUnexpectedStatus indicates the registry answered with a non-200 status.
	ErrUnexpectedStatus = New("unexpected response status")
)

// -----------------------------------------------------------------------------
// Base Error Implementation
// -----------------------------------------------------------------------------

// baseError provides common functionality for all error types.
type baseError struct {
	message    string
	cause      error
	severity   Severity
	retryable  bool
	userFacing bool
}

// Error returns the error message.
func (e *baseError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

// Unwrap returns the underlying error.
func (e *baseError) Unwrap() error {
	return e.cause
}

// Is checks if this error matches the target.
func (e *baseError) Is(target error) bool {
	if e.cause != nil {
		return errors.Is(e.cause, target)
	}
	return false
}

// Severity returns the error severity.
func (e *baseError) Severity() Severity {
	return e.severity
}

// IsRetryable returns whether the error is retryable.
func (e *baseError) IsRetryable() bool {
	return e.retryable
}

// IsUserFacing returns whether the error is safe to show users.
func (e *baseError) IsUserFacing() bool {
	return e.userFacing
}

// -----------------------------------------------------------------------------
// Domain-Specific Errors
// -----------------------------------------------------------------------------

// ConfigError represents missing credentials or malformed configuration.
// Config errors are always fatal and nothing is sent before they surface.
//
// Example:
//
//	err := errors.NewConfigError("registry token required in live mode", errors.ErrMissingCredential).
//		WithSetting("registry.token")
type ConfigError struct {
	baseError
	Setting string
}

// NewConfigError creates a new ConfigError.
func NewConfigError(message string, cause error) *ConfigError {
	return &ConfigError{
		baseError: baseError{
			message:    message,
			cause:      cause,
			severity:   SeverityError,
			retryable:  false,
			userFacing: true,
		},
	}
}

// WithSetting adds the offending setting name to the error context.
func (e *ConfigError) WithSetting(setting string) *ConfigError {
	e.Setting = setting
	return e
}

// Error returns the formatted error message.
func (e *ConfigError) Error() string {
	prefix := "config error"
	if e.Setting != "" {
		prefix = fmt.Sprintf("config error [setting=%s]", e.Setting)
	}
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.message, e.cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.message)
}

// Is checks if this error matches the target.
func (e *ConfigError) Is(target error) bool {
	if _, ok := target.(*ConfigError); ok {
		return true
	}
	return e.baseError.Is(target)
}

// DiscoveryError represents a failure to resolve repository coordinates or
// enumerate candidate files, locally or through the hosting API.
//
// Example:
//
//	err := errors.NewDiscoveryError("failed to resolve origin", errors.ErrNoRemote).
//		WithRepository(repoDir)
type DiscoveryError struct {
	baseError
	Repository string
	Path       string
	StatusCode int
}

// NewDiscoveryError creates a new DiscoveryError.
func NewDiscoveryError(message string, cause error) *DiscoveryError {
	return &DiscoveryError{
		baseError: baseError{
			message:    message,
			cause:      cause,
			severity:   SeverityError,
			retryable:  false,
			userFacing: true,
		},
	}
}

// WithRepository adds repository coordinates or a local path to the error context.
func (e *DiscoveryError) WithRepository(repo string) *DiscoveryError {
	e.Repository = repo
	return e
}

// WithPath adds the tree path being listed to the error context.
func (e *DiscoveryError) WithPath(path string) *DiscoveryError {
	e.Path = path
	return e
}

// WithStatusCode adds the hosting API status code to the error context.
func (e *DiscoveryError) WithStatusCode(code int) *DiscoveryError {
	e.StatusCode = code
	return e
}

// Error returns the formatted error message.
func (e *DiscoveryError) Error() string {
	var parts []string
	if e.Repository != "" {
		parts = append(parts, fmt.Sprintf("repo=%s", e.Repository))
	}
	if e.Path != "" {
		parts = append(parts, fmt.Sprintf("path=%s", e.Path))
	}
	if e.StatusCode != 0 {
		parts = append(parts, fmt.Sprintf("status=%d", e.StatusCode))
	}

	prefix := "discovery error"
	if len(parts) > 0 {
		prefix = fmt.Sprintf("discovery error [%s]", strings.Join(parts, ", "))
	}

	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.message, e.cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.message)
}

// Is checks if this error matches the target.
func (e *DiscoveryError) Is(target error) bool {
	if _, ok := target.(*DiscoveryError); ok {
		return true
	}
	return e.baseError.Is(target)
}

// ParseError represents a malformed directive line inside one OWNERS file.
// Parse errors are recovered where they occur: the line is skipped and the
// rest of the file and run proceed. They exist as a type so callers can log
// them uniformly under debug mode.
type ParseError struct {
	baseError
	File string
	Line int
}

// NewParseError creates a new ParseError.
func NewParseError(message string) *ParseError {
	return &ParseError{
		baseError: baseError{
			message:    message,
			severity:   SeverityDebug,
			retryable:  false,
			userFacing: true,
		},
	}
}

// WithFile adds the file path to the error context.
func (e *ParseError) WithFile(file string) *ParseError {
	e.File = file
	return e
}

// WithLine adds the one-based line number to the error context.
func (e *ParseError) WithLine(line int) *ParseError {
	e.Line = line
	return e
}

// Error returns the formatted error message.
func (e *ParseError) Error() string {
	var parts []string
	if e.File != "" {
		parts = append(parts, fmt.Sprintf("file=%s", e.File))
	}
	if e.Line > 0 {
		parts = append(parts, fmt.Sprintf("line=%d", e.Line))
	}

	prefix := "parse error"
	if len(parts) > 0 {
		prefix = fmt.Sprintf("parse error [%s]", strings.Join(parts, ", "))
	}
	return fmt.Sprintf("%s: %s", prefix, e.message)
}

// Is checks if this error matches the target.
func (e *ParseError) Is(target error) bool {
	if _, ok := target.(*ParseError); ok {
		return true
	}
	return e.baseError.Is(target)
}

// TransportError represents a failed registry POST: either the request never
// completed or the registry answered with a non-200 status.
//
// Example:
//
//	err := errors.NewTransportError("sync rejected", errors.ErrUnexpectedStatus).
//		WithStatusCode(404).
//		WithResponseBody(body)
type TransportError struct {
	baseError
	URL          string
	StatusCode   int
	ResponseBody string
}

// NewTransportError creates a new TransportError.
func NewTransportError(message string, cause error) *TransportError {
	return &TransportError{
		baseError: baseError{
			message:    message,
			cause:      cause,
			severity:   SeverityError,
			retryable:  false,
			userFacing: true,
		},
	}
}

// WithURL adds the target URL to the error context.
func (e *TransportError) WithURL(url string) *TransportError {
	e.URL = url
	return e
}

// WithStatusCode adds the response status code to the error context.
func (e *TransportError) WithStatusCode(code int) *TransportError {
	e.StatusCode = code
	return e
}

// WithResponseBody adds the response body to the error context.
func (e *TransportError) WithResponseBody(body string) *TransportError {
	e.ResponseBody = body
	return e
}

// Error returns the formatted error message.
func (e *TransportError) Error() string {
	var parts []string
	if e.URL != "" {
		parts = append(parts, fmt.Sprintf("url=%s", e.URL))
	}
	if e.StatusCode != 0 {
		parts = append(parts, fmt.Sprintf("status=%d", e.StatusCode))
	}

	prefix := "transport error"
	if len(parts) > 0 {
		prefix = fmt.Sprintf("transport error [%s]", strings.Join(parts, ", "))
	}

	msg := e.message
	if e.cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.cause)
	}
	if e.ResponseBody != "" {
		msg = fmt.Sprintf("%s\nresponse body: %s", msg, e.ResponseBody)
	}
	return fmt.Sprintf("%s: %s", prefix, msg)
}

// Is checks if this error matches the target.
func (e *TransportError) Is(target error) bool {
	if _, ok := target.(*TransportError); ok {
		return true
	}
	return e.baseError.Is(target)
}

// -----------------------------------------------------------------------------
// Convenience Constructors
// -----------------------------------------------------------------------------

// Wrap wraps an error with additional context message.
//
// Example:
//
//	err := errors.Wrap(baseErr, "failed to assemble payload")
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}
