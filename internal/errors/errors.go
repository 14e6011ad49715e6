// Package errors provides standardized error handling for launchpad. It
// defines the error taxonomy of the action tree (scan, activation, invocation,
// startup) and helper functions for consistent creation, wrapping, and
// classification across the application.
package errors

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Standard errors package functions re-exported for convenience
var (
	// Unwrap unwraps an error to access the underlying error
	Unwrap = errors.Unwrap
	// Is reports whether any error in err's chain matches target
	Is = errors.Is
	// As finds the first error in err's chain that matches target
	As = errors.As
)

// ErrorKind represents the kind of error
type ErrorKind int

// Error kinds
const (
	Unknown ErrorKind = iota
	// Scan error kinds
	ManifestUnreadable
	ManifestInvalid
	PathCollision
	DuplicateAction
	// Invocation error kinds
	ActionFailed
	ActionCancelled
	ActionNotFound
	ActionInactive
	// Config error kinds
	InvalidConfig
	// Startup error kinds
	PathUnreachable
)

// ApplicationError is the base error type for all application errors
type ApplicationError struct {
	msg  string
	err  error
	kind ErrorKind
}

// Error returns the error message
func (e *ApplicationError) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.err)
	}
	return e.msg
}

// Unwrap returns the wrapped error
func (e *ApplicationError) Unwrap() error {
	return e.err
}

// Kind returns the kind of error
func (e *ApplicationError) Kind() ErrorKind {
	return e.kind
}

// ScanError represents a failure while loading one action source. Scans are
// partial-failure tolerant: a ScanError is logged and the broken source is
// skipped, it never aborts the whole scan.
type ScanError struct {
	ApplicationError
	source string
}

// NewScanError creates a new scan error for the given source file
func NewScanError(msg string, source string, kind ErrorKind, err error) *ScanError {
	return &ScanError{
		ApplicationError: ApplicationError{msg: msg, err: err, kind: kind},
		source:           source,
	}
}

// Error returns the scan error message
func (e *ScanError) Error() string {
	if e.source != "" {
		if e.err != nil {
			return fmt.Sprintf("%s: %s: %v", e.msg, e.source, e.err)
		}
		return fmt.Sprintf("%s: %s", e.msg, e.source)
	}
	return e.ApplicationError.Error()
}

// Source returns the file or folder the scan failed on
func (e *ScanError) Source() string {
	return e.source
}

// InvocationError represents a failure raised by an action callback. It is
// caught at the controller boundary and rendered into the content region;
// navigation must stay usable afterwards.
type InvocationError struct {
	ApplicationError
	action string
}

// NewInvocationError creates a new invocation error for the named action
func NewInvocationError(msg string, action string, kind ErrorKind, err error) *InvocationError {
	return &InvocationError{
		ApplicationError: ApplicationError{msg: msg, err: err, kind: kind},
		action:           action,
	}
}

// Error returns the invocation error message
func (e *InvocationError) Error() string {
	if e.action != "" {
		if e.err != nil {
			return fmt.Sprintf("%s: %s: %v", e.msg, e.action, e.err)
		}
		return fmt.Sprintf("%s: %s", e.msg, e.action)
	}
	return e.ApplicationError.Error()
}

// Action returns the action the invocation failed for
func (e *InvocationError) Action() string {
	return e.action
}

// ConfigError represents errors related to configuration
type ConfigError struct {
	ApplicationError
	param string
}

// NewConfigError creates a new configuration error
func NewConfigError(msg string, param string, kind ErrorKind, err error) *ConfigError {
	return &ConfigError{
		ApplicationError: ApplicationError{msg: msg, err: err, kind: kind},
		param:            param,
	}
}

// Error returns the config error message
func (e *ConfigError) Error() string {
	if e.param != "" {
		if e.err != nil {
			return fmt.Sprintf("%s: %s: %v", e.msg, e.param, e.err)
		}
		return fmt.Sprintf("%s: %s", e.msg, e.param)
	}
	return e.ApplicationError.Error()
}

// Param returns the configuration parameter associated with the error
func (e *ConfigError) Param() string {
	return e.param
}

// StartupError reports required external paths that are unreachable. It is the
// only error allowed to terminate the process: the CLI prints it with the
// configured support contact and exits nonzero.
type StartupError struct {
	ApplicationError
	missing []string
	contact string
}

// NewStartupError creates a new startup error listing the unreachable paths
func NewStartupError(missing []string, contact string) *StartupError {
	return &StartupError{
		ApplicationError: ApplicationError{
			msg:  "required paths are unreachable",
			kind: PathUnreachable,
		},
		missing: missing,
		contact: contact,
	}
}

// Error returns the startup error with actionable guidance
func (e *StartupError) Error() string {
	var sb strings.Builder
	sb.WriteString(e.msg)
	for _, path := range e.missing {
		sb.WriteString("\n  ")
		sb.WriteString(path)
	}
	if e.contact != "" {
		sb.WriteString("\nPlease contact ")
		sb.WriteString(e.contact)
		sb.WriteString(" for help.")
	}
	return sb.String()
}

// Missing returns the unreachable paths
func (e *StartupError) Missing() []string {
	return e.missing
}

// New creates a new error with a message
func New(msg string) error {
	return &ApplicationError{msg: msg, kind: Unknown}
}

// Newf creates a new error with a formatted message
func Newf(format string, args ...interface{}) error {
	return &ApplicationError{msg: fmt.Sprintf(format, args...), kind: Unknown}
}

// Wrap wraps an existing error with additional context
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return &ApplicationError{msg: msg, err: err, kind: Unknown}
}

// Wrapf wraps an existing error with additional formatted context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return &ApplicationError{msg: fmt.Sprintf(format, args...), err: err, kind: Unknown}
}

// IsScanError checks if the error came from loading an action source
func IsScanError(err error) bool {
	var scanErr *ScanError
	return errors.As(err, &scanErr)
}

// IsCancelled checks if the error represents a user-cancelled action
func IsCancelled(err error) bool {
	if errors.Is(err, context.Canceled) {
		return true
	}
	var invErr *InvocationError
	if errors.As(err, &invErr) {
		return invErr.Kind() == ActionCancelled
	}
	return false
}

// IsStartupError checks if the error is fatal at startup
func IsStartupError(err error) bool {
	var startupErr *StartupError
	return errors.As(err, &startupErr)
}

// IsInvalidConfig checks if the error is an invalid configuration error
func IsInvalidConfig(err error) bool {
	var configErr *ConfigError
	if errors.As(err, &configErr) {
		return configErr.Kind() == InvalidConfig
	}
	return false
}
