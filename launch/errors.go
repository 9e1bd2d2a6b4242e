package launch

import (
	"errors"
	"fmt"
)

// Sentinel errors for common conditions.
var (
	// ErrNilFileSystem indicates the mandatory file-system capability
	// was not supplied at construction.
	ErrNilFileSystem = errors.New("file system capability is required")

	// ErrWorkingDirNotFound indicates the custom working directory does
	// not exist at materialization time.
	ErrWorkingDirNotFound = errors.New("working directory not found")

	// ErrNotStartable indicates a pure-data handle was asked to start;
	// execution belongs to an external collaborator.
	ErrNotStartable = errors.New("process handle is not startable")

	// ErrInvalidLaunch indicates invalid launch configuration.
	ErrInvalidLaunch = errors.New("invalid launch configuration")
)

// ErrorCode provides structured error classification.
type ErrorCode string

const (
	// ErrCodeConfiguration indicates bad setup: a missing mandatory
	// dependency or malformed construction input.
	ErrCodeConfiguration ErrorCode = "CONFIGURATION"

	// ErrCodeEnvironment indicates bad environment: the configuration
	// is sound but the surrounding filesystem state is not.
	ErrCodeEnvironment ErrorCode = "ENVIRONMENT"

	// ErrCodeNotStartable indicates a start attempt on a data-only handle.
	ErrCodeNotStartable ErrorCode = "NOT_STARTABLE"

	// ErrCodeInternal indicates an internal error.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// LaunchError provides detailed error information.
type LaunchError struct {
	// Op is the operation that failed.
	Op string

	// FileName is the executable the descriptor targets, if known.
	FileName string

	// Err is the underlying error.
	Err error

	// Code is the structured error code.
	Code ErrorCode

	// Details provides human-readable details.
	Details string

	// Retryable indicates if the operation can be retried after the
	// caller remediates the cause.
	Retryable bool
}

// Error returns the error message.
func (e *LaunchError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s: %s", e.Op, e.FileName, e.Details)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.FileName, e.Err)
}

// Unwrap returns the underlying error.
func (e *LaunchError) Unwrap() error {
	return e.Err
}

// Is reports whether the error matches the target.
func (e *LaunchError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// Error constructors for consistent error creation.

// NewConfigurationError creates a construction-time parameter failure
// naming the missing dependency or parameter.
func NewConfigurationError(parameter string) error {
	return &LaunchError{
		Op:        "construct",
		Err:       ErrNilFileSystem,
		Code:      ErrCodeConfiguration,
		Details:   fmt.Sprintf("parameter %q must not be nil", parameter),
		Retryable: false,
	}
}

// NewEnvironmentError creates a directory-not-found failure identifying
// the missing path. The caller may retry after creating the directory
// or changing the override.
func NewEnvironmentError(fileName, workingDir string) error {
	return &LaunchError{
		Op:        "create_process",
		FileName:  fileName,
		Err:       ErrWorkingDirNotFound,
		Code:      ErrCodeEnvironment,
		Details:   fmt.Sprintf("directory %q does not exist", workingDir),
		Retryable: true,
	}
}

// NewNotStartableError creates a start failure for data-only handles.
func NewNotStartableError(fileName string) error {
	return &LaunchError{
		Op:        "start",
		FileName:  fileName,
		Err:       ErrNotStartable,
		Code:      ErrCodeNotStartable,
		Details:   "handle carries configuration only; hand it to the execution layer",
		Retryable: false,
	}
}

// IsRetryable returns true if the error is retryable.
func IsRetryable(err error) bool {
	var launchErr *LaunchError
	if errors.As(err, &launchErr) {
		return launchErr.Retryable
	}
	return false
}

// GetErrorCode extracts the error code from an error.
func GetErrorCode(err error) ErrorCode {
	var launchErr *LaunchError
	if errors.As(err, &launchErr) {
		return launchErr.Code
	}
	return ErrCodeInternal
}
