package video

import (
	"errors"
	"fmt"
)

// Errors for the trim pipeline. Callers match them with errors.Is.
var (
	ErrInvalidFormat     = errors.New("invalid timestamp format")
	ErrNotFound          = errors.New("file does not exist")
	ErrNotAFile          = errors.New("path is not a regular file")
	ErrUnsupportedFormat = errors.New("unsupported file format")
	ErrPermissionDenied  = errors.New("permission denied")
	ErrProbeFailed       = errors.New("probe failed")
	ErrInvalidRange      = errors.New("invalid time range")
	ErrExecutionFailed   = errors.New("trim execution failed")
	ErrOutputMissing     = errors.New("output file was not created")
	ErrUserCancelled     = errors.New("operation cancelled by user")
	ErrTimeout           = errors.New("operation timed out")
	ErrOutputIsInput     = errors.New("output path must differ from input path")
)

// ExecutionError carries the diagnostic output of a failed ffmpeg run.
type ExecutionError struct {
	Stderr string
	Err    error
}

func (e *ExecutionError) Error() string {
	if e.Stderr == "" {
		return fmt.Sprintf("%s: %v", ErrExecutionFailed, e.Err)
	}
	return fmt.Sprintf("%s: %v\n%s", ErrExecutionFailed, e.Err, e.Stderr)
}

func (e *ExecutionError) Unwrap() error {
	return e.Err
}

// Is reports ExecutionError as ErrExecutionFailed.
func (e *ExecutionError) Is(target error) bool {
	return target == ErrExecutionFailed
}
