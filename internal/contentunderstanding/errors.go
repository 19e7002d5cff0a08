package contentunderstanding

import (
	"errors"
	"fmt"
)

// Common Content Understanding errors
var (
	// ErrInvalidConfiguration is returned when endpoint or key are missing.
	ErrInvalidConfiguration = errors.New("invalid Content Understanding configuration")

	// ErrAnalyzerNotFound is returned when the named analyzer does not exist.
	ErrAnalyzerNotFound = errors.New("analyzer not found")

	// ErrCreateFailed is returned when analyzer creation reaches a terminal
	// status other than Succeeded.
	ErrCreateFailed = errors.New("analyzer creation failed")

	// ErrAnalysisFailed is returned when an analysis operation reaches a
	// terminal status other than Succeeded.
	ErrAnalysisFailed = errors.New("analysis failed")

	// ErrNoOperationID is returned when the analyze submission response
	// carries no operation ID to poll.
	ErrNoOperationID = errors.New("no operation ID returned by the service")
)

// OperationError wraps errors with context about the failed operation.
type OperationError struct {
	// Op is the operation that failed (e.g., "CreateAnalyzer").
	Op string

	// Err is the underlying error.
	Err error

	// Details provides additional context about the failure, typically the
	// service's error response body.
	Details string
}

// Error implements the error interface.
func (e *OperationError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("contentunderstanding: %s failed: %s: %v", e.Op, e.Details, e.Err)
	}
	return fmt.Sprintf("contentunderstanding: %s failed: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error for error unwrapping.
func (e *OperationError) Unwrap() error {
	return e.Err
}

func wrapOperationError(op string, err error, details string) error {
	if err == nil {
		return nil
	}
	var opErr *OperationError
	if errors.As(err, &opErr) {
		return err
	}
	return &OperationError{Op: op, Err: err, Details: details}
}
