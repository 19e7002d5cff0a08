package docintel

import "errors"

// Common Document Intelligence errors
var (
	// ErrInvalidConfiguration is returned when endpoint or key are missing.
	ErrInvalidConfiguration = errors.New("invalid Document Intelligence configuration")

	// ErrModelNotFound is returned when the requested model does not exist.
	ErrModelNotFound = errors.New("document model not found")

	// ErrAnalysisFailed is returned when an analysis operation reaches a
	// terminal status other than succeeded.
	ErrAnalysisFailed = errors.New("document analysis failed")

	// ErrMissingOperationLocation is returned when the submission response
	// carries no Operation-Location header to poll.
	ErrMissingOperationLocation = errors.New("no Operation-Location header returned by the service")
)
