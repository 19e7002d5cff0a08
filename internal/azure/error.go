// Package azure provides shared plumbing for the Azure AI REST surfaces:
// the long-running-operation poller and error envelope handling.
package azure

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/tidwall/gjson"
)

// APIError represents a non-success response from an Azure service.
// Code and Message are taken from the standard error envelope
// ({"error": {"code": ..., "message": ...}}) when present.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
	Body       []byte
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("azure: %s (HTTP %d): %s", e.Code, e.StatusCode, e.Message)
	}
	if len(e.Body) > 0 {
		return fmt.Sprintf("azure: HTTP %d: %s", e.StatusCode, string(e.Body))
	}
	return fmt.Sprintf("azure: HTTP %d %s", e.StatusCode, http.StatusText(e.StatusCode))
}

// NewAPIError builds an APIError from a response status and body.
func NewAPIError(statusCode int, body []byte) *APIError {
	return &APIError{
		StatusCode: statusCode,
		Code:       gjson.GetBytes(body, "error.code").String(),
		Message:    gjson.GetBytes(body, "error.message").String(),
		Body:       body,
	}
}

// IsNotFound reports whether err wraps an APIError with HTTP status 404.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}
