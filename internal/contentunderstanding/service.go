// Package contentunderstanding provides a REST client for the Azure AI
// Content Understanding service.
//
// An analyzer is a named server-side configuration describing the fields to
// extract from a document. This package supports creating and deleting
// analyzers and running inference against them.
//
// Required Environment Variables (loaded by the caller):
//   - ENDPOINT: Azure AI Services endpoint URL (for Azure AI Foundry this
//     includes the /projects/<project-id> path)
//   - KEY: Azure AI Services API key
//   - ANALYZER_NAME: name of the analyzer to create or invoke
//
// Service Behavior:
//   - Creation and analysis are asynchronous: the submission returns an
//     operation to poll until it reaches "Succeeded" or "Failed".
//   - An analyzer name cannot be reused without deleting the existing
//     analyzer first; CreateAnalyzer deletes before creating.
//   - Extracted fields are typed (string, number, integer, date, time,
//     array, object) with a type-specific value property each.
package contentunderstanding

import (
	"context"
	"io"
	"time"
)

// DefaultAPIVersion is the Content Understanding API version this client
// is written against.
const DefaultAPIVersion = "2025-05-01-preview"

// Service defines the interface for Content Understanding operations.
type Service interface {
	// CreateAnalyzer creates (or replaces) an analyzer from a schema
	// document describing the fields to extract.
	CreateAnalyzer(ctx context.Context, name string, schema []byte) error

	// DeleteAnalyzer removes an analyzer. Deleting an analyzer that does
	// not exist is not an error.
	DeleteAnalyzer(ctx context.Context, name string) error

	// Analyze submits document content to a named analyzer and waits for
	// the extraction result.
	Analyze(ctx context.Context, name string, content io.Reader) (*AnalyzeResult, error)
}

// Config holds the connection settings for the Content Understanding API.
type Config struct {
	// Endpoint is the Azure AI Services endpoint URL.
	Endpoint string

	// Key is the API key sent as Ocp-Apim-Subscription-Key.
	Key string

	// APIVersion overrides DefaultAPIVersion when set.
	APIVersion string

	// PollInterval is the fixed delay between operation status polls.
	// Default: 1 second.
	PollInterval time.Duration
}

// AnalyzeResult is the outcome of a successful analysis.
type AnalyzeResult struct {
	// Result holds the decoded analysis result.
	Result Result

	// Raw is the complete JSON body of the final operation response,
	// suitable for saving to disk for inspection.
	Raw []byte
}
