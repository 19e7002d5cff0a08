// Package docintel provides a REST client for Azure AI Document
// Intelligence (formerly Form Recognizer) prebuilt models.
//
// A prebuilt model is a vendor-supplied, pre-trained document model such as
// "prebuilt-invoice" that requires no local training. Analysis is
// asynchronous: the submission returns an Operation-Location URL that is
// polled until the operation reaches a terminal state.
//
// API Limitations:
//   - Maximum file size: 500MB (4MB on the free tier)
//   - Supported formats: PDF, JPEG, PNG, BMP, TIFF, HEIF
//   - Statuses are reported lowercase ("running", "succeeded", "failed")
package docintel

import (
	"context"
	"io"
	"time"
)

const (
	// DefaultAPIVersion is the Document Intelligence API version this
	// client is written against.
	DefaultAPIVersion = "2023-07-31"

	// DefaultModelID is the prebuilt invoice model.
	DefaultModelID = "prebuilt-invoice"

	// DefaultLocale is the document locale hint sent with analysis requests.
	DefaultLocale = "en-US"
)

// Service defines the interface for prebuilt document analysis.
type Service interface {
	// AnalyzeURL analyzes a document reachable at a public URL.
	AnalyzeURL(ctx context.Context, modelID, documentURL, locale string) (*AnalyzeResult, error)

	// AnalyzeFile analyzes local document content.
	AnalyzeFile(ctx context.Context, modelID string, document io.Reader, locale string) (*AnalyzeResult, error)
}

// Config holds the connection settings for the Document Intelligence API.
type Config struct {
	// Endpoint is the Document Intelligence resource endpoint URL.
	Endpoint string

	// Key is the API key sent as Ocp-Apim-Subscription-Key.
	Key string

	// APIVersion overrides DefaultAPIVersion when set.
	APIVersion string

	// PollInterval is the fixed delay between operation status polls.
	// Default: 1 second.
	PollInterval time.Duration
}
