// Package search provides a query client for Azure Cognitive Search
// document indexes.
//
// Queries run against an existing index populated by an enrichment
// pipeline; the documents carry AI-extracted entities (locations, people)
// and key phrases alongside the indexed blob metadata.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/rs/zerolog"

	"docextract/internal/azure"
	"docextract/internal/logger"
)

// DefaultAPIVersion is the Cognitive Search API version this client is
// written against.
const DefaultAPIVersion = "2023-11-01"

// Common search errors
var (
	// ErrInvalidConfiguration is returned when endpoint, key or index are missing.
	ErrInvalidConfiguration = errors.New("invalid search configuration")

	// ErrEmptyQuery is returned when the query text is empty.
	ErrEmptyQuery = errors.New("query text must not be empty")
)

// Config holds the connection settings for a Cognitive Search index.
type Config struct {
	// Endpoint is the search service endpoint URL.
	Endpoint string

	// QueryKey is the query API key sent as api-key. A query key is
	// sufficient; admin rights are not needed for searching.
	QueryKey string

	// Index is the name of the index to query.
	Index string

	// APIVersion overrides DefaultAPIVersion when set.
	APIVersion string
}

// Options control a single search request.
type Options struct {
	// Select lists the fields to return. Empty means the document name
	// plus the enrichment fields: metadata_storage_name, locations,
	// people, keyphrases.
	Select []string

	// OrderBy sorts results. Empty means metadata_storage_name.
	OrderBy []string
}

// Results is one page of search hits with the total match count.
type Results struct {
	// Count is the total number of documents matching the query.
	Count int64

	// Documents are the returned hits in order.
	Documents []Document
}

// Document is a single search hit with its AI-extracted enrichments.
type Document struct {
	Name       string   `json:"metadata_storage_name"`
	Locations  []string `json:"locations"`
	People     []string `json:"people"`
	KeyPhrases []string `json:"keyphrases"`
	Score      float64  `json:"@search.score"`
}

// searchRequest is the POST body of the documents search API.
type searchRequest struct {
	Search  string `json:"search"`
	Select  string `json:"select,omitempty"`
	OrderBy string `json:"orderby,omitempty"`
	Count   bool   `json:"count"`
}

// searchResponse is the response envelope of the documents search API.
type searchResponse struct {
	Count int64      `json:"@odata.count"`
	Value []Document `json:"value"`
}

// Client queries a single Cognitive Search index.
type Client struct {
	endpoint   string
	queryKey   string
	index      string
	apiVersion string
	httpClient *http.Client
	log        zerolog.Logger
}

// NewClient creates a search client for the configured index.
func NewClient(cfg Config) (*Client, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("%w: endpoint is required", ErrInvalidConfiguration)
	}
	if cfg.QueryKey == "" {
		return nil, fmt.Errorf("%w: query key is required", ErrInvalidConfiguration)
	}
	if cfg.Index == "" {
		return nil, fmt.Errorf("%w: index name is required", ErrInvalidConfiguration)
	}

	apiVersion := cfg.APIVersion
	if apiVersion == "" {
		apiVersion = DefaultAPIVersion
	}

	return &Client{
		endpoint:   strings.TrimRight(cfg.Endpoint, "/"),
		queryKey:   cfg.QueryKey,
		index:      cfg.Index,
		apiVersion: apiVersion,
		httpClient: http.DefaultClient,
		log:        logger.WithComponent("search"),
	}, nil
}

// Search runs a full-text query against the index and returns the matching
// documents with the total count.
func (c *Client) Search(ctx context.Context, query string, opts Options) (*Results, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptyQuery
	}

	selectFields := opts.Select
	if len(selectFields) == 0 {
		selectFields = []string{"metadata_storage_name", "locations", "people", "keyphrases"}
	}
	orderBy := opts.OrderBy
	if len(orderBy) == 0 {
		orderBy = []string{"metadata_storage_name"}
	}

	body, err := json.Marshal(searchRequest{
		Search:  query,
		Select:  strings.Join(selectFields, ","),
		OrderBy: strings.Join(orderBy, ","),
		Count:   true,
	})
	if err != nil {
		return nil, fmt.Errorf("encoding search request: %w", err)
	}

	searchURL := fmt.Sprintf("%s/indexes/%s/docs/search?api-version=%s",
		c.endpoint, url.PathEscape(c.index), c.apiVersion)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, searchURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating search request: %w", err)
	}
	req.Header.Set("api-key", c.queryKey)
	req.Header.Set("Content-Type", "application/json")

	c.log.Debug().Str("index", c.index).Str("query", query).Msg("Searching index")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("searching index: %w", err)
	}
	respBody, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return nil, fmt.Errorf("reading search response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("searching index %q: %w", c.index, azure.NewAPIError(resp.StatusCode, respBody))
	}

	var envelope searchResponse
	if err := json.Unmarshal(respBody, &envelope); err != nil {
		return nil, fmt.Errorf("decoding search response: %w", err)
	}

	c.log.Info().
		Str("index", c.index).
		Int64("total", envelope.Count).
		Int("returned", len(envelope.Value)).
		Msg("Search completed")

	return &Results{Count: envelope.Count, Documents: envelope.Value}, nil
}
