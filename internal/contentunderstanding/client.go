package contentunderstanding

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"

	"docextract/internal/azure"
	"docextract/internal/logger"
)

// settleDelay is the pause after deletion before recreating an analyzer,
// and before the first status poll. The service needs a moment to register
// the operation.
const settleDelay = time.Second

// Client implements Service against the Content Understanding REST API.
type Client struct {
	endpoint   string
	key        string
	apiVersion string
	settle     time.Duration
	httpClient *http.Client
	poller     *azure.Poller
	log        zerolog.Logger
}

// NewClient creates a Content Understanding client from the given config.
func NewClient(cfg Config) (*Client, error) {
	if cfg.Endpoint == "" {
		return nil, wrapOperationError("NewClient", ErrInvalidConfiguration, "endpoint is required")
	}
	if cfg.Key == "" {
		return nil, wrapOperationError("NewClient", ErrInvalidConfiguration, "key is required")
	}

	apiVersion := cfg.APIVersion
	if apiVersion == "" {
		apiVersion = DefaultAPIVersion
	}

	header := http.Header{}
	header.Set("Ocp-Apim-Subscription-Key", cfg.Key)

	poller := azure.NewPoller(header)
	settle := settleDelay
	if cfg.PollInterval > 0 {
		poller.Interval = cfg.PollInterval
		// Scale the settle pause with the poll interval so short-interval
		// setups are not dominated by fixed sleeps.
		settle = cfg.PollInterval
	}

	return &Client{
		endpoint:   strings.TrimRight(cfg.Endpoint, "/"),
		key:        cfg.Key,
		apiVersion: apiVersion,
		settle:     settle,
		httpClient: http.DefaultClient,
		poller:     poller,
		log:        logger.WithComponent("content-understanding"),
	}, nil
}

// CreateAnalyzer creates an analyzer from a schema document. Any existing
// analyzer with the same name is deleted first, because the service rejects
// creation under a duplicate name.
func (c *Client) CreateAnalyzer(ctx context.Context, name string, schema []byte) error {
	const op = "CreateAnalyzer"

	if !json.Valid(schema) {
		return wrapOperationError(op, ErrInvalidConfiguration, "schema is not valid JSON")
	}

	c.log.Info().Str("analyzer", name).Msg("Creating analyzer")

	if err := c.DeleteAnalyzer(ctx, name); err != nil {
		return wrapOperationError(op, err, "deleting existing analyzer")
	}
	if err := sleepCtx(ctx, c.settle); err != nil {
		return wrapOperationError(op, err, "")
	}

	resp, body, err := c.do(ctx, http.MethodPut, c.analyzerURL(name), "application/json", bytes.NewReader(schema))
	if err != nil {
		return wrapOperationError(op, err, "")
	}
	if resp.StatusCode >= 400 {
		return wrapOperationError(op, azure.NewAPIError(resp.StatusCode, body), "submitting analyzer schema")
	}

	operationURL := resp.Header.Get("Operation-Location")
	if operationURL == "" {
		return wrapOperationError(op, ErrNoOperationID, "response has no Operation-Location header")
	}

	result, err := c.poller.Wait(ctx, operationURL)
	if err != nil {
		return wrapOperationError(op, err, "")
	}
	if !result.Succeeded() {
		c.log.Error().Str("status", result.Status).RawJSON("response", result.Body).Msg("Analyzer creation failed")
		return wrapOperationError(op, ErrCreateFailed, fmt.Sprintf("terminal status %q", result.Status))
	}

	c.log.Info().Str("analyzer", name).Msg("Analyzer created")
	return nil
}

// DeleteAnalyzer removes an analyzer. A 404 from the service is treated as
// success so that creation over a clean slate never fails here.
func (c *Client) DeleteAnalyzer(ctx context.Context, name string) error {
	const op = "DeleteAnalyzer"

	resp, body, err := c.do(ctx, http.MethodDelete, c.analyzerURL(name), "", nil)
	if err != nil {
		return wrapOperationError(op, err, "")
	}
	if resp.StatusCode >= 400 && resp.StatusCode != http.StatusNotFound {
		return wrapOperationError(op, azure.NewAPIError(resp.StatusCode, body), "")
	}

	c.log.Debug().Str("analyzer", name).Int("status_code", resp.StatusCode).Msg("Analyzer deleted")
	return nil
}

// Analyze submits raw document content to the analyzer and polls the
// analyzerResults endpoint until the extraction completes.
func (c *Client) Analyze(ctx context.Context, name string, content io.Reader) (*AnalyzeResult, error) {
	const op = "Analyze"

	data, err := io.ReadAll(content)
	if err != nil {
		return nil, wrapOperationError(op, err, "reading document content")
	}

	c.log.Info().Str("analyzer", name).Int("bytes", len(data)).Msg("Submitting content for analysis")

	analyzeURL := c.analyzerURL(name)
	analyzeURL = strings.Replace(analyzeURL, "?", ":analyze?", 1)

	resp, body, err := c.do(ctx, http.MethodPost, analyzeURL, "application/octet-stream", bytes.NewReader(data))
	if err != nil {
		return nil, wrapOperationError(op, err, "")
	}
	if resp.StatusCode == http.StatusNotFound {
		return nil, wrapOperationError(op, ErrAnalyzerNotFound, name)
	}
	if resp.StatusCode >= 400 {
		return nil, wrapOperationError(op, azure.NewAPIError(resp.StatusCode, body), "submitting content")
	}

	operationID := gjson.GetBytes(body, "id").String()
	if operationID == "" {
		return nil, wrapOperationError(op, ErrNoOperationID, "")
	}

	if err := sleepCtx(ctx, c.settle); err != nil {
		return nil, wrapOperationError(op, err, "")
	}

	resultURL := fmt.Sprintf("%s/contentunderstanding/analyzerResults/%s?api-version=%s",
		c.endpoint, url.PathEscape(operationID), c.apiVersion)

	operation, err := c.poller.Wait(ctx, resultURL)
	if err != nil {
		return nil, wrapOperationError(op, err, "")
	}
	if !operation.Succeeded() {
		c.log.Error().Str("status", operation.Status).RawJSON("response", operation.Body).Msg("Analysis failed")
		return nil, wrapOperationError(op, ErrAnalysisFailed, fmt.Sprintf("terminal status %q", operation.Status))
	}

	var envelope operationEnvelope
	if err := json.Unmarshal(operation.Body, &envelope); err != nil {
		return nil, wrapOperationError(op, err, "decoding analysis result")
	}

	c.log.Info().
		Str("analyzer", name).
		Int("contents", len(envelope.Result.Contents)).
		Msg("Analysis succeeded")

	return &AnalyzeResult{Result: envelope.Result, Raw: operation.Body}, nil
}

// analyzerURL builds the versioned analyzer resource URL.
func (c *Client) analyzerURL(name string) string {
	return fmt.Sprintf("%s/contentunderstanding/analyzers/%s?api-version=%s",
		c.endpoint, url.PathEscape(name), c.apiVersion)
}

// do performs a single HTTP request with the subscription key header and
// returns the response together with its fully read body.
func (c *Client) do(ctx context.Context, method, requestURL, contentType string, body io.Reader) (*http.Response, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, requestURL, body)
	if err != nil {
		return nil, nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Ocp-Apim-Subscription-Key", c.key)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("%s %s: %w", method, requestURL, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("reading response body: %w", err)
	}

	return resp, respBody, nil
}

// sleepCtx waits for d or until ctx is canceled.
func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
