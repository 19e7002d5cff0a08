package docintel

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/rs/zerolog"

	"docextract/internal/azure"
	"docextract/internal/logger"
)

// Client implements Service against the Document Intelligence REST API.
type Client struct {
	endpoint   string
	key        string
	apiVersion string
	httpClient *http.Client
	poller     *azure.Poller
	log        zerolog.Logger
}

// NewClient creates a Document Intelligence client from the given config.
func NewClient(cfg Config) (*Client, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("%w: endpoint is required", ErrInvalidConfiguration)
	}
	if cfg.Key == "" {
		return nil, fmt.Errorf("%w: key is required", ErrInvalidConfiguration)
	}

	apiVersion := cfg.APIVersion
	if apiVersion == "" {
		apiVersion = DefaultAPIVersion
	}

	header := http.Header{}
	header.Set("Ocp-Apim-Subscription-Key", cfg.Key)

	poller := azure.NewPoller(header)
	if cfg.PollInterval > 0 {
		poller.Interval = cfg.PollInterval
	}

	return &Client{
		endpoint:   strings.TrimRight(cfg.Endpoint, "/"),
		key:        cfg.Key,
		apiVersion: apiVersion,
		httpClient: http.DefaultClient,
		poller:     poller,
		log:        logger.WithComponent("docintel"),
	}, nil
}

// AnalyzeURL analyzes a document reachable at a public URL.
func (c *Client) AnalyzeURL(ctx context.Context, modelID, documentURL, locale string) (*AnalyzeResult, error) {
	request := map[string]string{"urlSource": documentURL}
	return c.analyze(ctx, modelID, locale, request)
}

// AnalyzeFile analyzes local document content by sending it base64-encoded.
func (c *Client) AnalyzeFile(ctx context.Context, modelID string, document io.Reader, locale string) (*AnalyzeResult, error) {
	data, err := io.ReadAll(document)
	if err != nil {
		return nil, fmt.Errorf("reading document: %w", err)
	}
	request := map[string]string{"base64Source": base64.StdEncoding.EncodeToString(data)}
	return c.analyze(ctx, modelID, locale, request)
}

func (c *Client) analyze(ctx context.Context, modelID, locale string, request map[string]string) (*AnalyzeResult, error) {
	if modelID == "" {
		modelID = DefaultModelID
	}

	body, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("encoding analyze request: %w", err)
	}

	analyzeURL := fmt.Sprintf("%s/formrecognizer/documentModels/%s:analyze?api-version=%s",
		c.endpoint, url.PathEscape(modelID), c.apiVersion)
	if locale != "" {
		analyzeURL += "&locale=" + url.QueryEscape(locale)
	}

	c.log.Info().Str("model", modelID).Str("locale", locale).Msg("Submitting document for analysis")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, analyzeURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating analyze request: %w", err)
	}
	req.Header.Set("Ocp-Apim-Subscription-Key", c.key)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("submitting document: %w", err)
	}
	respBody, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return nil, fmt.Errorf("reading analyze response: %w", err)
	}

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: %s", ErrModelNotFound, modelID)
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("submitting document: %w", azure.NewAPIError(resp.StatusCode, respBody))
	}

	operationURL := resp.Header.Get("Operation-Location")
	if operationURL == "" {
		return nil, ErrMissingOperationLocation
	}

	operation, err := c.poller.Wait(ctx, operationURL)
	if err != nil {
		return nil, fmt.Errorf("waiting for analysis: %w", err)
	}
	if !operation.Succeeded() {
		c.log.Error().Str("status", operation.Status).RawJSON("response", operation.Body).Msg("Analysis failed")
		return nil, fmt.Errorf("%w: terminal status %q", ErrAnalysisFailed, operation.Status)
	}

	var envelope operationEnvelope
	if err := json.Unmarshal(operation.Body, &envelope); err != nil {
		return nil, fmt.Errorf("decoding analysis result: %w", err)
	}
	if envelope.AnalyzeResult == nil {
		return nil, fmt.Errorf("%w: no analyzeResult in response", ErrAnalysisFailed)
	}

	result := envelope.AnalyzeResult
	result.Raw = operation.Body

	c.log.Info().
		Str("model", result.ModelID).
		Int("documents", len(result.Documents)).
		Msg("Analysis succeeded")

	return result, nil
}
