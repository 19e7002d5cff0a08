package azure

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/avast/retry-go/v5"
	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"

	"docextract/internal/logger"
)

// ErrOperationRunning is returned between polls while the remote operation
// has not reached a terminal state. It never escapes Wait unless the attempt
// budget is exhausted first.
var ErrOperationRunning = errors.New("operation still running")

// StatusSucceeded is the terminal success status of Azure long-running
// operations. Document Intelligence reports it lowercase, Content
// Understanding capitalized, so all comparisons are case-insensitive.
const StatusSucceeded = "Succeeded"

const (
	defaultInterval = time.Second
	defaultMaxPolls = 120
)

// OperationResult is the final state of a polled operation.
type OperationResult struct {
	// Status is the terminal status as reported by the service.
	Status string

	// Body is the raw JSON of the last status response.
	Body []byte
}

// Succeeded reports whether the operation reached the success status.
func (r *OperationResult) Succeeded() bool {
	return strings.EqualFold(r.Status, StatusSucceeded)
}

// Poller repeatedly fetches an operation status URL at a fixed interval
// until the reported status leaves the transient set ("NotStarted",
// "Running"). This is the asynchronous-operation pattern shared by the
// Content Understanding and Document Intelligence APIs: a submission
// returns a status URL, and the caller polls it until "Succeeded" or
// "Failed".
type Poller struct {
	// HTTPClient used for status requests. Defaults to http.DefaultClient.
	HTTPClient *http.Client

	// Interval between polls. Defaults to one second, matching the
	// service guidance for the preview APIs.
	Interval time.Duration

	// MaxPolls bounds the number of status requests. Defaults to 120.
	MaxPolls uint

	// Header entries added to every status request (authentication).
	Header http.Header

	log zerolog.Logger
}

// NewPoller returns a Poller with default interval and attempt budget that
// sends the given headers on every status request.
func NewPoller(header http.Header) *Poller {
	return &Poller{
		HTTPClient: http.DefaultClient,
		Interval:   defaultInterval,
		MaxPolls:   defaultMaxPolls,
		Header:     header,
		log:        logger.WithComponent("poller"),
	}
}

// Wait polls operationURL until the operation reaches a terminal status or
// ctx is canceled. A terminal non-success status is not an error here; the
// caller decides how to report it, with the full response body available
// for diagnostics.
func (p *Poller) Wait(ctx context.Context, operationURL string) (*OperationResult, error) {
	client := p.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	interval := p.Interval
	if interval <= 0 {
		interval = defaultInterval
	}
	maxPolls := p.MaxPolls
	if maxPolls == 0 {
		maxPolls = defaultMaxPolls
	}

	var result *OperationResult

	err := retry.New(
		retry.Delay(interval),
		retry.DelayType(retry.FixedDelay),
		retry.Attempts(maxPolls),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			if !errors.Is(err, ErrOperationRunning) {
				p.log.Warn().Uint("attempt", n+1).Err(err).Msg("Retrying status request")
			}
		}),
	).Do(func() error {
		if ctx.Err() != nil {
			return retry.Unrecoverable(ctx.Err())
		}

		status, body, err := p.fetchStatus(ctx, client, operationURL)
		if err != nil {
			var apiErr *APIError
			if errors.As(err, &apiErr) {
				// The operation resource exists; a non-2xx answer here
				// will not improve on its own.
				return retry.Unrecoverable(err)
			}
			// Transient transport failure, poll again.
			return err
		}

		if isTransientStatus(status) {
			p.log.Debug().Str("status", status).Msg("Operation still running")
			return ErrOperationRunning
		}

		result = &OperationResult{Status: status, Body: body}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrOperationRunning) {
			return nil, fmt.Errorf("operation did not complete after %d polls: %w", maxPolls, err)
		}
		return nil, err
	}

	return result, nil
}

// fetchStatus performs one status request and extracts the status field.
func (p *Poller) fetchStatus(ctx context.Context, client *http.Client, url string) (string, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", nil, fmt.Errorf("creating status request: %w", err)
	}
	for key, values := range p.Header {
		for _, value := range values {
			req.Header.Add(key, value)
		}
	}

	resp, err := client.Do(req)
	if err != nil {
		return "", nil, fmt.Errorf("fetching operation status: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", nil, fmt.Errorf("reading status response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return "", nil, NewAPIError(resp.StatusCode, body)
	}

	status := gjson.GetBytes(body, "status").String()
	if status == "" {
		return "", nil, retry.Unrecoverable(fmt.Errorf("status response has no status field: %s", body))
	}

	return status, body, nil
}

func isTransientStatus(status string) bool {
	return strings.EqualFold(status, "Running") || strings.EqualFold(status, "NotStarted")
}
