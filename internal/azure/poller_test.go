package azure

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPoller() *Poller {
	header := http.Header{}
	header.Set("Ocp-Apim-Subscription-Key", "test-key")
	p := NewPoller(header)
	p.Interval = time.Millisecond
	return p
}

func TestWaitUntilSucceeded(t *testing.T) {
	statuses := []string{"NotStarted", "Running", "Succeeded"}
	var polls int

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.Header.Get("Ocp-Apim-Subscription-Key"))
		status := statuses[polls]
		polls++
		fmt.Fprintf(w, `{"status": %q, "result": {"contents": []}}`, status)
	}))
	defer server.Close()

	result, err := testPoller().Wait(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Equal(t, "Succeeded", result.Status)
	assert.True(t, result.Succeeded())
	assert.Equal(t, 3, polls)
	assert.Contains(t, string(result.Body), "contents")
}

func TestWaitTerminalFailureIsNotAnError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"status": "Failed", "error": {"code": "InvalidSchema", "message": "bad field"}}`)
	}))
	defer server.Close()

	result, err := testPoller().Wait(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Equal(t, "Failed", result.Status)
	assert.False(t, result.Succeeded())
	assert.Contains(t, string(result.Body), "InvalidSchema")
}

func TestWaitLowercaseStatuses(t *testing.T) {
	// Document Intelligence reports statuses lowercase.
	statuses := []string{"notStarted", "running", "succeeded"}
	var polls int

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		status := statuses[polls]
		polls++
		fmt.Fprintf(w, `{"status": %q}`, status)
	}))
	defer server.Close()

	result, err := testPoller().Wait(context.Background(), server.URL)
	require.NoError(t, err)
	assert.True(t, result.Succeeded())
	assert.Equal(t, 3, polls)
}

func TestWaitHTTPErrorIsTerminal(t *testing.T) {
	var polls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		polls++
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"error": {"code": "NotFound", "message": "no such operation"}}`)
	}))
	defer server.Close()

	_, err := testPoller().Wait(context.Background(), server.URL)
	require.Error(t, err)
	assert.ErrorContains(t, err, "NotFound")
	assert.Equal(t, 1, polls, "a 4xx status response should not be retried")
}

func TestWaitMissingStatusField(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"id": "abc"}`)
	}))
	defer server.Close()

	_, err := testPoller().Wait(context.Background(), server.URL)
	require.Error(t, err)
	assert.ErrorContains(t, err, "no status field")
}

func TestWaitAttemptBudgetExhausted(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"status": "Running"}`)
	}))
	defer server.Close()

	p := testPoller()
	p.MaxPolls = 3

	_, err := p.Wait(context.Background(), server.URL)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrOperationRunning)
	assert.ErrorContains(t, err, "did not complete after 3 polls")
}

func TestWaitCanceledContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"status": "Running"}`)
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := testPoller().Wait(ctx, server.URL)
	require.Error(t, err)
}

func TestNewAPIError(t *testing.T) {
	err := NewAPIError(http.StatusForbidden, []byte(`{"error": {"code": "AuthorizationFailure", "message": "key is not valid"}}`))
	assert.Equal(t, http.StatusForbidden, err.StatusCode)
	assert.Equal(t, "AuthorizationFailure", err.Code)
	assert.Equal(t, "key is not valid", err.Message)
	assert.Contains(t, err.Error(), "AuthorizationFailure")
	assert.Contains(t, err.Error(), "403")
}

func TestNewAPIErrorWithoutEnvelope(t *testing.T) {
	err := NewAPIError(http.StatusBadGateway, []byte("upstream unavailable"))
	assert.Empty(t, err.Code)
	assert.Contains(t, err.Error(), "upstream unavailable")
}

func TestIsNotFound(t *testing.T) {
	notFound := NewAPIError(http.StatusNotFound, nil)
	assert.True(t, IsNotFound(notFound))
	assert.True(t, IsNotFound(fmt.Errorf("wrapped: %w", notFound)))
	assert.False(t, IsNotFound(NewAPIError(http.StatusForbidden, nil)))
	assert.False(t, IsNotFound(context.Canceled))
}
