package contentunderstanding

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(t *testing.T, endpoint string) *Client {
	t.Helper()
	client, err := NewClient(Config{
		Endpoint:     endpoint,
		Key:          "test-key",
		PollInterval: time.Millisecond,
	})
	require.NoError(t, err)
	return client
}

func TestNewClientValidation(t *testing.T) {
	_, err := NewClient(Config{Key: "key"})
	assert.ErrorIs(t, err, ErrInvalidConfiguration)

	_, err = NewClient(Config{Endpoint: "https://example.com"})
	assert.ErrorIs(t, err, ErrInvalidConfiguration)
}

func TestCreateAnalyzer(t *testing.T) {
	var requests []string
	var polls int

	mux := http.NewServeMux()
	server := httptest.NewServer(mux)
	defer server.Close()

	mux.HandleFunc("/contentunderstanding/analyzers/biz-cards", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.Header.Get("Ocp-Apim-Subscription-Key"))
		assert.Equal(t, "2025-05-01-preview", r.URL.Query().Get("api-version"))
		requests = append(requests, r.Method)

		switch r.Method {
		case http.MethodDelete:
			w.WriteHeader(http.StatusNoContent)
		case http.MethodPut:
			body, err := io.ReadAll(r.Body)
			require.NoError(t, err)
			assert.Contains(t, string(body), "fieldSchema")
			w.Header().Set("Operation-Location", server.URL+"/operations/op-1")
			w.WriteHeader(http.StatusCreated)
		default:
			t.Errorf("unexpected method %s", r.Method)
		}
	})
	mux.HandleFunc("/operations/op-1", func(w http.ResponseWriter, r *http.Request) {
		polls++
		if polls < 2 {
			fmt.Fprint(w, `{"status": "Running"}`)
			return
		}
		fmt.Fprint(w, `{"status": "Succeeded"}`)
	})

	client := testClient(t, server.URL)
	schema := []byte(`{"description": "Business card", "fieldSchema": {"fields": {}}}`)

	err := client.CreateAnalyzer(context.Background(), "biz-cards", schema)
	require.NoError(t, err)

	// Replace semantics: delete before create.
	assert.Equal(t, []string{http.MethodDelete, http.MethodPut}, requests)
	assert.Equal(t, 2, polls)
}

func TestCreateAnalyzerRejectsInvalidSchema(t *testing.T) {
	client := testClient(t, "https://example.invalid")

	err := client.CreateAnalyzer(context.Background(), "biz-cards", []byte("not json"))
	assert.ErrorIs(t, err, ErrInvalidConfiguration)
}

func TestCreateAnalyzerOperationFailed(t *testing.T) {
	mux := http.NewServeMux()
	server := httptest.NewServer(mux)
	defer server.Close()

	mux.HandleFunc("/contentunderstanding/analyzers/biz-cards", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodDelete {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Operation-Location", server.URL+"/operations/op-1")
		w.WriteHeader(http.StatusCreated)
	})
	mux.HandleFunc("/operations/op-1", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"status": "Failed", "error": {"code": "InvalidSchema", "message": "unknown field type"}}`)
	})

	client := testClient(t, server.URL)

	err := client.CreateAnalyzer(context.Background(), "biz-cards", []byte(`{}`))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCreateFailed)
	assert.ErrorContains(t, err, "Failed")
}

func TestCreateAnalyzerMissingOperationLocation(t *testing.T) {
	mux := http.NewServeMux()
	server := httptest.NewServer(mux)
	defer server.Close()

	mux.HandleFunc("/contentunderstanding/analyzers/biz-cards", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodDelete {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		w.WriteHeader(http.StatusAccepted)
	})

	client := testClient(t, server.URL)

	err := client.CreateAnalyzer(context.Background(), "biz-cards", []byte(`{}`))
	assert.ErrorIs(t, err, ErrNoOperationID)
}

func TestDeleteAnalyzerIgnoresNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := testClient(t, server.URL)
	assert.NoError(t, client.DeleteAnalyzer(context.Background(), "missing"))
}

func TestDeleteAnalyzerPropagatesServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		fmt.Fprint(w, `{"error": {"code": "AuthorizationFailure", "message": "key is not valid"}}`)
	}))
	defer server.Close()

	client := testClient(t, server.URL)
	err := client.DeleteAnalyzer(context.Background(), "biz-cards")
	require.Error(t, err)
	assert.ErrorContains(t, err, "AuthorizationFailure")
}

func TestAnalyze(t *testing.T) {
	const resultJSON = `{
		"id": "op-42",
		"status": "Succeeded",
		"result": {
			"analyzerId": "biz-cards",
			"contents": [{
				"fields": {
					"ContactName": {"type": "string", "valueString": "Roberto Tamburello"},
					"YearsInRole": {"type": "integer", "valueInteger": 7},
					"Emails": {"type": "array", "valueArray": [
						{"type": "string", "valueString": "roberto@adventure-works.com"}
					]}
				}
			}]
		}
	}`

	var polls int
	mux := http.NewServeMux()
	server := httptest.NewServer(mux)
	defer server.Close()

	mux.HandleFunc("/contentunderstanding/analyzers/biz-cards:analyze", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/octet-stream", r.Header.Get("Content-Type"))

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		assert.Equal(t, "fake image bytes", string(body))

		w.WriteHeader(http.StatusAccepted)
		fmt.Fprint(w, `{"id": "op-42", "status": "NotStarted"}`)
	})
	mux.HandleFunc("/contentunderstanding/analyzerResults/op-42", func(w http.ResponseWriter, r *http.Request) {
		polls++
		if polls < 2 {
			fmt.Fprint(w, `{"id": "op-42", "status": "Running"}`)
			return
		}
		fmt.Fprint(w, resultJSON)
	})

	client := testClient(t, server.URL)

	result, err := client.Analyze(context.Background(), "biz-cards", strings.NewReader("fake image bytes"))
	require.NoError(t, err)

	require.Len(t, result.Result.Contents, 1)
	fields := result.Result.Contents[0].Fields
	assert.Equal(t, "Roberto Tamburello", fields["ContactName"].Format())
	assert.Equal(t, "7", fields["YearsInRole"].Format())
	assert.Equal(t, "roberto@adventure-works.com", fields["Emails"].Format())
	assert.Contains(t, string(result.Raw), "analyzerId")
}

func TestAnalyzeUnknownAnalyzer(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"error": {"code": "NotFound", "message": "analyzer not found"}}`)
	}))
	defer server.Close()

	client := testClient(t, server.URL)

	_, err := client.Analyze(context.Background(), "missing", strings.NewReader("data"))
	assert.ErrorIs(t, err, ErrAnalyzerNotFound)
}

func TestAnalyzeMissingOperationID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
		fmt.Fprint(w, `{"status": "NotStarted"}`)
	}))
	defer server.Close()

	client := testClient(t, server.URL)

	_, err := client.Analyze(context.Background(), "biz-cards", strings.NewReader("data"))
	assert.ErrorIs(t, err, ErrNoOperationID)
}

func TestAnalyzeOperationFailed(t *testing.T) {
	mux := http.NewServeMux()
	server := httptest.NewServer(mux)
	defer server.Close()

	mux.HandleFunc("/contentunderstanding/analyzers/biz-cards:analyze", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
		fmt.Fprint(w, `{"id": "op-9"}`)
	})
	mux.HandleFunc("/contentunderstanding/analyzerResults/op-9", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"status": "Failed", "error": {"code": "InvalidImage", "message": "unsupported format"}}`)
	})

	client := testClient(t, server.URL)

	_, err := client.Analyze(context.Background(), "biz-cards", strings.NewReader("data"))
	assert.ErrorIs(t, err, ErrAnalysisFailed)
}
