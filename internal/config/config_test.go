package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "console", cfg.LogFormat)
	assert.Equal(t, "stderr", cfg.LogOutput)
}

func TestDocIntelFallsBackToAIServices(t *testing.T) {
	t.Setenv("ENDPOINT", "https://my-resource.cognitiveservices.azure.com")
	t.Setenv("KEY", "shared-key")

	cfg := Load()
	assert.Equal(t, "https://my-resource.cognitiveservices.azure.com", cfg.DocIntelEndpoint)
	assert.Equal(t, "shared-key", cfg.DocIntelKey)
}

func TestDocIntelOverrides(t *testing.T) {
	t.Setenv("ENDPOINT", "https://shared.cognitiveservices.azure.com")
	t.Setenv("KEY", "shared-key")
	t.Setenv("DOCINTEL_ENDPOINT", "https://docintel.cognitiveservices.azure.com")
	t.Setenv("DOCINTEL_KEY", "docintel-key")

	cfg := Load()
	assert.Equal(t, "https://docintel.cognitiveservices.azure.com", cfg.DocIntelEndpoint)
	assert.Equal(t, "docintel-key", cfg.DocIntelKey)
}

func TestValidateContentUnderstanding(t *testing.T) {
	t.Setenv("ENDPOINT", "https://my-resource.cognitiveservices.azure.com")
	t.Setenv("KEY", "key")
	t.Setenv("ANALYZER_NAME", "biz-cards")

	require.NoError(t, Load().ValidateContentUnderstanding())

	t.Setenv("ANALYZER_NAME", "")
	assert.ErrorContains(t, Load().ValidateContentUnderstanding(), "ANALYZER_NAME")
}

func TestValidateSearchIndependentOfAIServices(t *testing.T) {
	// The search command must not require the Content Understanding settings.
	t.Setenv("SEARCH_ENDPOINT", "https://my-search.search.windows.net")
	t.Setenv("QUERY_KEY", "query-key")
	t.Setenv("INDEX_NAME", "margies-index")

	cfg := Load()
	require.NoError(t, cfg.ValidateSearch())
	assert.Error(t, cfg.ValidateContentUnderstanding())
}

func TestValidateSearchMissingKey(t *testing.T) {
	t.Setenv("SEARCH_ENDPOINT", "https://my-search.search.windows.net")
	t.Setenv("INDEX_NAME", "margies-index")

	assert.ErrorContains(t, Load().ValidateSearch(), "QUERY_KEY")
}
