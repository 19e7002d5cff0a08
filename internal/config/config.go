package config

import (
	"fmt"
	"os"

	"docextract/internal/logger"
)

// Config collects all environment-driven settings. Each command validates
// only the settings it actually needs, because the tools are independent:
// running a search must not require a Content Understanding key.
type Config struct {
	// Azure AI Services (Content Understanding)
	Endpoint     string
	Key          string
	AnalyzerName string

	// Document Intelligence. Falls back to the AI Services endpoint and key
	// when not set separately, which matches a single multi-service resource.
	DocIntelEndpoint string
	DocIntelKey      string

	// Cognitive Search
	SearchEndpoint string
	QueryKey       string
	IndexName      string

	// Logging
	LogLevel      string
	LogFormat     string
	LogTimeFormat string
	LogOutput     string
}

// Load reads the configuration from environment variables.
func Load() *Config {
	cfg := &Config{
		Endpoint:         getEnv("ENDPOINT", ""),
		Key:              getEnv("KEY", ""),
		AnalyzerName:     getEnv("ANALYZER_NAME", ""),
		DocIntelEndpoint: getEnv("DOCINTEL_ENDPOINT", ""),
		DocIntelKey:      getEnv("DOCINTEL_KEY", ""),
		SearchEndpoint:   getEnv("SEARCH_ENDPOINT", ""),
		QueryKey:         getEnv("QUERY_KEY", ""),
		IndexName:        getEnv("INDEX_NAME", ""),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		LogFormat:        getEnv("LOG_FORMAT", "console"),
		LogTimeFormat:    getEnv("LOG_TIME_FORMAT", "2006-01-02T15:04:05Z07:00"),
		LogOutput:        getEnv("LOG_OUTPUT", "stderr"),
	}

	if cfg.DocIntelEndpoint == "" {
		cfg.DocIntelEndpoint = cfg.Endpoint
	}
	if cfg.DocIntelKey == "" {
		cfg.DocIntelKey = cfg.Key
	}

	return cfg
}

// ValidateContentUnderstanding checks the settings required by the analyzer
// and analyze commands.
func (c *Config) ValidateContentUnderstanding() error {
	if c.Endpoint == "" {
		return fmt.Errorf("ENDPOINT is required")
	}
	if c.Key == "" {
		return fmt.Errorf("KEY is required")
	}
	if c.AnalyzerName == "" {
		return fmt.Errorf("ANALYZER_NAME is required")
	}
	return nil
}

// ValidateDocIntel checks the settings required by the invoice command.
func (c *Config) ValidateDocIntel() error {
	if c.DocIntelEndpoint == "" {
		return fmt.Errorf("DOCINTEL_ENDPOINT or ENDPOINT is required")
	}
	if c.DocIntelKey == "" {
		return fmt.Errorf("DOCINTEL_KEY or KEY is required")
	}
	return nil
}

// ValidateSearch checks the settings required by the search command.
func (c *Config) ValidateSearch() error {
	if c.SearchEndpoint == "" {
		return fmt.Errorf("SEARCH_ENDPOINT is required")
	}
	if c.QueryKey == "" {
		return fmt.Errorf("QUERY_KEY is required")
	}
	if c.IndexName == "" {
		return fmt.Errorf("INDEX_NAME is required")
	}
	return nil
}

// GetLoggerConfig returns a logger configuration from the main config
func (c *Config) GetLoggerConfig() logger.LogConfig {
	return logger.LogConfig{
		Level:      c.LogLevel,
		Format:     c.LogFormat,
		TimeFormat: c.LogTimeFormat,
		Output:     c.LogOutput,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
