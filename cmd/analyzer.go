package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"docextract/internal/config"
	"docextract/internal/contentunderstanding"
	"docextract/internal/logger"
)

var analyzerCmd = &cobra.Command{
	Use:   "analyzer",
	Short: "Manage Content Understanding analyzers",
	Long: `Create and delete Content Understanding analyzers.

An analyzer is a named server-side schema describing the fields to extract
from a document. Analyzers must be created before running 'docextract
analyze' against them.

Required environment variables:
  ENDPOINT      - Azure AI Services endpoint URL
  KEY           - Azure AI Services API key
  ANALYZER_NAME - Analyzer name (can be overridden with --name)`,
}

var analyzerCreateCmd = &cobra.Command{
	Use:   "create [schema-file]",
	Short: "Create (or replace) an analyzer from a field-schema JSON file",
	Long: `Create a Content Understanding analyzer from a schema file.

Any existing analyzer with the same name is deleted first, because the
service does not allow creating an analyzer under a name that is already
in use. Creation is asynchronous; the command waits until the service
reports a terminal status.`,
	Example: `  # Create the analyzer named by ANALYZER_NAME from biz-card.json
  docextract analyzer create biz-card.json

  # Create under an explicit name
  docextract analyzer create biz-card.json --name business-cards`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyzerCreate,
}

var analyzerDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete an analyzer",
	Args:  cobra.NoArgs,
	RunE:  runAnalyzerDelete,
}

func init() {
	rootCmd.AddCommand(analyzerCmd)
	analyzerCmd.AddCommand(analyzerCreateCmd)
	analyzerCmd.AddCommand(analyzerDeleteCmd)

	analyzerCmd.PersistentFlags().String("name", "", "Analyzer name (default: ANALYZER_NAME)")
	analyzerCmd.PersistentFlags().Int("timeout", 120, "Operation timeout in seconds")
}

func runAnalyzerCreate(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("analyzer")

	schemaPath := args[0]
	timeoutSecs, _ := cmd.Flags().GetInt("timeout")

	client, name, err := contentUnderstandingClient(cmd)
	if err != nil {
		return err
	}

	schema, err := os.ReadFile(schemaPath)
	if err != nil {
		log.Error().Err(err).Str("file", schemaPath).Msg("Failed to read schema file")
		return fmt.Errorf("failed to read schema file: %w", err)
	}

	ctx, cancel := commandContext(timeoutSecs, log)
	defer cancel()

	fmt.Printf("Creating %s\n", name)

	if err := client.CreateAnalyzer(ctx, name, schema); err != nil {
		log.Error().Err(err).Str("analyzer", name).Msg("Analyzer creation failed")
		return fmt.Errorf("analyzer creation failed: %w", err)
	}

	fmt.Printf("Analyzer '%s' created successfully.\n", name)
	return nil
}

func runAnalyzerDelete(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("analyzer")

	timeoutSecs, _ := cmd.Flags().GetInt("timeout")

	client, name, err := contentUnderstandingClient(cmd)
	if err != nil {
		return err
	}

	ctx, cancel := commandContext(timeoutSecs, log)
	defer cancel()

	if err := client.DeleteAnalyzer(ctx, name); err != nil {
		log.Error().Err(err).Str("analyzer", name).Msg("Analyzer deletion failed")
		return fmt.Errorf("analyzer deletion failed: %w", err)
	}

	fmt.Printf("Analyzer '%s' deleted.\n", name)
	return nil
}

// contentUnderstandingClient builds a Content Understanding client from the
// environment plus the --name override, validating the required settings.
func contentUnderstandingClient(cmd *cobra.Command) (*contentunderstanding.Client, string, error) {
	cfg := config.Load()

	name, _ := cmd.Flags().GetString("name")
	if name != "" {
		cfg.AnalyzerName = name
	}

	if err := cfg.ValidateContentUnderstanding(); err != nil {
		return nil, "", fmt.Errorf("missing configuration: %w\n"+
			"Please set in your environment or .env file:\n"+
			"  ENDPOINT      - Azure AI Services endpoint URL\n"+
			"  KEY           - Azure AI Services API key\n"+
			"  ANALYZER_NAME - analyzer name", err)
	}

	client, err := contentunderstanding.NewClient(contentunderstanding.Config{
		Endpoint: cfg.Endpoint,
		Key:      cfg.Key,
	})
	if err != nil {
		return nil, "", fmt.Errorf("failed to create Content Understanding client: %w", err)
	}

	return client, cfg.AnalyzerName, nil
}
