package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"docextract/internal/contentunderstanding"
	"docextract/internal/logger"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [file]",
	Short: "Extract fields from a document with a Content Understanding analyzer",
	Long: `Submit a document or image to a Content Understanding analyzer and
print the extracted fields.

Analysis is asynchronous: the service is polled until the operation
completes. The full result JSON is saved for inspection (see --output).

Required environment variables:
  ENDPOINT      - Azure AI Services endpoint URL
  KEY           - Azure AI Services API key
  ANALYZER_NAME - Analyzer name (can be overridden with --name)`,
	Example: `  # Analyze a business card image
  docextract analyze biz-card-1.png

  # Use a specific analyzer and result file
  docextract analyze card.png --name business-cards -o card-result.json`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().String("name", "", "Analyzer name (default: ANALYZER_NAME)")
	analyzeCmd.Flags().StringP("output", "o", "results.json", "File for the raw result JSON (empty to skip)")
	analyzeCmd.Flags().Int("timeout", 120, "Processing timeout in seconds")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("analyze")

	filePath := args[0]
	outputPath, _ := cmd.Flags().GetString("output")
	timeoutSecs, _ := cmd.Flags().GetInt("timeout")

	client, name, err := contentUnderstandingClient(cmd)
	if err != nil {
		return err
	}

	file, err := os.Open(filePath)
	if err != nil {
		log.Error().Err(err).Str("file", filePath).Msg("Failed to open document")
		return fmt.Errorf("failed to open document: %w", err)
	}
	defer file.Close()

	ctx, cancel := commandContext(timeoutSecs, log)
	defer cancel()

	fmt.Printf("Analyzing %s\n", filePath)

	result, err := client.Analyze(ctx, name, file)
	if err != nil {
		if errors.Is(err, contentunderstanding.ErrAnalyzerNotFound) {
			return fmt.Errorf("analyzer %q does not exist. Create it first with 'docextract analyzer create'", name)
		}
		log.Error().Err(err).Str("file", filePath).Msg("Analysis failed")
		return fmt.Errorf("analysis failed: %w", err)
	}

	if outputPath != "" {
		if err := os.WriteFile(outputPath, result.Raw, 0644); err != nil {
			log.Error().Err(err).Str("output_file", outputPath).Msg("Failed to write result file")
			return fmt.Errorf("failed to write result file: %w", err)
		}
		fmt.Printf("Response saved in %s\n\n", outputPath)
	}

	printFields(result)
	return nil
}

// printFields writes the extracted fields of every content entry to stdout,
// one "name: value" line per field.
func printFields(result *contentunderstanding.AnalyzeResult) {
	for _, content := range result.Result.Contents {
		if len(content.Fields) == 0 {
			continue
		}
		for _, fieldName := range content.FieldNames() {
			fmt.Printf("%s: %s\n", fieldName, content.Fields[fieldName].Format())
		}
	}
}
