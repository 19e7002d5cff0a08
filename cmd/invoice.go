package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"docextract/internal/config"
	"docextract/internal/docintel"
	"docextract/internal/logger"
	"docextract/pkg/models"
)

var invoiceCmd = &cobra.Command{
	Use:   "invoice [url|file]",
	Short: "Analyze an invoice with the prebuilt Document Intelligence model",
	Long: `Analyze an invoice with Azure AI Document Intelligence.

The prebuilt invoice model extracts vendor, customer, dates and amounts
from an invoice without any training. The document can be a publicly
reachable URL or a local file.

Required environment variables:
  DOCINTEL_ENDPOINT - Document Intelligence endpoint URL (or ENDPOINT)
  DOCINTEL_KEY      - Document Intelligence API key (or KEY)`,
	Example: `  # Analyze an invoice by URL
  docextract invoice https://example.com/sample-invoice.pdf

  # Analyze a local PDF and save the structured summary
  docextract invoice invoice.pdf -o invoice-data.json

  # Print every extracted field, not just the summary set
  docextract invoice invoice.pdf --all-fields`,
	Args: cobra.ExactArgs(1),
	RunE: runInvoice,
}

// summaryFields are the invoice fields printed by default, in display order.
var summaryFields = []string{
	"VendorName",
	"CustomerName",
	"InvoiceId",
	"InvoiceDate",
	"DueDate",
	"SubTotal",
	"TotalTax",
	"InvoiceTotal",
}

func init() {
	rootCmd.AddCommand(invoiceCmd)

	invoiceCmd.Flags().String("model", docintel.DefaultModelID, "Document model ID")
	invoiceCmd.Flags().String("locale", docintel.DefaultLocale, "Document locale hint")
	invoiceCmd.Flags().StringP("output", "o", "", "File for the structured invoice JSON (default: none)")
	invoiceCmd.Flags().Bool("all-fields", false, "Print every extracted field")
	invoiceCmd.Flags().Int("timeout", 120, "Processing timeout in seconds")
}

func runInvoice(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("invoice")

	source := args[0]
	modelID, _ := cmd.Flags().GetString("model")
	locale, _ := cmd.Flags().GetString("locale")
	outputPath, _ := cmd.Flags().GetString("output")
	allFields, _ := cmd.Flags().GetBool("all-fields")
	timeoutSecs, _ := cmd.Flags().GetInt("timeout")

	cfg := config.Load()
	if err := cfg.ValidateDocIntel(); err != nil {
		return fmt.Errorf("missing configuration: %w\n"+
			"Please set in your environment or .env file:\n"+
			"  DOCINTEL_ENDPOINT (or ENDPOINT) - Document Intelligence endpoint URL\n"+
			"  DOCINTEL_KEY (or KEY)           - Document Intelligence API key", err)
	}

	client, err := docintel.NewClient(docintel.Config{
		Endpoint: cfg.DocIntelEndpoint,
		Key:      cfg.DocIntelKey,
	})
	if err != nil {
		return fmt.Errorf("failed to create Document Intelligence client: %w", err)
	}

	ctx, cancel := commandContext(timeoutSecs, log)
	defer cancel()

	fmt.Printf("Connecting to Document Intelligence at: %s\n", cfg.DocIntelEndpoint)
	fmt.Printf("Analyzing invoice at: %s\n\n", source)

	var result *docintel.AnalyzeResult
	if isURL(source) {
		result, err = client.AnalyzeURL(ctx, modelID, source, locale)
	} else {
		var file *os.File
		file, err = os.Open(source)
		if err != nil {
			log.Error().Err(err).Str("file", source).Msg("Failed to open invoice file")
			return fmt.Errorf("failed to open invoice file: %w", err)
		}
		defer file.Close()
		result, err = client.AnalyzeFile(ctx, modelID, file, locale)
	}
	if err != nil {
		return handleInvoiceError(err, modelID, log)
	}

	for _, document := range result.Documents {
		printInvoiceFields(document, allFields)
	}

	if outputPath != "" {
		if err := writeInvoiceSummary(result, outputPath, log); err != nil {
			return err
		}
	}

	fmt.Println("\nAnalysis complete.")
	return nil
}

// isURL reports whether the source argument is a URL rather than a file path.
func isURL(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}

// printInvoiceFields prints the extracted fields of one recognized invoice
// with the model's confidence in each.
func printInvoiceFields(document docintel.Document, allFields bool) {
	names := summaryFields
	if allFields {
		names = document.FieldNames()
	}
	for _, name := range names {
		field, ok := document.Fields[name]
		if !ok {
			continue
		}
		fmt.Printf("%s: '%s', with confidence %.2f.\n", name, field.Format(), field.Confidence)
	}
}

// handleInvoiceError provides user-friendly messages for analysis failures.
func handleInvoiceError(err error, modelID string, log zerolog.Logger) error {
	log.Error().Err(err).Msg("Invoice analysis failed")

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("invoice analysis timed out. Try increasing --timeout")
	case errors.Is(err, context.Canceled):
		return fmt.Errorf("invoice analysis was canceled")
	case errors.Is(err, docintel.ErrModelNotFound):
		return fmt.Errorf("document model %q not found. Check the --model flag", modelID)
	case errors.Is(err, docintel.ErrAnalysisFailed):
		return fmt.Errorf("the service could not analyze the document: %w", err)
	default:
		return fmt.Errorf("invoice analysis failed: %w", err)
	}
}

// writeInvoiceSummary converts the first recognized invoice into the
// structured summary model and writes it as indented JSON.
func writeInvoiceSummary(result *docintel.AnalyzeResult, outputPath string, log zerolog.Logger) error {
	var invoice models.Invoice
	if len(result.Documents) > 0 {
		invoice = invoiceSummary(result.Documents[0])
	}

	jsonData, err := json.MarshalIndent(invoice, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to create JSON output: %w", err)
	}

	if err := os.WriteFile(outputPath, jsonData, 0644); err != nil {
		log.Error().Err(err).Str("output_file", outputPath).Msg("Failed to write output file")
		return fmt.Errorf("failed to write output file: %w", err)
	}

	log.Info().
		Str("output_file", outputPath).
		Int("bytes", len(jsonData)).
		Msg("Invoice summary written to file")
	return nil
}

// invoiceSummary maps the prebuilt model's fields onto the Invoice model.
func invoiceSummary(document docintel.Document) models.Invoice {
	stringField := func(name string) string {
		return document.Fields[name].Format()
	}
	moneyField := func(name string) *models.Money {
		field, ok := document.Fields[name]
		if !ok || field.ValueCurrency == nil {
			return nil
		}
		return &models.Money{
			Amount: field.ValueCurrency.Amount,
			Symbol: field.ValueCurrency.Symbol,
			Code:   field.ValueCurrency.Code,
		}
	}

	return models.Invoice{
		InvoiceID:   stringField("InvoiceId"),
		Vendor:      stringField("VendorName"),
		Customer:    stringField("CustomerName"),
		InvoiceDate: stringField("InvoiceDate"),
		DueDate:     stringField("DueDate"),
		SubTotal:    moneyField("SubTotal"),
		TotalTax:    moneyField("TotalTax"),
		Total:       moneyField("InvoiceTotal"),
		AmountDue:   moneyField("AmountDue"),
	}
}
