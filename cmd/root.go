package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"docextract/internal/logger"
)

var version = "1.0.0"

var rootCmd = &cobra.Command{
	Use:   "docextract",
	Short: "docextract - extract information from documents with Azure AI services",
	Long: `docextract is a command-line interface for the Azure AI
information-extraction services: Content Understanding analyzers,
prebuilt Document Intelligence models, and Cognitive Search indexes.

Configuration is read from environment variables (a .env file in the
working directory is loaded automatically). Run a subcommand with --help
to see which variables it needs.`,
	Version: version,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("docextract - Azure AI information extraction")
		fmt.Println("Use --help to see available commands and options.")
	},
}

func Execute() {
	log := logger.WithComponent("cmd")

	if err := rootCmd.Execute(); err != nil {
		log.Error().
			Err(err).
			Msg("Command execution failed")
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
