package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"docextract/internal/config"
	"docextract/internal/logger"
	"docextract/internal/search"
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Query a Cognitive Search index",
	Long: `Run full-text queries against a Cognitive Search index and print the
matching documents with their AI-extracted enrichments (locations, people
and key phrases).

With a query argument the command runs once and exits. Without one it
enters an interactive loop; type 'quit' to leave.

Required environment variables:
  SEARCH_ENDPOINT - Search service endpoint URL
  QUERY_KEY       - Query API key
  INDEX_NAME      - Index to query`,
	Example: `  # Single query
  docextract search "London hotel"

  # Interactive session
  docextract search`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)

	searchCmd.Flags().StringSlice("select", nil, "Fields to return (default: name and enrichment fields)")
	searchCmd.Flags().Int("timeout", 60, "Query timeout in seconds")
}

func runSearch(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("search")

	selectFields, _ := cmd.Flags().GetStringSlice("select")
	timeoutSecs, _ := cmd.Flags().GetInt("timeout")

	cfg := config.Load()
	if err := cfg.ValidateSearch(); err != nil {
		return fmt.Errorf("missing configuration: %w\n"+
			"Please set in your environment or .env file:\n"+
			"  SEARCH_ENDPOINT - search service endpoint URL\n"+
			"  QUERY_KEY       - query API key\n"+
			"  INDEX_NAME      - index to query", err)
	}

	client, err := search.NewClient(search.Config{
		Endpoint: cfg.SearchEndpoint,
		QueryKey: cfg.QueryKey,
		Index:    cfg.IndexName,
	})
	if err != nil {
		return fmt.Errorf("failed to create search client: %w", err)
	}

	opts := search.Options{Select: selectFields}

	// One-shot mode
	if len(args) == 1 {
		ctx, cancel := commandContext(timeoutSecs, log)
		defer cancel()
		return runQuery(ctx, client, args[0], opts)
	}

	// Interactive mode
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("Enter a query (or type 'quit' to exit): ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		query := strings.TrimSpace(scanner.Text())

		if strings.EqualFold(query, "quit") {
			return nil
		}
		if query == "" {
			fmt.Println("Please enter a query.")
			continue
		}

		ctx, cancel := commandContext(timeoutSecs, log)
		err := runQuery(ctx, client, query, opts)
		cancel()
		if err != nil {
			// Report and keep the session alive; a bad query should not
			// end the loop.
			fmt.Fprintf(os.Stderr, "Search failed: %v\n", err)
			log.Error().Err(err).Str("query", query).Msg("Search failed")
		}
	}
}

// runQuery executes one search and prints the results.
func runQuery(ctx context.Context, client *search.Client, query string, opts search.Options) error {
	results, err := client.Search(ctx, query, opts)
	if err != nil {
		if errors.Is(err, search.ErrEmptyQuery) {
			fmt.Println("Please enter a query.")
			return nil
		}
		return err
	}

	fmt.Printf("\nSearch returned %d documents:\n", results.Count)
	for _, document := range results.Documents {
		fmt.Printf("\nDocument: %s\n", document.Name)

		fmt.Println(" - Locations:")
		for _, location := range document.Locations {
			fmt.Printf("   - %s\n", location)
		}

		fmt.Println(" - People:")
		for _, person := range document.People {
			fmt.Printf("   - %s\n", person)
		}

		fmt.Println(" - Key phrases:")
		for _, phrase := range document.KeyPhrases {
			fmt.Printf("   - %s\n", phrase)
		}
	}

	return nil
}
