package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/stylo-cli/internal/core/domain"
	"github.com/custodia-labs/stylo-cli/internal/core/services"
)

var (
	searchLimit     int
	searchThreshold float64
	searchPerDoc    int
	searchJSON      bool
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Retrieve corpus passages similar to a query",
	Long: `Embeds the query and ranks indexed chunks by cosine similarity. Results
are capped per source document so one long exemplar cannot crowd out the
rest of the corpus.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVar(&searchLimit, "limit", services.DefaultTopK, "maximum number of results")
	searchCmd.Flags().Float64Var(&searchThreshold, "threshold", 0, "minimum similarity score (0-1)")
	searchCmd.Flags().IntVar(&searchPerDoc, "per-doc", services.DefaultPerDocCap, "maximum results per source document")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	query := strings.Join(args, " ")

	index, err := store.IndexStore().LoadIndex(ctx)
	if errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("%w; run 'stylo index' first", domain.ErrIndexUnavailable)
	}
	if err != nil {
		return fmt.Errorf("load index: %w", err)
	}

	results, err := searchService.Search(ctx, query, index, domain.SearchOptions{
		TopK:      searchLimit,
		Threshold: searchThreshold,
		PerDocCap: searchPerDoc,
	})
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		return outputSearchJSON(cmd, query, results)
	}
	outputSearchTable(cmd, query, results)
	return nil
}

func outputSearchJSON(cmd *cobra.Command, query string, results []domain.RankedChunk) error {
	payload := struct {
		Query   string               `json:"query"`
		Results []domain.RankedChunk `json:"results"`
	}{Query: query, Results: results}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputSearchTable(cmd *cobra.Command, query string, results []domain.RankedChunk) {
	if len(results) == 0 {
		cmd.Printf("No results for %q\n", query)
		return
	}

	cmd.Printf("%d results for %q\n\n", len(results), query)
	for i, r := range results {
		cmd.Printf("%d. [%.3f] %s\n", i+1, r.Score, r.Entry.SourceRef)
		excerpt := r.Entry.Excerpt
		if len(excerpt) > 200 {
			excerpt = excerpt[:200] + "..."
		}
		for _, line := range strings.Split(excerpt, "\n") {
			cmd.Printf("   %s\n", line)
		}
		cmd.Println()
	}
}
