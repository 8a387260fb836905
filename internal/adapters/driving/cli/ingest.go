package cli

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/stylo-cli/internal/core/domain"
)

var ingestRebuild bool

var ingestCmd = &cobra.Command{
	Use:   "ingest [files...]",
	Short: "Ingest corpus documents",
	Long: `Reads plain-text files into the corpus. Documents are content-addressed,
so re-ingesting unchanged files is a no-op. Empty files are skipped and
reported, never fatal.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().BoolVar(&ingestRebuild, "rebuild", false, "drop the existing corpus first")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	docStore := store.DocumentStore()

	if ingestRebuild {
		if err := docStore.DeleteAll(ctx); err != nil {
			return fmt.Errorf("rebuild corpus: %w", err)
		}
	}

	raws := make([]domain.RawDocument, 0, len(args))
	for _, path := range args {
		content, err := os.ReadFile(path)
		if err != nil {
			// Unreadable sources are skippable defects, same as empty ones.
			cmd.PrintErrf("skipping %s: %v\n", path, err)
			continue
		}
		raws = append(raws, domain.RawDocument{Source: path, Content: string(content)})
	}

	report, err := ingestService.Ingest(ctx, raws)
	if err != nil {
		return fmt.Errorf("ingest failed: %w", err)
	}

	for i := range report.Documents {
		if err := docStore.SaveDocument(ctx, &report.Documents[i]); err != nil {
			return fmt.Errorf("save document %s: %w", report.Documents[i].Source, err)
		}
	}

	printIngestReport(cmd, report)
	return nil
}

func printIngestReport(cmd *cobra.Command, report *domain.IngestReport) {
	cmd.Printf("Ingested %d documents\n", len(report.Documents))

	if len(report.Skipped) > 0 {
		cmd.Printf("Skipped %d:\n", len(report.Skipped))
		sources := make([]string, 0, len(report.Skipped))
		for source := range report.Skipped {
			sources = append(sources, source)
		}
		sort.Strings(sources)
		for _, source := range sources {
			cmd.Printf("  %s: %s\n", source, report.Skipped[source])
		}
	}

	for _, w := range report.Warnings {
		cmd.Printf("Warning: %s: %s\n", w.Source, w.Message)
	}
}
