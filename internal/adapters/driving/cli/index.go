package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var indexFast bool

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Build the vector index for semantic search",
	Long: `Chunks every ingested document and embeds the chunks with the configured
embedding provider. In fast mode only one summary chunk per document is
embedded, trading recall for speed.`,
	Args: cobra.NoArgs,
	RunE: runIndex,
}

func init() {
	indexCmd.Flags().BoolVar(&indexFast, "fast", false, "embed only per-document summary chunks")
	rootCmd.AddCommand(indexCmd)
}

func runIndex(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	if embeddingService == nil {
		return fmt.Errorf("no embedding provider configured; set embedding.provider in %s", configStore.Path())
	}
	if err := embeddingService.Ping(ctx); err != nil {
		return fmt.Errorf("embedding provider unreachable: %w", err)
	}

	docs, err := store.DocumentStore().ListDocuments(ctx)
	if err != nil {
		return fmt.Errorf("list documents: %w", err)
	}
	if len(docs) == 0 {
		return fmt.Errorf("no documents ingested yet; run 'stylo ingest' first")
	}

	index, err := indexService.BuildIndex(ctx, docs, indexFast)
	if err != nil {
		return fmt.Errorf("index build failed: %w", err)
	}

	if err := store.IndexStore().SaveIndex(ctx, index); err != nil {
		return fmt.Errorf("save index: %w", err)
	}

	cmd.Printf("Indexed %d chunks from %d documents (%s, %d dims)\n",
		len(index.Entries), len(docs), index.Model, index.Dimensions)
	if index.Defects > 0 {
		cmd.Printf("Warning: %d chunks failed to embed and carry zero vectors\n", index.Defects)
	}

	return nil
}
