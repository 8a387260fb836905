// Package cli provides the cobra command tree for the stylo binary.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/stylo-cli/internal/adapters/driven/config/file"
	"github.com/custodia-labs/stylo-cli/internal/adapters/driven/embedding"
	"github.com/custodia-labs/stylo-cli/internal/adapters/driven/embedding/ollama"
	"github.com/custodia-labs/stylo-cli/internal/adapters/driven/embedding/openai"
	"github.com/custodia-labs/stylo-cli/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/stylo-cli/internal/core/ports/driven"
	"github.com/custodia-labs/stylo-cli/internal/core/services"
	"github.com/custodia-labs/stylo-cli/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// Global flags.
var (
	verboseFlag bool
	configDir   string
	dataDir     string
)

// Wired services, initialised in initServices.
var (
	store            driven.Store
	configStore      driven.ConfigStore
	lexicon          *driven.Lexicon
	embeddingService driven.EmbeddingService

	ingestService   *services.IngestService
	analysisService *services.AnalysisService
	indexService    *services.IndexService
	searchService   *services.SearchService
	codifyService   *services.CodifyService
	validateService *services.ValidateService
)

var rootCmd = &cobra.Command{
	Use:   "stylo",
	Short: "Learn a writing style from a corpus and hold new text to it",
	Long: `Stylo ingests a corpus of prior writing, derives a quantitative style
profile, builds a vector index for semantic lookup, compiles the profile
into an executable rule set and validates new text against it.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		logger.SetVerbose(verboseFlag)
		return initServices()
	},
	PersistentPostRun: func(_ *cobra.Command, _ []string) {
		if store != nil {
			_ = store.Close()
		}
		if embeddingService != nil {
			_ = embeddingService.Close()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "configuration directory (default ~/.stylo)")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "data directory (default ~/.stylo/data)")
}

// initServices wires stores, the lexicon and the pipeline services.
// The embedding service is optional: without one, index and search
// commands fail with a clear error while the rest keep working.
func initServices() error {
	var err error

	store, err = sqlite.NewStore(dataDir)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}

	configStore, err = file.NewConfigStore(configDir)
	if err != nil {
		return fmt.Errorf("open config: %w", err)
	}

	lexiconProvider, err := file.NewLexiconProvider(configDir)
	if err != nil {
		return fmt.Errorf("open lexicon: %w", err)
	}
	lexicon, err = lexiconProvider.Lexicon()
	if err != nil {
		return fmt.Errorf("load lexicon: %w", err)
	}

	settings, err := configStore.Settings()
	if err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	embeddingService = newEmbeddingService(settings.Embedding)

	ingestService = services.NewIngestService()
	analysisService = services.NewAnalysisService(lexicon)
	searchService = services.NewSearchService(embeddingService)
	codifyService = services.NewCodifyService(lexicon)
	validateService = services.NewValidateService()

	var indexOpts []services.IndexOption
	if settings.Index.ChunkBudget > 0 {
		indexOpts = append(indexOpts, services.WithChunkBudget(settings.Index.ChunkBudget))
	}
	indexService = services.NewIndexService(embeddingService, indexOpts...)

	return nil
}

// newEmbeddingService builds the configured embedding provider, wrapped
// in a rate limiter. Returns nil when the provider cannot be built; the
// index and search commands surface that with a pointer to the config.
func newEmbeddingService(cfg driven.EmbeddingSettings) driven.EmbeddingService {
	var svc driven.EmbeddingService

	switch cfg.Provider {
	case "openai":
		s, err := openai.NewEmbeddingService(openai.Config{
			APIKey:     cfg.APIKey,
			BaseURL:    cfg.BaseURL,
			Model:      cfg.Model,
			Dimensions: cfg.Dimensions,
		})
		if err != nil {
			logger.Warn("OpenAI embedding unavailable: %v", err)
			return nil
		}
		svc = s
	default:
		svc = ollama.NewEmbeddingService(ollama.Config{
			BaseURL:    cfg.BaseURL,
			Model:      cfg.Model,
			Dimensions: cfg.Dimensions,
		})
	}

	return embedding.NewRateLimited(svc, embedding.DefaultRateLimit)
}

// Execute runs the root command.
func Execute(buildVersion string) error {
	if buildVersion != "" {
		version = buildVersion
	}
	return rootCmd.Execute()
}
