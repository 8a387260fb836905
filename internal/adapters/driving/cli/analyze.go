package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var analyzeJSON bool

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Derive a style profile from the ingested corpus",
	Long: `Computes the aggregate style profile (lexical, syntactic, rhythmic and
structural metrics) over every ingested document and stores it as a new
versioned snapshot.`,
	Args: cobra.NoArgs,
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "output the profile as JSON")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	docs, err := store.DocumentStore().ListDocuments(ctx)
	if err != nil {
		return fmt.Errorf("list documents: %w", err)
	}
	if len(docs) == 0 {
		return fmt.Errorf("no documents ingested yet; run 'stylo ingest' first")
	}

	profile, err := analysisService.Analyze(ctx, docs)
	if err != nil {
		return fmt.Errorf("analyze failed: %w", err)
	}

	if err := store.ProfileStore().SaveProfile(ctx, profile); err != nil {
		return fmt.Errorf("save profile: %w", err)
	}

	if analyzeJSON {
		data, err := json.MarshalIndent(profile, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal profile: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	cmd.Printf("Profile %s over %d documents\n", profile.ID, profile.DocumentCount)
	cmd.Printf("  Vocabulary:        %d words (type-token ratio %.3f)\n",
		profile.Lexical.VocabularySize, profile.Lexical.TypeTokenRatio)
	cmd.Printf("  Sentence length:   %.1f words avg (stddev %.1f, range %d-%d)\n",
		profile.Syntactic.AvgSentenceLength, profile.Syntactic.SentenceLengthStdDev,
		profile.Syntactic.MinSentenceLength, profile.Syntactic.MaxSentenceLength)
	cmd.Printf("  Active voice:      %.0f%%\n", profile.Syntactic.ActiveVoiceRatio*100)
	cmd.Printf("  Questions:         %.0f%%\n", profile.Syntactic.QuestionRatio*100)
	cmd.Printf("  Paragraph length:  %.1f sentences avg\n", profile.Rhythmic.ParagraphLengthMean)
	cmd.Printf("  Paragraphs/doc:    %.1f\n", profile.Structural.ParagraphsPerDocument)

	if len(profile.Lexical.DistinctiveWords) > 0 {
		cmd.Printf("  Distinctive words: %v\n", profile.Lexical.DistinctiveWords)
	}
	if len(profile.Structural.TransitionPhrases) > 0 {
		top := profile.Structural.TransitionPhrases
		if len(top) > 5 {
			top = top[:5]
		}
		cmd.Printf("  Top transitions:  ")
		for _, t := range top {
			cmd.Printf(" %s(%d)", t.Word, t.Count)
		}
		cmd.Println()
	}

	return nil
}
