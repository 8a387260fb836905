package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/stylo-cli/internal/core/domain"
)

var codifyJSON bool

var codifyCmd = &cobra.Command{
	Use:   "codify",
	Short: "Compile the style profile into an executable rule set",
	Long: `Translates the latest style profile into declarative validation rules
with examples mined from the corpus. Codification is deterministic: the
same profile and corpus always produce a byte-identical spec.`,
	Args: cobra.NoArgs,
	RunE: runCodify,
}

func init() {
	codifyCmd.Flags().BoolVar(&codifyJSON, "json", false, "output the spec as JSON")
	rootCmd.AddCommand(codifyCmd)
}

func runCodify(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	profile, err := store.ProfileStore().LatestProfile(ctx)
	if errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("no style profile yet; run 'stylo analyze' first")
	}
	if err != nil {
		return fmt.Errorf("load profile: %w", err)
	}

	docs, err := store.DocumentStore().ListDocuments(ctx)
	if err != nil {
		return fmt.Errorf("list documents: %w", err)
	}

	spec, err := codifyService.Codify(ctx, profile, docs)
	if err != nil {
		return fmt.Errorf("codify failed: %w", err)
	}

	if err := store.SpecStore().SaveSpec(ctx, spec); err != nil {
		return fmt.Errorf("save spec: %w", err)
	}

	if codifyJSON {
		data, err := json.MarshalIndent(spec, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal spec: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	cmd.Printf("Spec %s with %d rules from %d exemplars\n",
		spec.Version, len(spec.Rules), len(spec.ExemplarRefs))
	for _, rule := range spec.Rules {
		cmd.Printf("  [%s] %s: %s\n", rule.Severity, rule.ID, rule.Rule)
	}
	return nil
}
