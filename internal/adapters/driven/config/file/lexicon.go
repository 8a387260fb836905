package file

import (
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/custodia-labs/stylo-cli/internal/core/ports/driven"
)

// Ensure LexiconProvider implements the interface.
var _ driven.LexiconProvider = (*LexiconProvider)(nil)

// LexiconFileName is the optional override file in the config directory.
const LexiconFileName = "lexicon.toml"

// Built-in English word lists. The analyzer and codifier treat these as
// injected data, so retargeting to another language or domain only
// requires a lexicon.toml, never a code change.
var (
	defaultStopwords = []string{
		"a", "an", "the", "and", "or", "but", "if", "then", "else", "when",
		"at", "by", "for", "from", "in", "into", "of", "on", "to", "with",
		"is", "are", "was", "were", "be", "been", "being", "am",
		"has", "have", "had", "do", "does", "did", "will", "would", "can",
		"could", "should", "shall", "may", "might", "must",
		"i", "you", "he", "she", "it", "we", "they", "them", "his", "her",
		"its", "our", "their", "your", "my", "me", "him", "us",
		"this", "that", "these", "those", "there", "here", "what", "which",
		"who", "whom", "whose", "as", "so", "than", "too", "very", "not",
		"no", "nor", "only", "own", "same", "such", "just", "also", "about",
		"up", "down", "out", "off", "over", "under", "again", "more", "most",
		"some", "any", "each", "all", "both", "few", "other", "because",
		"while", "during", "before", "after", "above", "below", "between",
	}

	defaultBuzzwords = []string{
		"leverage", "synergy", "utilize", "paradigm", "robust", "scalable",
		"seamless", "cutting-edge", "innovative", "disruptive", "holistic",
		"streamline", "empower", "optimize", "game-changer", "best-in-class",
		"world-class", "next-generation", "state-of-the-art", "revolutionary",
		"transformative", "actionable", "impactful", "deep-dive", "learnings",
		"bandwidth", "alignment", "ecosystem", "frictionless", "turnkey",
		"delve", "tapestry", "landscape", "journey", "unlock", "elevate",
	}

	defaultTransitions = []string{
		"however", "therefore", "moreover", "furthermore", "in addition",
		"on the other hand", "as a result", "for example", "for instance",
		"in contrast", "meanwhile", "consequently", "nevertheless",
		"in other words", "that said", "in short", "in fact", "instead",
		"similarly", "finally", "first", "second", "ultimately",
	}

	defaultOpeningAntiPatterns = []string{
		`in this (article|post|essay|piece|document)`,
		`this (article|post|essay|piece|document) (will|is about|covers|explores)`,
		`(today|in today's world|in today's [a-z]+ landscape)`,
		`have you ever wondered`,
		`it (is|goes) without saying`,
		`as we all know`,
		`since the (dawn|beginning) of`,
		`let's (dive|delve|jump) (in|into)`,
		`welcome to`,
		`before (we|i) (begin|start|get started)`,
	}

	defaultReplacements = map[string]string{
		"leverage":  "use",
		"utilize":   "use",
		"synergy":   "cooperation",
		"robust":    "reliable",
		"seamless":  "smooth",
		"optimize":  "improve",
		"empower":   "enable",
		"delve":     "dig",
		"learnings": "lessons",
		"impactful": "effective",
	}
)

// lexiconFile mirrors the TOML override structure.
type lexiconFile struct {
	Stopwords           []string          `toml:"stopwords"`
	Buzzwords           []string          `toml:"buzzwords"`
	TransitionPhrases   []string          `toml:"transition_phrases"`
	OpeningAntiPatterns []string          `toml:"opening_anti_patterns"`
	Replacements        map[string]string `toml:"replacements"`
}

// LexiconProvider loads word lists from lexicon.toml in the config
// directory, falling back to the built-in English defaults for any list
// the file leaves empty.
type LexiconProvider struct {
	configDir string
}

// NewLexiconProvider creates a lexicon provider for the given config
// directory. If configDir is empty, defaults to ~/.stylo.
func NewLexiconProvider(configDir string) (*LexiconProvider, error) {
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		configDir = filepath.Join(home, ".stylo")
	}
	return &LexiconProvider{configDir: configDir}, nil
}

// Lexicon returns the active word lists.
func (p *LexiconProvider) Lexicon() (*driven.Lexicon, error) {
	lexicon := DefaultLexicon()

	data, err := os.ReadFile(filepath.Join(p.configDir, LexiconFileName))
	if err != nil {
		if os.IsNotExist(err) {
			return lexicon, nil
		}
		return nil, err
	}

	var overrides lexiconFile
	if err := toml.Unmarshal(data, &overrides); err != nil {
		return nil, err
	}

	if len(overrides.Stopwords) > 0 {
		lexicon.Stopwords = overrides.Stopwords
	}
	if len(overrides.Buzzwords) > 0 {
		lexicon.Buzzwords = overrides.Buzzwords
	}
	if len(overrides.TransitionPhrases) > 0 {
		lexicon.TransitionPhrases = overrides.TransitionPhrases
	}
	if len(overrides.OpeningAntiPatterns) > 0 {
		lexicon.OpeningAntiPatterns = overrides.OpeningAntiPatterns
	}
	if len(overrides.Replacements) > 0 {
		lexicon.Replacements = overrides.Replacements
	}

	return lexicon, nil
}

// DefaultLexicon returns the built-in English lexicon.
func DefaultLexicon() *driven.Lexicon {
	return &driven.Lexicon{
		Stopwords:           defaultStopwords,
		Buzzwords:           defaultBuzzwords,
		TransitionPhrases:   defaultTransitions,
		OpeningAntiPatterns: defaultOpeningAntiPatterns,
		Replacements:        defaultReplacements,
	}
}
