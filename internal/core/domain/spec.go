package domain

import "time"

// Rule categories group related style rules.
const (
	CategorySentence   = "sentence"
	CategoryVoice      = "voice"
	CategoryVocabulary = "vocabulary"
	CategoryStructure  = "structure"
	CategoryOpening    = "opening"
)

// Rule validation types determine how the Validator evaluates a rule.
const (
	ValidationRange     = "range"     // metric must fall within [Min, Max]
	ValidationThreshold = "threshold" // metric must be >= Min
	ValidationBlacklist = "blacklist" // no word in WordList may appear
	ValidationPattern   = "pattern"   // regexp Pattern must not match
)

// Rule severities.
const (
	SeverityMajor = "major"
	SeverityMinor = "minor"
)

// RuleValidation is the machine-checkable part of a StyleRule.
type RuleValidation struct {
	// Type is one of the Validation* constants.
	Type string `json:"type"`

	// Metric names the measurement for range/threshold rules,
	// e.g. "avg_sentence_length" or "active_voice_ratio".
	Metric string `json:"metric,omitempty"`

	// Min and Max bound range rules; Min alone bounds threshold rules.
	Min *float64 `json:"min,omitempty"`
	Max *float64 `json:"max,omitempty"`

	// WordList holds the banned words for blacklist rules.
	WordList []string `json:"wordList,omitempty"`

	// Pattern is the regular expression for pattern rules.
	Pattern string `json:"pattern,omitempty"`

	// Scope is "text" to test the whole candidate text (openings) or
	// "sentence" to test each sentence. Empty means "sentence".
	Scope string `json:"scope,omitempty"`
}

// RuleExamples holds illustrative sentences mined from the exemplars.
type RuleExamples struct {
	Good []string `json:"good"`
	Bad  []string `json:"bad,omitempty"`
}

// StyleRule is one declarative, stateless rule in a StyleSpec.
type StyleRule struct {
	// ID is a stable slug, e.g. "sentence-length".
	ID string `json:"id"`

	// Category is one of the Category* constants.
	Category string `json:"category"`

	// Rule is the human-readable statement of the rule.
	Rule string `json:"rule"`

	Validation RuleValidation `json:"validation"`

	// Severity is SeverityMajor or SeverityMinor.
	Severity string `json:"severity"`

	Examples RuleExamples `json:"examples"`
}

// VocabularyGuide lists preferred and banned terms plus suggested
// replacements for banned ones.
type VocabularyGuide struct {
	// Preferred terms are distinctive corpus vocabulary worth keeping.
	Preferred []string `json:"preferred"`

	// Banned terms should never appear.
	Banned []string `json:"banned"`

	// Replacements maps a banned term to a suggested substitute.
	Replacements map[string]string `json:"replacements,omitempty"`
}

// StyleSpec is the versioned, executable output of codification.
// It is a pure function of a StyleProfile and an exemplar set: the same
// inputs always produce a byte-identical spec.
type StyleSpec struct {
	// Version is a content hash of the rule payload.
	Version string `json:"version"`

	Rules []StyleRule `json:"rules"`

	Vocabulary VocabularyGuide `json:"vocabulary"`

	// ExemplarRefs lists the document IDs examples were mined from.
	ExemplarRefs []string `json:"exemplarRefs"`

	// GeneratedAt is inherited from the source profile's GeneratedAt so
	// that re-running codification is reproducible.
	GeneratedAt time.Time `json:"generatedAt"`
}
