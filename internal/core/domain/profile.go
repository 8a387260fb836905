package domain

import "time"

// WordCount is a word (or phrase) paired with its corpus occurrence count.
// Slices of WordCount are always sorted by descending count, ties broken
// alphabetically, so profile output is deterministic.
type WordCount struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

// LexicalMetrics captures vocabulary-level measurements.
type LexicalMetrics struct {
	// VocabularySize is the number of distinct content words
	// (stopwords excluded).
	VocabularySize int `json:"vocabularySize"`

	// TypeTokenRatio is VocabularySize divided by the total number of
	// content-word tokens. Higher means more varied vocabulary.
	TypeTokenRatio float64 `json:"typeTokenRatio"`

	// TopWords holds the most frequent content words.
	TopWords []WordCount `json:"topWords"`

	// DistinctiveWords are content words whose corpus frequency meets
	// the distinctiveness threshold.
	DistinctiveWords []string `json:"distinctiveWords"`

	// AvoidedWords are reference buzzwords that the corpus rarely or
	// never uses. Their absence is itself a style signal.
	AvoidedWords []string `json:"avoidedWords"`
}

// SyntacticMetrics captures sentence-level measurements.
type SyntacticMetrics struct {
	// AvgSentenceLength is the mean sentence length in words.
	AvgSentenceLength float64 `json:"avgSentenceLength"`

	// SentenceLengthStdDev is the standard deviation of sentence length.
	SentenceLengthStdDev float64 `json:"sentenceLengthStdDev"`

	// MinSentenceLength is the shortest sentence in words.
	MinSentenceLength int `json:"minSentenceLength"`

	// MaxSentenceLength is the longest sentence in words.
	MaxSentenceLength int `json:"maxSentenceLength"`

	// ActiveVoiceRatio is the fraction of sentences the passive-voice
	// heuristic did not flag, in [0, 1].
	ActiveVoiceRatio float64 `json:"activeVoiceRatio"`

	// QuestionRatio is the fraction of sentences ending in '?'.
	QuestionRatio float64 `json:"questionRatio"`
}

// HistogramBucket is one fixed-width bin of the sentence-length histogram.
type HistogramBucket struct {
	// Label describes the bin range, e.g. "10-19".
	Label string `json:"label"`

	// Count is the number of sentences in the bin.
	Count int `json:"count"`
}

// RhythmicMetrics captures pacing measurements.
type RhythmicMetrics struct {
	// SentenceLengthHistogram buckets sentence lengths into fixed-width
	// bins, in ascending bin order.
	SentenceLengthHistogram []HistogramBucket `json:"sentenceLengthHistogram"`

	// ParagraphLengthMean is the mean paragraph length in sentences.
	ParagraphLengthMean float64 `json:"paragraphLengthMean"`

	// ParagraphLengthVariance is the variance of paragraph length.
	ParagraphLengthVariance float64 `json:"paragraphLengthVariance"`
}

// StructuralMetrics captures document-level measurements.
type StructuralMetrics struct {
	// ParagraphsPerDocument is the mean paragraph count per document.
	ParagraphsPerDocument float64 `json:"paragraphsPerDocument"`

	// TransitionPhrases ranks known transition phrases by occurrence.
	TransitionPhrases []WordCount `json:"transitionPhrases"`
}

// StyleProfile is the aggregate style fingerprint of one corpus snapshot.
// It is regenerated wholesale whenever the corpus changes and never
// partially updated.
type StyleProfile struct {
	// ID is a unique identifier for this snapshot.
	ID string `json:"id"`

	// DocumentCount is the number of documents analysed.
	DocumentCount int `json:"documentCount"`

	Lexical    LexicalMetrics    `json:"lexical"`
	Syntactic  SyntacticMetrics  `json:"syntactic"`
	Rhythmic   RhythmicMetrics   `json:"rhythmic"`
	Structural StructuralMetrics `json:"structural"`

	// GeneratedAt versions the snapshot.
	GeneratedAt time.Time `json:"generatedAt"`
}
