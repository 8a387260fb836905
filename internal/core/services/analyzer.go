package services

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/stylo-cli/internal/core/domain"
	"github.com/custodia-labs/stylo-cli/internal/core/ports/driven"
	"github.com/custodia-labs/stylo-cli/internal/core/ports/driving"
	"github.com/custodia-labs/stylo-cli/internal/logger"
	"github.com/custodia-labs/stylo-cli/internal/textseg"
)

// Ensure AnalysisService implements the interface.
var _ driving.AnalysisService = (*AnalysisService)(nil)

// Default analyzer tuning. These are heuristics, not grammar: the voice
// detector matches surface patterns and its error rate is tolerated.
const (
	// DefaultTopWordCount is how many frequent content words to keep.
	DefaultTopWordCount = 20

	// DefaultDistinctiveMinCount is the corpus frequency a word needs
	// to count as distinctive.
	DefaultDistinctiveMinCount = 5

	// DefaultAvoidedMaxCount is the highest corpus frequency a
	// reference buzzword may have and still count as avoided.
	DefaultAvoidedMaxCount = 1

	// DefaultHistogramBinWidth is the sentence-length bin width in words.
	DefaultHistogramBinWidth = 5
)

// Passive-voice surface patterns: a be-verb followed by a participle-like
// token, optionally confirmed by a "by <agent>" phrase.
var (
	passivePattern = regexp.MustCompile(`(?i)\b(?:is|are|was|were|be|been|being)\s+\w+(?:ed|en|wn|ne)\b`)
	beVerbPattern  = regexp.MustCompile(`(?i)\b(?:is|are|was|were|be|been|being)\b`)
	byAgentPattern = regexp.MustCompile(`(?i)\bby\s+(?:the\s+|a\s+|an\s+)?\w+`)
)

// AnalysisService derives a style profile from a document set.
// All metrics are pure functions of the documents and the injected
// lexicon: no external state, fully deterministic.
type AnalysisService struct {
	lexicon *driven.Lexicon

	topWordCount      int
	distinctiveMin    int
	avoidedMax        int
	histogramBinWidth int
}

// AnalyzerOption configures the analysis service.
type AnalyzerOption func(*AnalysisService)

// WithTopWordCount sets how many frequent words the profile keeps.
func WithTopWordCount(n int) AnalyzerOption {
	return func(s *AnalysisService) {
		if n > 0 {
			s.topWordCount = n
		}
	}
}

// WithDistinctiveMinCount sets the distinctiveness frequency threshold.
func WithDistinctiveMinCount(n int) AnalyzerOption {
	return func(s *AnalysisService) {
		if n > 0 {
			s.distinctiveMin = n
		}
	}
}

// WithHistogramBinWidth sets the sentence-length histogram bin width.
func WithHistogramBinWidth(w int) AnalyzerOption {
	return func(s *AnalysisService) {
		if w > 0 {
			s.histogramBinWidth = w
		}
	}
}

// NewAnalysisService creates a new analysis service using the given
// lexicon for stopword, buzzword and transition-phrase lists.
func NewAnalysisService(lexicon *driven.Lexicon, opts ...AnalyzerOption) *AnalysisService {
	s := &AnalysisService{
		lexicon:           lexicon,
		topWordCount:      DefaultTopWordCount,
		distinctiveMin:    DefaultDistinctiveMinCount,
		avoidedMax:        DefaultAvoidedMaxCount,
		histogramBinWidth: DefaultHistogramBinWidth,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Analyze computes the aggregate style profile for the document set.
func (s *AnalysisService) Analyze(_ context.Context, docs []domain.Document) (*domain.StyleProfile, error) {
	if len(docs) == 0 {
		return nil, fmt.Errorf("analyze: %w: no documents", domain.ErrInvalidInput)
	}

	logger.Section("Style Analysis")
	logger.Debug("Analysing %d documents", len(docs))

	profile := &domain.StyleProfile{
		ID:            uuid.New().String(),
		DocumentCount: len(docs),
		Lexical:       s.lexicalMetrics(docs),
		Syntactic:     s.syntacticMetrics(docs),
		Rhythmic:      s.rhythmicMetrics(docs),
		Structural:    s.structuralMetrics(docs),
		GeneratedAt:   time.Now().UTC(),
	}

	logger.Info("Profile: vocab=%d, avg sentence=%.1f words, active voice=%.0f%%",
		profile.Lexical.VocabularySize,
		profile.Syntactic.AvgSentenceLength,
		profile.Syntactic.ActiveVoiceRatio*100)

	return profile, nil
}

// lexicalMetrics computes the bag-of-words measurements.
func (s *AnalysisService) lexicalMetrics(docs []domain.Document) domain.LexicalMetrics {
	stopwords := make(map[string]bool, len(s.lexicon.Stopwords))
	for _, w := range s.lexicon.Stopwords {
		stopwords[strings.ToLower(w)] = true
	}

	frequencies := make(map[string]int)
	totalTokens := 0

	for _, doc := range docs {
		for _, word := range textseg.Words(doc.RawContent) {
			if stopwords[word] {
				continue
			}
			frequencies[word]++
			totalTokens++
		}
	}

	ttr := 0.0
	if totalTokens > 0 {
		ttr = float64(len(frequencies)) / float64(totalTokens)
	}

	ranked := rankCounts(frequencies)

	topWords := ranked
	if len(topWords) > s.topWordCount {
		topWords = topWords[:s.topWordCount]
	}

	var distinctive []string
	for _, wc := range ranked {
		if wc.Count < s.distinctiveMin {
			break
		}
		distinctive = append(distinctive, wc.Word)
		if len(distinctive) >= s.topWordCount {
			break
		}
	}

	// Buzzwords the corpus rarely or never uses are "avoided": their
	// absence is a deliberate-looking style signal.
	var avoided []string
	for _, buzz := range s.lexicon.Buzzwords {
		if frequencies[strings.ToLower(buzz)] <= s.avoidedMax {
			avoided = append(avoided, strings.ToLower(buzz))
		}
	}
	sort.Strings(avoided)

	return domain.LexicalMetrics{
		VocabularySize:   len(frequencies),
		TypeTokenRatio:   ttr,
		TopWords:         topWords,
		DistinctiveWords: distinctive,
		AvoidedWords:     avoided,
	}
}

// syntacticMetrics iterates every sentence in the corpus.
func (s *AnalysisService) syntacticMetrics(docs []domain.Document) domain.SyntacticMetrics {
	var lengths []int
	passive := 0
	questions := 0

	for _, doc := range docs {
		for _, sentence := range doc.Sentences {
			lengths = append(lengths, textseg.WordCount(sentence))
			if IsPassiveSentence(sentence) {
				passive++
			}
			if strings.HasSuffix(sentence, "?") {
				questions++
			}
		}
	}

	if len(lengths) == 0 {
		return domain.SyntacticMetrics{}
	}

	mean, stddev := meanStdDev(lengths)
	minLen, maxLen := lengths[0], lengths[0]
	for _, l := range lengths {
		if l < minLen {
			minLen = l
		}
		if l > maxLen {
			maxLen = l
		}
	}

	total := float64(len(lengths))

	return domain.SyntacticMetrics{
		AvgSentenceLength:    mean,
		SentenceLengthStdDev: stddev,
		MinSentenceLength:    minLen,
		MaxSentenceLength:    maxLen,
		ActiveVoiceRatio:     1 - float64(passive)/total,
		QuestionRatio:        float64(questions) / total,
	}
}

// rhythmicMetrics buckets sentence lengths and measures paragraph pacing.
func (s *AnalysisService) rhythmicMetrics(docs []domain.Document) domain.RhythmicMetrics {
	bins := make(map[int]int)
	maxBin := 0

	var paragraphLengths []int

	for _, doc := range docs {
		for _, sentence := range doc.Sentences {
			bin := textseg.WordCount(sentence) / s.histogramBinWidth
			bins[bin]++
			if bin > maxBin {
				maxBin = bin
			}
		}
		for _, para := range doc.Paragraphs {
			paragraphLengths = append(paragraphLengths, len(textseg.Sentences(para)))
		}
	}

	var histogram []domain.HistogramBucket
	for bin := 0; bin <= maxBin; bin++ {
		histogram = append(histogram, domain.HistogramBucket{
			Label: fmt.Sprintf("%d-%d", bin*s.histogramBinWidth, (bin+1)*s.histogramBinWidth-1),
			Count: bins[bin],
		})
	}

	mean, variance := 0.0, 0.0
	if len(paragraphLengths) > 0 {
		var stddev float64
		mean, stddev = meanStdDev(paragraphLengths)
		variance = stddev * stddev
	}

	return domain.RhythmicMetrics{
		SentenceLengthHistogram: histogram,
		ParagraphLengthMean:     mean,
		ParagraphLengthVariance: variance,
	}
}

// structuralMetrics measures document shape and transition usage.
func (s *AnalysisService) structuralMetrics(docs []domain.Document) domain.StructuralMetrics {
	totalParagraphs := 0
	transitions := make(map[string]int)

	for _, doc := range docs {
		totalParagraphs += len(doc.Paragraphs)

		// Boundary-delimited matches only, so "first" never counts
		// "firstly" or "first-class".
		lower := strings.ToLower(doc.RawContent)
		for _, phrase := range s.lexicon.TransitionPhrases {
			p := strings.ToLower(phrase)
			transitions[p] += countWordBoundary(lower, p)
		}
	}

	// Drop transitions the corpus never uses; rank the rest.
	for phrase, count := range transitions {
		if count == 0 {
			delete(transitions, phrase)
		}
	}

	return domain.StructuralMetrics{
		ParagraphsPerDocument: float64(totalParagraphs) / float64(len(docs)),
		TransitionPhrases:     rankCounts(transitions),
	}
}

// IsPassiveSentence reports whether the sentence matches the
// passive-voice surface heuristic. This is pattern matching, not a
// grammatical parse, so some false positives and negatives are expected.
func IsPassiveSentence(sentence string) bool {
	if passivePattern.MatchString(sentence) {
		return true
	}
	// Irregular participles escape the suffix pattern; a be-verb with a
	// trailing agent phrase still reads as passive.
	return beVerbPattern.MatchString(sentence) && byAgentPattern.MatchString(sentence)
}

// rankCounts converts a frequency table to a deterministic ranking:
// descending by count, ties broken alphabetically.
func rankCounts(freq map[string]int) []domain.WordCount {
	ranked := make([]domain.WordCount, 0, len(freq))
	for word, count := range freq {
		ranked = append(ranked, domain.WordCount{Word: word, Count: count})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		return ranked[i].Word < ranked[j].Word
	})
	return ranked
}

// meanStdDev computes the mean and population standard deviation.
func meanStdDev(values []int) (mean, stddev float64) {
	if len(values) == 0 {
		return 0, 0
	}

	sum := 0
	for _, v := range values {
		sum += v
	}
	mean = float64(sum) / float64(len(values))

	variance := 0.0
	for _, v := range values {
		d := float64(v) - mean
		variance += d * d
	}
	variance /= float64(len(values))

	return mean, math.Sqrt(variance)
}
