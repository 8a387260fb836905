package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strings"
	"unicode"

	"github.com/custodia-labs/stylo-cli/internal/core/domain"
	"github.com/custodia-labs/stylo-cli/internal/core/ports/driven"
	"github.com/custodia-labs/stylo-cli/internal/core/ports/driving"
	"github.com/custodia-labs/stylo-cli/internal/logger"
)

// Ensure CodifyService implements the interface.
var _ driving.CodifyService = (*CodifyService)(nil)

// MinExemplars is the smallest exemplar set codification accepts.
// Mining examples from fewer documents produces rules illustrated by
// whatever happened to be lying around, so this is a hard precondition.
const MinExemplars = 5

// Codifier tuning defaults.
const (
	// sentenceLengthTolerance scales the stddev when deriving the
	// sentence-length range around the corpus mean.
	sentenceLengthTolerance = 1.5

	// activeVoiceMargin is subtracted from the corpus active-voice
	// ratio to set the rule threshold.
	activeVoiceMargin = 0.10

	// paragraphLengthTolerance scales the paragraph-length stddev.
	paragraphLengthTolerance = 2.0

	maxGoodExamples = 3
	maxBadExamples  = 2
)

// ExampleFilter decides which exemplar sentences are clean enough to
// serve as rule illustrations. The defaults reject metadata-like lines;
// all thresholds are tunable because the filter is a set of guesses,
// not a grammar.
type ExampleFilter struct {
	// MinWords and MaxWords bound example length.
	MinWords int
	MaxWords int

	// rejectPatterns match lines that look like metadata rather than
	// prose: front-matter markers, key-value headers, code fences,
	// bare file paths.
	rejectPatterns []*regexp.Regexp
}

// DefaultExampleFilter returns the standard sentence-quality filter.
func DefaultExampleFilter() ExampleFilter {
	return ExampleFilter{
		MinWords: 6,
		MaxWords: 40,
		rejectPatterns: []*regexp.Regexp{
			regexp.MustCompile(`^---`),                 // front-matter marker
			regexp.MustCompile(`^[\w-]+:\s`),           // key-value header line
			regexp.MustCompile("`{3}"),                 // code fence
			regexp.MustCompile(`(?:^|\s)/[\w./-]+`),    // file-path fragment
			regexp.MustCompile(`^[#*>|-]`),             // markup leader
		},
	}
}

// verbLikeSuffixes and commonVerbs drive the verb-token heuristic: an
// example sentence must contain something that plausibly acts.
var (
	verbLikeSuffixes = []string{"ed", "ing", "es", "ts", "ws", "ds", "ys", "ks", "ns", "rs", "ls"}
	commonVerbs      = map[string]bool{
		"is": true, "are": true, "was": true, "were": true, "be": true,
		"has": true, "have": true, "had": true, "do": true, "does": true,
		"can": true, "will": true, "would": true, "should": true, "must": true,
		"make": true, "get": true, "use": true, "need": true, "want": true,
		"go": true, "come": true, "take": true, "see": true, "know": true,
	}
)

// Accept reports whether the sentence is clean prose suitable as an
// example: no metadata markers, sensible length, capital start and at
// least one verb-like token.
func (f ExampleFilter) Accept(sentence string) bool {
	sentence = strings.TrimSpace(sentence)
	if sentence == "" || strings.Contains(sentence, "\n") {
		return false
	}

	words := strings.Fields(sentence)
	if len(words) < f.MinWords || len(words) > f.MaxWords {
		return false
	}

	for _, p := range f.rejectPatterns {
		if p.MatchString(sentence) {
			return false
		}
	}

	first := []rune(sentence)[0]
	if !unicode.IsUpper(first) {
		return false
	}

	return f.hasVerbLikeToken(words)
}

func (f ExampleFilter) hasVerbLikeToken(words []string) bool {
	for _, w := range words {
		w = strings.ToLower(strings.Trim(w, ".,;:!?\"'()"))
		if commonVerbs[w] {
			return true
		}
		for _, suffix := range verbLikeSuffixes {
			if len(w) > len(suffix)+2 && strings.HasSuffix(w, suffix) {
				return true
			}
		}
	}
	return false
}

// CodifyService compiles a style profile into an executable spec.
// Codification is a pure function of the profile, the exemplar set and
// the lexicon: identical inputs serialize to byte-identical specs.
type CodifyService struct {
	lexicon *driven.Lexicon
	filter  ExampleFilter
}

// CodifyOption configures the codify service.
type CodifyOption func(*CodifyService)

// WithExampleFilter overrides the sentence-quality filter.
func WithExampleFilter(f ExampleFilter) CodifyOption {
	return func(s *CodifyService) {
		s.filter = f
	}
}

// NewCodifyService creates a new codify service.
func NewCodifyService(lexicon *driven.Lexicon, opts ...CodifyOption) *CodifyService {
	s := &CodifyService{
		lexicon: lexicon,
		filter:  DefaultExampleFilter(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Codify translates each profile metric into declarative rules and
// mines illustrative sentences from the exemplar documents.
func (s *CodifyService) Codify(
	_ context.Context, profile *domain.StyleProfile, exemplars []domain.Document,
) (*domain.StyleSpec, error) {
	if profile == nil {
		return nil, fmt.Errorf("codify: %w: nil profile", domain.ErrInvalidInput)
	}
	if len(exemplars) < MinExemplars {
		return nil, fmt.Errorf("codify: got %d exemplars, need at least %d: %w",
			len(exemplars), MinExemplars, domain.ErrTooFewExemplars)
	}

	logger.Section("Codification")
	logger.Debug("Codifying profile %s with %d exemplars", profile.ID, len(exemplars))

	rules := []domain.StyleRule{
		s.sentenceLengthRule(profile, exemplars),
		s.activeVoiceRule(profile, exemplars),
		s.vocabularyRule(profile, exemplars),
		s.transitionRule(profile, exemplars),
		s.paragraphLengthRule(profile, exemplars),
		s.openingRule(exemplars),
	}

	refs := make([]string, len(exemplars))
	for i := range exemplars {
		refs[i] = exemplars[i].ID
	}

	spec := &domain.StyleSpec{
		Rules: rules,
		Vocabulary: domain.VocabularyGuide{
			Preferred:    profile.Lexical.DistinctiveWords,
			Banned:       profile.Lexical.AvoidedWords,
			Replacements: s.replacementsFor(profile.Lexical.AvoidedWords),
		},
		ExemplarRefs: refs,
		// GeneratedAt is inherited from the profile so re-running
		// codification over the same inputs is reproducible.
		GeneratedAt: profile.GeneratedAt,
	}

	version, err := specVersion(spec)
	if err != nil {
		return nil, fmt.Errorf("codify: version: %w", err)
	}
	spec.Version = version

	logger.Info("Codified %d rules (spec version %s)", len(spec.Rules), spec.Version[:8])

	return spec, nil
}

// sentenceLengthRule derives a range centred on the corpus mean with a
// stddev-scaled tolerance.
func (s *CodifyService) sentenceLengthRule(profile *domain.StyleProfile, exemplars []domain.Document) domain.StyleRule {
	mean := profile.Syntactic.AvgSentenceLength
	tolerance := profile.Syntactic.SentenceLengthStdDev * sentenceLengthTolerance

	minLen := math.Max(1, math.Floor(mean-tolerance))
	maxLen := math.Ceil(mean + tolerance)

	rule := domain.StyleRule{
		ID:       "sentence-length",
		Category: domain.CategorySentence,
		Rule: fmt.Sprintf("Keep sentences between %.0f and %.0f words (corpus average is %.1f).",
			minLen, maxLen, mean),
		Validation: domain.RuleValidation{
			Type:   domain.ValidationRange,
			Metric: "avg_sentence_length",
			Min:    &minLen,
			Max:    &maxLen,
		},
		Severity: domain.SeverityMajor,
	}

	rule.Examples = s.mineExamples(exemplars,
		func(sentence string) bool {
			n := float64(len(strings.Fields(sentence)))
			return n >= minLen && n <= maxLen
		},
		func(sentence string) bool {
			return float64(len(strings.Fields(sentence))) > maxLen
		})

	return rule
}

// activeVoiceRule derives a threshold just under the corpus ratio.
func (s *CodifyService) activeVoiceRule(profile *domain.StyleProfile, exemplars []domain.Document) domain.StyleRule {
	threshold := math.Max(0, profile.Syntactic.ActiveVoiceRatio-activeVoiceMargin)
	threshold = math.Round(threshold*100) / 100

	rule := domain.StyleRule{
		ID:       "active-voice",
		Category: domain.CategoryVoice,
		Rule: fmt.Sprintf("Write at least %.0f%% of sentences in active voice (corpus runs at %.0f%%).",
			threshold*100, profile.Syntactic.ActiveVoiceRatio*100),
		Validation: domain.RuleValidation{
			Type:   domain.ValidationThreshold,
			Metric: "active_voice_ratio",
			Min:    &threshold,
		},
		Severity: domain.SeverityMajor,
	}

	rule.Examples = s.mineExamples(exemplars,
		func(sentence string) bool { return !IsPassiveSentence(sentence) },
		IsPassiveSentence)

	return rule
}

// vocabularyRule bans the corpus's habitually avoided words.
func (s *CodifyService) vocabularyRule(profile *domain.StyleProfile, exemplars []domain.Document) domain.StyleRule {
	banned := profile.Lexical.AvoidedWords

	rule := domain.StyleRule{
		ID:       "avoided-words",
		Category: domain.CategoryVocabulary,
		Rule:     fmt.Sprintf("Avoid generic buzzwords the corpus never uses (%d terms).", len(banned)),
		Validation: domain.RuleValidation{
			Type:     domain.ValidationBlacklist,
			WordList: banned,
		},
		Severity: domain.SeverityMajor,
	}

	rule.Examples = s.mineExamples(exemplars,
		func(sentence string) bool { return !containsAnyWord(sentence, banned) },
		nil)

	return rule
}

// transitionRule discourages transition phrases foreign to the corpus.
func (s *CodifyService) transitionRule(profile *domain.StyleProfile, exemplars []domain.Document) domain.StyleRule {
	used := make(map[string]bool, len(profile.Structural.TransitionPhrases))
	for _, t := range profile.Structural.TransitionPhrases {
		used[t.Word] = true
	}

	var foreign []string
	for _, phrase := range s.lexicon.TransitionPhrases {
		if !used[strings.ToLower(phrase)] {
			foreign = append(foreign, strings.ToLower(phrase))
		}
	}

	rule := domain.StyleRule{
		ID:       "transitions",
		Category: domain.CategoryStructure,
		Rule:     "Stick to the corpus's own transition phrases; skip ones it never reaches for.",
		Validation: domain.RuleValidation{
			Type:     domain.ValidationBlacklist,
			WordList: foreign,
		},
		Severity: domain.SeverityMinor,
	}

	rule.Examples = s.mineExamples(exemplars,
		func(sentence string) bool {
			lower := strings.ToLower(sentence)
			for _, t := range profile.Structural.TransitionPhrases {
				if strings.Contains(lower, t.Word) {
					return true
				}
			}
			return false
		},
		nil)

	return rule
}

// paragraphLengthRule bounds paragraph length in sentences.
func (s *CodifyService) paragraphLengthRule(profile *domain.StyleProfile, exemplars []domain.Document) domain.StyleRule {
	mean := profile.Rhythmic.ParagraphLengthMean
	stddev := math.Sqrt(profile.Rhythmic.ParagraphLengthVariance)
	tolerance := stddev * paragraphLengthTolerance

	minLen := math.Max(1, math.Floor(mean-tolerance))
	maxLen := math.Max(minLen+1, math.Ceil(mean+tolerance))

	rule := domain.StyleRule{
		ID:       "paragraph-length",
		Category: domain.CategoryStructure,
		Rule: fmt.Sprintf("Keep paragraphs between %.0f and %.0f sentences (corpus average is %.1f).",
			minLen, maxLen, mean),
		Validation: domain.RuleValidation{
			Type:   domain.ValidationRange,
			Metric: "avg_paragraph_length",
			Min:    &minLen,
			Max:    &maxLen,
		},
		Severity: domain.SeverityMinor,
	}

	rule.Examples = s.mineExamples(exemplars, nil, nil)

	return rule
}

// openingRule rejects meta-referential and throat-clearing openings.
// The anti-pattern list is fixed configuration, independent of corpus
// statistics: no corpus should open with them.
func (s *CodifyService) openingRule(exemplars []domain.Document) domain.StyleRule {
	pattern := "(?i)^(?:" + strings.Join(s.lexicon.OpeningAntiPatterns, "|") + ")"

	rule := domain.StyleRule{
		ID:       "opening-style",
		Category: domain.CategoryOpening,
		Rule:     "Open with substance. No meta-references, no throat-clearing.",
		Validation: domain.RuleValidation{
			Type:    domain.ValidationPattern,
			Pattern: pattern,
			Scope:   "text",
		},
		Severity: domain.SeverityMajor,
	}

	// Good openings: the first clean sentence of each exemplar.
	for _, doc := range exemplars {
		if len(rule.Examples.Good) >= maxGoodExamples {
			break
		}
		for _, sentence := range doc.Sentences {
			if s.filter.Accept(sentence) {
				rule.Examples.Good = append(rule.Examples.Good, sentence)
				break
			}
		}
	}

	return rule
}

// mineExamples walks the exemplar sentences in document order and
// collects up to maxGoodExamples passing both the quality filter and
// the goodness predicate, plus up to maxBadExamples counterexamples.
// Nil predicates mean "any clean sentence" / "no bad examples".
func (s *CodifyService) mineExamples(
	exemplars []domain.Document, isGood, isBad func(string) bool,
) domain.RuleExamples {
	var examples domain.RuleExamples

	for _, doc := range exemplars {
		for _, sentence := range doc.Sentences {
			if !s.filter.Accept(sentence) {
				continue
			}
			if len(examples.Good) < maxGoodExamples && (isGood == nil || isGood(sentence)) {
				examples.Good = append(examples.Good, sentence)
				continue
			}
			if isBad != nil && len(examples.Bad) < maxBadExamples && isBad(sentence) {
				examples.Bad = append(examples.Bad, sentence)
			}
		}
		if len(examples.Good) >= maxGoodExamples &&
			(isBad == nil || len(examples.Bad) >= maxBadExamples) {
			break
		}
	}

	return examples
}

// replacementsFor filters the lexicon replacement map down to the
// actually banned terms.
func (s *CodifyService) replacementsFor(banned []string) map[string]string {
	if len(s.lexicon.Replacements) == 0 {
		return nil
	}

	replacements := make(map[string]string)
	for _, word := range banned {
		if sub, ok := s.lexicon.Replacements[word]; ok {
			replacements[word] = sub
		}
	}
	if len(replacements) == 0 {
		return nil
	}
	return replacements
}

// containsAnyWord reports whether any of the words appears in the
// sentence on a word boundary.
func containsAnyWord(sentence string, words []string) bool {
	lower := " " + strings.ToLower(sentence) + " "
	for _, w := range words {
		if strings.Contains(lower, " "+strings.ToLower(w)+" ") {
			return true
		}
	}
	return false
}

// specVersion hashes the serialized rule payload. Two codification runs
// over identical inputs produce identical versions.
func specVersion(spec *domain.StyleSpec) (string, error) {
	payload, err := json.Marshal(struct {
		Rules        []domain.StyleRule     `json:"rules"`
		Vocabulary   domain.VocabularyGuide `json:"vocabulary"`
		ExemplarRefs []string               `json:"exemplarRefs"`
	}{spec.Rules, spec.Vocabulary, spec.ExemplarRefs})
	if err != nil {
		return "", err
	}

	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:16]), nil
}
