package services

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/custodia-labs/stylo-cli/internal/core/domain"
	"github.com/custodia-labs/stylo-cli/internal/core/ports/driving"
	"github.com/custodia-labs/stylo-cli/internal/logger"
	"github.com/custodia-labs/stylo-cli/internal/textseg"
)

// Ensure ValidateService implements the interface.
var _ driving.ValidateService = (*ValidateService)(nil)

// Scoring defaults. The score starts at 100 and each violation subtracts
// its severity's penalty.
const (
	DefaultMajorPenalty = 15
	DefaultMinorPenalty = 5

	// DefaultPassScore is the minimum score to pass.
	DefaultPassScore = 70

	// DefaultMaxMajorViolations is the most major violations a passing
	// result may carry.
	DefaultMaxMajorViolations = 1
)

// ValidateService checks candidate text against a codified style spec.
// Validation is synchronous, deterministic and side-effect free.
type ValidateService struct {
	majorPenalty       int
	minorPenalty       int
	passScore          int
	maxMajorViolations int
}

// ValidatorOption configures the validate service.
type ValidatorOption func(*ValidateService)

// WithPassThreshold sets the score and major-violation limits for a pass.
func WithPassThreshold(score, maxMajor int) ValidatorOption {
	return func(s *ValidateService) {
		s.passScore = score
		s.maxMajorViolations = maxMajor
	}
}

// WithPenalties sets the per-violation score deductions.
func WithPenalties(major, minor int) ValidatorOption {
	return func(s *ValidateService) {
		if major > 0 {
			s.majorPenalty = major
		}
		if minor > 0 {
			s.minorPenalty = minor
		}
	}
}

// NewValidateService creates a new validate service.
func NewValidateService(opts ...ValidatorOption) *ValidateService {
	s := &ValidateService{
		majorPenalty:       DefaultMajorPenalty,
		minorPenalty:       DefaultMinorPenalty,
		passScore:          DefaultPassScore,
		maxMajorViolations: DefaultMaxMajorViolations,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Validate evaluates every rule in the spec against the candidate text.
// The text is decomposed with the same segmentation used at ingest time
// so rule checks run on the representation the rules were codified from.
func (s *ValidateService) Validate(
	_ context.Context, text string, spec *domain.StyleSpec,
) (*domain.ValidationResult, error) {
	if spec == nil {
		return nil, fmt.Errorf("validate: %w: nil spec", domain.ErrInvalidInput)
	}
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("validate: %w", domain.ErrEmptyDocument)
	}

	logger.Section("Validation")
	logger.Debug("Validating %d characters against spec %s", len(text), spec.Version)

	sentences := textseg.Sentences(text)
	paragraphs := textseg.Paragraphs(text)

	var violations []domain.Violation
	for i := range spec.Rules {
		vs, err := s.evaluateRule(&spec.Rules[i], spec, text, sentences, paragraphs)
		if err != nil {
			return nil, fmt.Errorf("validate rule %s: %w", spec.Rules[i].ID, err)
		}
		violations = append(violations, vs...)
	}

	result := &domain.ValidationResult{
		Score:      100,
		Violations: violations,
		Summary: domain.ValidationSummary{
			RulesChecked:  len(spec.Rules),
			SentenceCount: len(sentences),
			WordCount:     textseg.WordCount(text),
		},
	}

	for _, v := range violations {
		if v.Severity == domain.SeverityMajor {
			result.Summary.MajorViolations++
			result.Score -= s.majorPenalty
		} else {
			result.Summary.MinorViolations++
			result.Score -= s.minorPenalty
		}
	}
	if result.Score < 0 {
		result.Score = 0
	}

	result.Passed = result.Score >= s.passScore &&
		result.Summary.MajorViolations <= s.maxMajorViolations

	logger.Info("Score %d (%d major, %d minor) - pass=%t",
		result.Score, result.Summary.MajorViolations, result.Summary.MinorViolations, result.Passed)

	return result, nil
}

// evaluateRule dispatches on the rule's validation type.
func (s *ValidateService) evaluateRule(
	rule *domain.StyleRule, spec *domain.StyleSpec, text string, sentences, paragraphs []string,
) ([]domain.Violation, error) {
	switch rule.Validation.Type {
	case domain.ValidationRange, domain.ValidationThreshold:
		return s.evaluateMetric(rule, sentences, paragraphs), nil
	case domain.ValidationBlacklist:
		return s.evaluateBlacklist(rule, spec, text), nil
	case domain.ValidationPattern:
		return s.evaluatePattern(rule, text, sentences)
	default:
		return nil, fmt.Errorf("%w: unknown validation type %q", domain.ErrInvalidInput, rule.Validation.Type)
	}
}

// evaluateMetric recomputes the named metric on the candidate text and
// compares it against the rule bounds.
func (s *ValidateService) evaluateMetric(rule *domain.StyleRule, sentences, paragraphs []string) []domain.Violation {
	value, ok := computeMetric(rule.Validation.Metric, sentences, paragraphs)
	if !ok {
		return nil
	}

	v := rule.Validation
	if v.Min != nil && value < *v.Min {
		return []domain.Violation{{
			RuleID:   rule.ID,
			Severity: rule.Severity,
			Message:  fmt.Sprintf("%s is %.1f, below the minimum of %.1f", v.Metric, value, *v.Min),
		}}
	}
	if v.Type == domain.ValidationRange && v.Max != nil && value > *v.Max {
		return []domain.Violation{{
			RuleID:   rule.ID,
			Severity: rule.Severity,
			Message:  fmt.Sprintf("%s is %.1f, above the maximum of %.1f", v.Metric, value, *v.Max),
		}}
	}

	return nil
}

// computeMetric evaluates a named measurement over the decomposed text.
func computeMetric(metric string, sentences, paragraphs []string) (float64, bool) {
	switch metric {
	case "avg_sentence_length":
		if len(sentences) == 0 {
			return 0, false
		}
		total := 0
		for _, s := range sentences {
			total += textseg.WordCount(s)
		}
		return float64(total) / float64(len(sentences)), true

	case "active_voice_ratio":
		if len(sentences) == 0 {
			return 0, false
		}
		passive := 0
		for _, s := range sentences {
			if IsPassiveSentence(s) {
				passive++
			}
		}
		return 1 - float64(passive)/float64(len(sentences)), true

	case "avg_paragraph_length":
		if len(paragraphs) == 0 {
			return 0, false
		}
		total := 0
		for _, p := range paragraphs {
			total += len(textseg.Sentences(p))
		}
		return float64(total) / float64(len(paragraphs)), true

	default:
		return 0, false
	}
}

// evaluateBlacklist scans each line for literal word-boundary matches,
// reporting every offending line with a replacement suggestion when the
// vocabulary guide maps one.
func (s *ValidateService) evaluateBlacklist(rule *domain.StyleRule, spec *domain.StyleSpec, text string) []domain.Violation {
	var violations []domain.Violation

	for lineNo, line := range strings.Split(text, "\n") {
		lower := strings.ToLower(line)
		for _, banned := range rule.Validation.WordList {
			if !matchesWordBoundary(lower, strings.ToLower(banned)) {
				continue
			}
			violations = append(violations, domain.Violation{
				RuleID:     rule.ID,
				Severity:   rule.Severity,
				Message:    fmt.Sprintf("banned term %q", banned),
				Line:       lineNo + 1,
				Suggestion: spec.Vocabulary.Replacements[strings.ToLower(banned)],
			})
		}
	}

	return violations
}

// matchesWordBoundary reports whether word appears in line delimited by
// non-word characters.
func matchesWordBoundary(line, word string) bool {
	idx := 0
	for {
		i := strings.Index(line[idx:], word)
		if i < 0 {
			return false
		}
		start := idx + i
		end := start + len(word)

		beforeOK := start == 0 || !isWordChar(line[start-1])
		afterOK := end == len(line) || !isWordChar(line[end])
		if beforeOK && afterOK {
			return true
		}
		idx = start + 1
	}
}

// countWordBoundary counts the occurrences of word in line delimited by
// non-word characters. A hyphen joins words here, so "first" matches
// neither "firstly" nor "first-class". Matches may not overlap.
func countWordBoundary(line, word string) int {
	boundary := func(c byte) bool {
		return !isWordChar(c) && c != '-'
	}

	count, idx := 0, 0
	for {
		i := strings.Index(line[idx:], word)
		if i < 0 {
			return count
		}
		start := idx + i
		end := start + len(word)

		if (start == 0 || boundary(line[start-1])) && (end == len(line) || boundary(line[end])) {
			count++
			idx = end
			continue
		}
		idx = start + 1
	}
}

func isWordChar(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '_'
}

// evaluatePattern compiles the rule's regexp and tests it against the
// full text (opening checks) or each sentence.
func (s *ValidateService) evaluatePattern(rule *domain.StyleRule, text string, sentences []string) ([]domain.Violation, error) {
	re, err := regexp.Compile(rule.Validation.Pattern)
	if err != nil {
		return nil, fmt.Errorf("compile pattern: %w", err)
	}

	if rule.Validation.Scope == "text" {
		if re.MatchString(strings.TrimSpace(text)) {
			return []domain.Violation{{
				RuleID:   rule.ID,
				Severity: rule.Severity,
				Message:  fmt.Sprintf("text matches forbidden pattern: %q", re.FindString(strings.TrimSpace(text))),
			}}, nil
		}
		return nil, nil
	}

	var violations []domain.Violation
	for _, sentence := range sentences {
		if re.MatchString(sentence) {
			violations = append(violations, domain.Violation{
				RuleID:   rule.ID,
				Severity: rule.Severity,
				Message:  fmt.Sprintf("sentence matches forbidden pattern: %q", re.FindString(sentence)),
			})
		}
	}
	return violations, nil
}
