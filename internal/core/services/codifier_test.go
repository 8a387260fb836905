package services

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/stylo-cli/internal/core/domain"
)

func testProfile() *domain.StyleProfile {
	return &domain.StyleProfile{
		ID:            "profile-1",
		DocumentCount: 5,
		Lexical: domain.LexicalMetrics{
			DistinctiveWords: []string{"cache", "parser"},
			AvoidedWords:     []string{"leverage", "synergy"},
		},
		Syntactic: domain.SyntacticMetrics{
			AvgSentenceLength:    18,
			SentenceLengthStdDev: 4,
			ActiveVoiceRatio:     0.85,
		},
		Rhythmic: domain.RhythmicMetrics{
			ParagraphLengthMean:     3,
			ParagraphLengthVariance: 1,
		},
		Structural: domain.StructuralMetrics{
			TransitionPhrases: []domain.WordCount{{Word: "however", Count: 4}},
		},
		GeneratedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

func testExemplars() []domain.Document {
	contents := []string{
		"The cache keeps hot entries close to the reader. It expires them after one full hour.",
		"The parser reads the whole file eagerly. It never buffers more than a single line.",
		"The scheduler drains the queue every few seconds. It skips entries that already ran once.",
		"The writer batches rows before it commits them. It retries once when the database locks.",
		"The watcher polls the directory for fresh files. It ignores anything without a known suffix.",
	}

	docs := make([]domain.Document, len(contents))
	for i, c := range contents {
		docs[i] = makeDoc("ex.txt", c)
	}
	return docs
}

func TestCodifyRequiresProfile(t *testing.T) {
	svc := NewCodifyService(testLexicon())

	_, err := svc.Codify(context.Background(), nil, testExemplars())
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCodifyRequiresMinimumExemplars(t *testing.T) {
	svc := NewCodifyService(testLexicon())

	_, err := svc.Codify(context.Background(), testProfile(), testExemplars()[:MinExemplars-1])
	assert.ErrorIs(t, err, domain.ErrTooFewExemplars)
}

func TestCodifyIsDeterministic(t *testing.T) {
	svc := NewCodifyService(testLexicon())

	first, err := svc.Codify(context.Background(), testProfile(), testExemplars())
	require.NoError(t, err)
	second, err := svc.Codify(context.Background(), testProfile(), testExemplars())
	require.NoError(t, err)

	firstJSON, err := json.Marshal(first)
	require.NoError(t, err)
	secondJSON, err := json.Marshal(second)
	require.NoError(t, err)

	assert.Equal(t, firstJSON, secondJSON)
	assert.Equal(t, first.Version, second.Version)
	assert.Len(t, first.Version, 32)
}

func TestCodifyInheritsProfileTimestamp(t *testing.T) {
	svc := NewCodifyService(testLexicon())
	profile := testProfile()

	spec, err := svc.Codify(context.Background(), profile, testExemplars())
	require.NoError(t, err)

	assert.Equal(t, profile.GeneratedAt, spec.GeneratedAt)
}

func TestCodifyRuleBounds(t *testing.T) {
	svc := NewCodifyService(testLexicon())

	spec, err := svc.Codify(context.Background(), testProfile(), testExemplars())
	require.NoError(t, err)
	require.Len(t, spec.Rules, 6)

	byID := make(map[string]domain.StyleRule, len(spec.Rules))
	for _, r := range spec.Rules {
		byID[r.ID] = r
	}

	// Sentence length: mean 18, stddev 4, tolerance 1.5x.
	sl := byID["sentence-length"]
	require.NotNil(t, sl.Validation.Min)
	require.NotNil(t, sl.Validation.Max)
	assert.Equal(t, domain.ValidationRange, sl.Validation.Type)
	assert.Equal(t, 12.0, *sl.Validation.Min)
	assert.Equal(t, 24.0, *sl.Validation.Max)
	assert.Equal(t, domain.SeverityMajor, sl.Severity)

	// Active voice: corpus ratio minus the margin.
	av := byID["active-voice"]
	require.NotNil(t, av.Validation.Min)
	assert.Equal(t, domain.ValidationThreshold, av.Validation.Type)
	assert.Equal(t, 0.75, *av.Validation.Min)

	// Avoided words come straight from the profile.
	assert.Equal(t, []string{"leverage", "synergy"}, byID["avoided-words"].Validation.WordList)

	// Transitions: only phrases the corpus never used are discouraged.
	assert.Equal(t, []string{"in addition", "meanwhile"}, byID["transitions"].Validation.WordList)
	assert.Equal(t, domain.SeverityMinor, byID["transitions"].Severity)

	// Paragraph length: mean 3, stddev 1, tolerance 2x.
	pl := byID["paragraph-length"]
	assert.Equal(t, 1.0, *pl.Validation.Min)
	assert.Equal(t, 5.0, *pl.Validation.Max)
}

func TestCodifyOpeningRule(t *testing.T) {
	svc := NewCodifyService(testLexicon())

	spec, err := svc.Codify(context.Background(), testProfile(), testExemplars())
	require.NoError(t, err)

	var opening domain.StyleRule
	for _, r := range spec.Rules {
		if r.ID == "opening-style" {
			opening = r
		}
	}

	assert.Equal(t, domain.ValidationPattern, opening.Validation.Type)
	assert.Equal(t, "text", opening.Validation.Scope)
	assert.True(t, strings.HasPrefix(opening.Validation.Pattern, "(?i)^(?:"))
	assert.Contains(t, opening.Validation.Pattern, "in this (?:article|post|essay)")

	// Good openings are mined from the exemplars.
	require.NotEmpty(t, opening.Examples.Good)
	assert.LessOrEqual(t, len(opening.Examples.Good), 3)
}

func TestCodifyVocabularyGuide(t *testing.T) {
	svc := NewCodifyService(testLexicon())

	spec, err := svc.Codify(context.Background(), testProfile(), testExemplars())
	require.NoError(t, err)

	assert.Equal(t, []string{"cache", "parser"}, spec.Vocabulary.Preferred)
	assert.Equal(t, []string{"leverage", "synergy"}, spec.Vocabulary.Banned)
	assert.Equal(t, map[string]string{
		"leverage": "use",
		"synergy":  "cooperation",
	}, spec.Vocabulary.Replacements)
}

func TestCodifyExemplarRefs(t *testing.T) {
	svc := NewCodifyService(testLexicon())
	exemplars := testExemplars()

	spec, err := svc.Codify(context.Background(), testProfile(), exemplars)
	require.NoError(t, err)

	require.Len(t, spec.ExemplarRefs, len(exemplars))
	for i, doc := range exemplars {
		assert.Equal(t, doc.ID, spec.ExemplarRefs[i])
	}
}

func TestExampleFilterAccept(t *testing.T) {
	filter := DefaultExampleFilter()

	tests := []struct {
		name     string
		sentence string
		want     bool
	}{
		{"clean prose", "The parser reads the whole file eagerly.", true},
		{"too short", "It just works.", false},
		{"lowercase start", "the parser reads the whole file eagerly.", false},
		{"front matter", "--- the front matter marker starts this line.", false},
		{"key-value header", "Title: a header line with several more words.", false},
		{"code fence", "The snippet ```go fmt.Println``` shows the call clearly.", false},
		{"file path", "See /usr/local/bin for the installed tools there.", false},
		{"markup leader", "# Headings never make for good prose examples here.", false},
		{"embedded newline", "Starts fine\nbut wraps across two separate lines badly.", false},
		{"no verb-like token", "Blue gray pink gold mauve teal.", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, filter.Accept(tt.sentence))
		})
	}
}

func TestContainsAnyWord(t *testing.T) {
	assert.True(t, containsAnyWord("We should leverage this", []string{"leverage"}))
	assert.False(t, containsAnyWord("Leveraged buyouts differ", []string{"leverage"}))
	assert.False(t, containsAnyWord("Nothing banned here", nil))
}
