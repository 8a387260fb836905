package services

import (
	"context"
	"hash/fnv"

	"github.com/custodia-labs/stylo-cli/internal/core/domain"
	"github.com/custodia-labs/stylo-cli/internal/core/ports/driven"
	"github.com/custodia-labs/stylo-cli/internal/textseg"
)

// makeDoc builds a normalised document the way ingestion would.
func makeDoc(source, content string) domain.Document {
	doc := domain.Document{
		ID:         domain.ContentID(content),
		Source:     source,
		RawContent: content,
		Sentences:  textseg.Sentences(content),
		Paragraphs: textseg.Paragraphs(content),
		Headings:   textseg.Headings(content),
		WordCount:  textseg.WordCount(content),
	}
	doc.SentenceCount = len(doc.Sentences)
	return doc
}

func testLexicon() *driven.Lexicon {
	return &driven.Lexicon{
		Stopwords:         []string{"the", "a", "an", "is", "of", "to", "and", "in", "it", "on"},
		Buzzwords:         []string{"leverage", "synergy", "paradigm"},
		TransitionPhrases: []string{"however", "in addition", "meanwhile"},
		OpeningAntiPatterns: []string{
			`in this (?:article|post|essay)`,
			`this (?:article|post) (?:will|is about)`,
		},
		Replacements: map[string]string{
			"leverage": "use",
			"synergy":  "cooperation",
		},
	}
}

// fakeEmbedder is a deterministic in-memory embedding provider. The
// vector is a pure function of the text, so identical text always
// embeds to the identical vector.
type fakeEmbedder struct {
	model string
	dims  int

	// fixed, when set, is returned for every Embed call.
	fixed []float32

	// batchErr forces EmbedBatch to fail, triggering per-item retries.
	batchErr error

	// failTexts lists texts whose per-item Embed fails.
	failTexts map[string]bool

	embedCalls int
	batchCalls int
}

var _ driven.EmbeddingService = (*fakeEmbedder)(nil)

func newFakeEmbedder() *fakeEmbedder {
	return &fakeEmbedder{model: "fake-embed", dims: 8}
}

func (f *fakeEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	f.embedCalls++
	if f.failTexts[text] {
		return nil, context.DeadlineExceeded
	}
	if f.fixed != nil {
		return f.fixed, nil
	}
	return f.vectorFor(text), nil
}

func (f *fakeEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	f.batchCalls++
	if f.batchErr != nil {
		return nil, f.batchErr
	}
	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		v, err := f.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		vectors[i] = v
	}
	return vectors, nil
}

func (f *fakeEmbedder) Dimensions() int { return f.dims }

func (f *fakeEmbedder) ModelName() string { return f.model }

func (f *fakeEmbedder) Ping(context.Context) error { return nil }

func (f *fakeEmbedder) Close() error { return nil }

func (f *fakeEmbedder) vectorFor(text string) []float32 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(text))
	seed := h.Sum64()

	v := make([]float32, f.dims)
	for i := range v {
		seed = seed*6364136223846793005 + 1442695040888963407
		v[i] = float32(seed%1000)/1000 + 0.001
	}
	return v
}
