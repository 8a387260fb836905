package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/stylo-cli/internal/core/domain"
)

func testIndex(model string, entries ...domain.IndexEntry) *domain.VectorIndex {
	dims := 0
	if len(entries) > 0 {
		dims = len(entries[0].Embedding)
	}
	return &domain.VectorIndex{
		ID:         "test-index",
		Model:      model,
		Dimensions: dims,
		Entries:    entries,
		CreatedAt:  time.Now().UTC(),
	}
}

func entry(docID string, chunk int, excerpt string, vec []float32) domain.IndexEntry {
	return domain.IndexEntry{
		DocumentID: docID,
		ChunkIndex: chunk,
		Excerpt:    excerpt,
		Embedding:  vec,
		SourceRef:  docID + ".txt",
	}
}

func TestSearchRanksBySimilarity(t *testing.T) {
	embedder := newFakeEmbedder()
	embedder.dims = 3
	embedder.fixed = []float32{1, 0, 0}
	svc := NewSearchService(embedder)

	index := testIndex("fake-embed",
		entry("doc1", 0, "orthogonal", []float32{0, 1, 0}),
		entry("doc2", 0, "exact match", []float32{1, 0, 0}),
		entry("doc3", 0, "close match", []float32{0.9, 0.1, 0}),
	)

	results, err := svc.Search(context.Background(), "query", index, domain.SearchOptions{})
	require.NoError(t, err)

	require.Len(t, results, 3)
	assert.Equal(t, "exact match", results[0].Entry.Excerpt)
	assert.InDelta(t, 1.0, results[0].Score, 1e-6)
	assert.Equal(t, "close match", results[1].Entry.Excerpt)
	assert.Equal(t, "orthogonal", results[2].Entry.Excerpt)
}

func TestSearchSelfRetrieval(t *testing.T) {
	embedder := newFakeEmbedder()
	svc := NewSearchService(embedder)

	// The entry was embedded from the same text the query uses, so the
	// deterministic embedder must score it as a perfect match.
	text := "Caches keep hot data close to the reader."
	vec, err := embedder.Embed(context.Background(), text)
	require.NoError(t, err)

	other, err := embedder.Embed(context.Background(), "Something else entirely.")
	require.NoError(t, err)

	index := testIndex("fake-embed",
		entry("doc1", 0, "distractor", other),
		entry("doc2", 0, text, vec),
	)

	results, err := svc.Search(context.Background(), text, index, domain.SearchOptions{})
	require.NoError(t, err)

	require.NotEmpty(t, results)
	assert.Equal(t, text, results[0].Entry.Excerpt)
	assert.InDelta(t, 1.0, results[0].Score, 1e-6)
}

func TestSearchModelMismatch(t *testing.T) {
	svc := NewSearchService(newFakeEmbedder())
	index := testIndex("other-model", entry("doc1", 0, "x", []float32{1, 0, 0}))

	_, err := svc.Search(context.Background(), "query", index, domain.SearchOptions{})
	assert.ErrorIs(t, err, domain.ErrModelMismatch)
}

func TestSearchDimensionMismatch(t *testing.T) {
	embedder := newFakeEmbedder()
	embedder.dims = 4
	svc := NewSearchService(embedder)

	// Index built at a different dimensionality than the query embedder.
	index := testIndex("fake-embed", entry("doc1", 0, "x", []float32{1, 0, 0}))

	_, err := svc.Search(context.Background(), "query", index, domain.SearchOptions{})
	assert.ErrorIs(t, err, domain.ErrDimensionMismatch)
}

func TestSearchThresholdFilters(t *testing.T) {
	embedder := newFakeEmbedder()
	embedder.dims = 3
	embedder.fixed = []float32{1, 0, 0}
	svc := NewSearchService(embedder)

	index := testIndex("fake-embed",
		entry("doc1", 0, "strong", []float32{1, 0, 0}),
		entry("doc2", 0, "weak", []float32{0.1, 1, 0}),
	)

	results, err := svc.Search(context.Background(), "query", index, domain.SearchOptions{Threshold: 0.5})
	require.NoError(t, err)

	require.Len(t, results, 1)
	assert.Equal(t, "strong", results[0].Entry.Excerpt)
}

func TestSearchPerDocCap(t *testing.T) {
	embedder := newFakeEmbedder()
	embedder.dims = 3
	embedder.fixed = []float32{1, 0, 0}
	svc := NewSearchService(embedder)

	// doc1 dominates the raw ranking with three near-identical chunks;
	// the default cap lets only two through, making room for doc2.
	index := testIndex("fake-embed",
		entry("doc1", 0, "first", []float32{1, 0, 0}),
		entry("doc1", 1, "second", []float32{0.99, 0.01, 0}),
		entry("doc1", 2, "third", []float32{0.98, 0.02, 0}),
		entry("doc2", 0, "fourth", []float32{0.5, 0.5, 0}),
	)

	results, err := svc.Search(context.Background(), "query", index, domain.SearchOptions{})
	require.NoError(t, err)

	require.Len(t, results, 3)
	assert.Equal(t, "first", results[0].Entry.Excerpt)
	assert.Equal(t, "second", results[1].Entry.Excerpt)
	assert.Equal(t, "fourth", results[2].Entry.Excerpt)
}

func TestSearchTopK(t *testing.T) {
	embedder := newFakeEmbedder()
	embedder.dims = 3
	embedder.fixed = []float32{1, 0, 0}
	svc := NewSearchService(embedder)

	index := testIndex("fake-embed",
		entry("doc1", 0, "a", []float32{1, 0, 0}),
		entry("doc2", 0, "b", []float32{0.9, 0.1, 0}),
		entry("doc3", 0, "c", []float32{0.8, 0.2, 0}),
	)

	results, err := svc.Search(context.Background(), "query", index, domain.SearchOptions{TopK: 2})
	require.NoError(t, err)
	assert.Len(t, results, 2)
}

func TestSearchEmptyQuery(t *testing.T) {
	svc := NewSearchService(newFakeEmbedder())
	index := testIndex("fake-embed", entry("doc1", 0, "x", []float32{1, 0, 0}))

	results, err := svc.Search(context.Background(), "   ", index, domain.SearchOptions{})
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearchUnavailable(t *testing.T) {
	svc := NewSearchService(newFakeEmbedder())

	_, err := svc.Search(context.Background(), "query", nil, domain.SearchOptions{})
	assert.ErrorIs(t, err, domain.ErrIndexUnavailable)

	_, err = NewSearchService(nil).Search(context.Background(), "query",
		testIndex("fake-embed", entry("doc1", 0, "x", []float32{1})), domain.SearchOptions{})
	assert.ErrorIs(t, err, domain.ErrEmbeddingUnavailable)
}

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b []float32
		want float64
	}{
		{"identical", []float32{1, 2, 3}, []float32{1, 2, 3}, 1},
		{"opposite", []float32{1, 0}, []float32{-1, 0}, -1},
		{"orthogonal", []float32{1, 0}, []float32{0, 1}, 0},
		{"zero vector", []float32{0, 0}, []float32{1, 1}, 0},
		{"length mismatch", []float32{1, 0}, []float32{1, 0, 0}, 0},
		{"empty", nil, nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, CosineSimilarity(tt.a, tt.b), 1e-9)
		})
	}
}
