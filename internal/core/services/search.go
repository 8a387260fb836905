package services

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/custodia-labs/stylo-cli/internal/core/domain"
	"github.com/custodia-labs/stylo-cli/internal/core/ports/driven"
	"github.com/custodia-labs/stylo-cli/internal/core/ports/driving"
	"github.com/custodia-labs/stylo-cli/internal/logger"
)

// Ensure SearchService implements the interface.
var _ driving.SearchService = (*SearchService)(nil)

// Search defaults.
const (
	// DefaultTopK is the result count when opts.TopK is unset.
	DefaultTopK = 5

	// DefaultPerDocCap limits chunks per source document in the final
	// ranking when opts.PerDocCap is unset.
	DefaultPerDocCap = 2
)

// SearchService retrieves semantically similar chunks from a vector
// index. The scan is linear by design: for corpora in the low thousands
// of chunks, brute-force cosine over every entry is simpler and fast
// enough, and the Search contract leaves room to swap in an approximate
// nearest-neighbour index without touching callers.
type SearchService struct {
	embedder driven.EmbeddingService
}

// NewSearchService creates a new search service.
func NewSearchService(embedder driven.EmbeddingService) *SearchService {
	return &SearchService{embedder: embedder}
}

// Search embeds the query and ranks index entries by cosine similarity.
//
// The query must be embedded with the same model identity the index was
// built with; a mismatch is a hard error because similarity scores
// across models are meaningless.
func (s *SearchService) Search(
	ctx context.Context, query string, index *domain.VectorIndex, opts domain.SearchOptions,
) ([]domain.RankedChunk, error) {
	logger.Section("Semantic Search")
	logger.Debug("Query: %q", query)

	if s.embedder == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}
	if index == nil || len(index.Entries) == 0 {
		return nil, domain.ErrIndexUnavailable
	}

	query = strings.TrimSpace(query)
	if query == "" {
		logger.Debug("Empty query, returning no results")
		return []domain.RankedChunk{}, nil
	}

	if s.embedder.ModelName() != index.Model {
		return nil, fmt.Errorf("search: index built with %q, query embedder is %q: %w",
			index.Model, s.embedder.ModelName(), domain.ErrModelMismatch)
	}

	topK := opts.TopK
	if topK <= 0 {
		topK = DefaultTopK
	}
	perDocCap := opts.PerDocCap
	if perDocCap <= 0 {
		perDocCap = DefaultPerDocCap
	}

	logger.Debug("Generating query embedding...")
	queryVec, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("generate query embedding: %w", err)
	}
	if len(queryVec) != index.Dimensions {
		return nil, fmt.Errorf("search: query vector has %d dimensions, index has %d: %w",
			len(queryVec), index.Dimensions, domain.ErrDimensionMismatch)
	}

	// Linear scan over every entry.
	scored := make([]domain.RankedChunk, 0, len(index.Entries))
	for i := range index.Entries {
		score := CosineSimilarity(queryVec, index.Entries[i].Embedding)
		if score < opts.Threshold {
			continue
		}
		scored = append(scored, domain.RankedChunk{
			Entry: index.Entries[i],
			Score: score,
		})
	}

	logger.Debug("%d of %d entries above threshold %.2f", len(scored), len(index.Entries), opts.Threshold)

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	results := applyDiversityCap(scored, perDocCap)
	if len(results) > topK {
		results = results[:topK]
	}

	logger.Info("Final results: %d", len(results))

	return results, nil
}

// applyDiversityCap limits how many chunks one document may contribute,
// preserving relative rank order while skipping over-cap entries.
func applyDiversityCap(ranked []domain.RankedChunk, limit int) []domain.RankedChunk {
	perDoc := make(map[string]int)
	capped := make([]domain.RankedChunk, 0, len(ranked))

	for _, rc := range ranked {
		if perDoc[rc.Entry.DocumentID] >= limit {
			continue
		}
		perDoc[rc.Entry.DocumentID]++
		capped = append(capped, rc)
	}

	return capped
}

// CosineSimilarity computes dot(a, b) / (|a| * |b|) in [-1, 1], where 1
// means identical direction. Zero vectors score 0 against everything.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
