package services

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/custodia-labs/stylo-cli/internal/core/domain"
	"github.com/custodia-labs/stylo-cli/internal/core/ports/driven"
	"github.com/custodia-labs/stylo-cli/internal/core/ports/driving"
	"github.com/custodia-labs/stylo-cli/internal/logger"
	"github.com/custodia-labs/stylo-cli/internal/textseg"
)

// Ensure IndexService implements the interface.
var _ driving.IndexService = (*IndexService)(nil)

// DefaultChunkBudget is the default maximum chunk size in characters.
const DefaultChunkBudget = 1500

// DefaultEmbedBatchSize is how many chunks are embedded per provider
// call. Batching is an optimisation only: output order always matches
// input chunk order regardless of batch boundaries.
const DefaultEmbedBatchSize = 32

// IndexService chunks documents and embeds them into a vector index.
type IndexService struct {
	embedder    driven.EmbeddingService
	chunkBudget int
	batchSize   int
}

// IndexOption configures the index service.
type IndexOption func(*IndexService)

// WithChunkBudget sets the maximum chunk size in characters.
func WithChunkBudget(budget int) IndexOption {
	return func(s *IndexService) {
		if budget > 0 {
			s.chunkBudget = budget
		}
	}
}

// WithEmbedBatchSize sets how many chunks are embedded per call.
func WithEmbedBatchSize(size int) IndexOption {
	return func(s *IndexService) {
		if size > 0 {
			s.batchSize = size
		}
	}
}

// NewIndexService creates a new index service.
func NewIndexService(embedder driven.EmbeddingService, opts ...IndexOption) *IndexService {
	s := &IndexService{
		embedder:    embedder,
		chunkBudget: DefaultChunkBudget,
		batchSize:   DefaultEmbedBatchSize,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// BuildIndex chunks every document, embeds the chunks in fixed-size
// batches and assembles the immutable index. In fast mode only the
// synthetic summary chunk is embedded per document.
//
// A single chunk failing to embed degrades to a zero vector and is
// counted as a defect; it never aborts the build. Cancellation via ctx
// discards the whole build (the index is materialised at completion).
func (s *IndexService) BuildIndex(ctx context.Context, docs []domain.Document, fastMode bool) (*domain.VectorIndex, error) {
	if s.embedder == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}
	if len(docs) == 0 {
		return nil, fmt.Errorf("build index: %w: no documents", domain.ErrInvalidInput)
	}

	logger.Section("Index Build")
	logger.Debug("Chunking %d documents (budget=%d chars, fast=%t)", len(docs), s.chunkBudget, fastMode)

	var chunks []domain.Chunk
	sourceByDoc := make(map[string]string, len(docs))
	for i := range docs {
		sourceByDoc[docs[i].ID] = docs[i].Source
		chunks = append(chunks, s.chunkDocument(&docs[i], fastMode)...)
	}

	logger.Info("Embedding %d chunks with %s", len(chunks), s.embedder.ModelName())

	defects, err := s.embedChunks(ctx, chunks)
	if err != nil {
		return nil, err
	}
	if defects > 0 {
		logger.Warn("%d chunks failed to embed and carry zero vectors", defects)
	}

	index := &domain.VectorIndex{
		ID:         uuid.New().String(),
		Model:      s.embedder.ModelName(),
		Dimensions: s.embedder.Dimensions(),
		Entries:    make([]domain.IndexEntry, len(chunks)),
		Defects:    defects,
		CreatedAt:  time.Now().UTC(),
	}

	for i, chunk := range chunks {
		index.Entries[i] = domain.IndexEntry{
			DocumentID: chunk.DocumentID,
			ChunkIndex: chunk.Index,
			Excerpt:    chunk.Content,
			Embedding:  chunk.Embedding,
			SourceRef:  sourceByDoc[chunk.DocumentID],
		}
	}

	logger.Info("Index built: %d entries, %d dimensions", len(index.Entries), index.Dimensions)

	return index, nil
}

// chunkDocument splits one document into chunks. The summary chunk is
// always first; body chunks follow unless fast mode is on.
func (s *IndexService) chunkDocument(doc *domain.Document, fastMode bool) []domain.Chunk {
	chunks := []domain.Chunk{s.summaryChunk(doc)}
	if fastMode {
		return chunks
	}

	position := 0
	for _, para := range doc.Paragraphs {
		// Bare heading lines are already represented in the summary chunk.
		if textseg.IsHeadingLine(para) && !strings.Contains(para, "\n") {
			continue
		}
		if len(para) <= s.chunkBudget {
			chunks = append(chunks, domain.Chunk{
				DocumentID: doc.ID,
				Index:      position,
				Content:    para,
			})
			position++
			continue
		}

		// Oversized paragraph: re-split along sentence boundaries,
		// flushing whenever the next sentence would exceed the budget.
		for _, piece := range splitByBudget(textseg.Sentences(para), s.chunkBudget) {
			chunks = append(chunks, domain.Chunk{
				DocumentID: doc.ID,
				Index:      position,
				Content:    piece,
			})
			position++
		}
	}

	return chunks
}

// summaryChunk builds the synthetic document-level chunk: title (first
// heading or source) plus opening content, truncated to the budget.
func (s *IndexService) summaryChunk(doc *domain.Document) domain.Chunk {
	title := doc.Source
	if len(doc.Headings) > 0 {
		title = doc.Headings[0]
	}

	summary := title + "\n\n" + doc.RawContent
	if len(summary) > s.chunkBudget {
		// Cut on a rune boundary so the stored excerpt stays valid UTF-8.
		cut := s.chunkBudget
		for cut > 0 && !utf8.RuneStart(summary[cut]) {
			cut--
		}
		summary = summary[:cut]
	}

	return domain.Chunk{
		DocumentID: doc.ID,
		Index:      domain.SummaryChunkIndex,
		Content:    summary,
	}
}

// splitByBudget accumulates sentences into pieces no larger than the
// budget. A single sentence over the budget becomes its own piece.
func splitByBudget(sentences []string, budget int) []string {
	var pieces []string
	var current strings.Builder

	for _, sentence := range sentences {
		if current.Len() > 0 && current.Len()+len(sentence)+1 > budget {
			pieces = append(pieces, current.String())
			current.Reset()
		}
		if current.Len() > 0 {
			current.WriteByte(' ')
		}
		current.WriteString(sentence)
	}

	if current.Len() > 0 {
		pieces = append(pieces, current.String())
	}

	return pieces
}

// embedChunks embeds all chunks in fixed-size batches, writing each
// batch's vectors back at the input-aligned positions. Returns the
// number of chunks that degraded to zero vectors.
func (s *IndexService) embedChunks(ctx context.Context, chunks []domain.Chunk) (int, error) {
	defects := 0

	for start := 0; start < len(chunks); start += s.batchSize {
		if err := ctx.Err(); err != nil {
			return defects, fmt.Errorf("embed chunks: %w", err)
		}

		end := start + s.batchSize
		if end > len(chunks) {
			end = len(chunks)
		}

		texts := make([]string, end-start)
		for i := start; i < end; i++ {
			texts[i-start] = chunks[i].Content
		}

		logger.Debug("Embedding batch %d-%d", start, end-1)

		vectors, err := s.embedder.EmbedBatch(ctx, texts)
		if err == nil && len(vectors) == len(texts) {
			for i := range vectors {
				chunks[start+i].Embedding = vectors[i]
			}
			continue
		}
		if err != nil {
			logger.Warn("Batch embed failed (%v), retrying items individually", err)
		}

		// Batch failure is isolated: retry item by item so one bad
		// chunk costs a zero vector, not the whole build.
		for i := start; i < end; i++ {
			vector, itemErr := s.embedder.Embed(ctx, chunks[i].Content)
			if itemErr != nil {
				logger.Warn("Chunk %s/%d failed to embed: %v", chunks[i].DocumentID[:8], chunks[i].Index, itemErr)
				chunks[i].Embedding = make([]float32, s.embedder.Dimensions())
				defects++
				continue
			}
			chunks[i].Embedding = vector
		}
	}

	return defects, nil
}
