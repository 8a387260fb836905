package domain

import "time"

// SummaryChunkIndex is the reserved chunk index for the synthetic
// document-level summary chunk. Body chunks are numbered from 0.
const SummaryChunkIndex = -1

// Chunk is an ordered unit of text belonging to exactly one document.
// Each chunk exclusively owns its embedding vector; vectors are never
// shared between chunks.
type Chunk struct {
	// DocumentID links to the parent Document.
	DocumentID string `json:"documentId"`

	// Index is the ordinal position within the document, or
	// SummaryChunkIndex for the synthetic summary chunk.
	Index int `json:"index"`

	// Content is the chunk text.
	Content string `json:"content"`

	// Embedding is the vector representation for semantic search.
	Embedding []float32 `json:"embedding"`
}

// IndexEntry is one searchable record in a VectorIndex.
type IndexEntry struct {
	// DocumentID links to the parent Document.
	DocumentID string `json:"documentId"`

	// ChunkIndex is the chunk's position within the document, or
	// SummaryChunkIndex for the summary chunk.
	ChunkIndex int `json:"chunkIndex"`

	// Excerpt is the chunk text (what the search result shows).
	Excerpt string `json:"excerpt"`

	// Embedding is the chunk's vector.
	Embedding []float32 `json:"embedding"`

	// SourceRef identifies the originating document source.
	SourceRef string `json:"sourceRef"`
}

// VectorIndex is an immutable collection of embedded chunks plus the
// provenance needed to query it safely. Every entry shares the same
// embedding model and dimensionality; querying with a vector from a
// different model is a hard error (see ErrModelMismatch).
type VectorIndex struct {
	// ID is a unique identifier for this index build.
	ID string `json:"id"`

	// Model is the embedding model identity that produced all vectors.
	Model string `json:"model"`

	// Dimensions is the vector length shared by every entry.
	Dimensions int `json:"dimensions"`

	// Entries holds the indexed chunks in build order.
	Entries []IndexEntry `json:"entries"`

	// Defects counts chunks whose embedding failed and degraded to a
	// zero vector. Non-zero means the index is usable but incomplete.
	Defects int `json:"defects"`

	// CreatedAt is when the index was built.
	CreatedAt time.Time `json:"createdAt"`
}

// RankedChunk is a retrieval result: an index entry with its similarity
// score against the query.
type RankedChunk struct {
	Entry IndexEntry `json:"entry"`

	// Score is the cosine similarity in [-1, 1].
	Score float64 `json:"score"`
}

// SearchOptions configures a retrieval query.
type SearchOptions struct {
	// TopK is the maximum number of results (default 5).
	TopK int

	// Threshold is the minimum similarity score to include (default 0).
	Threshold float64

	// PerDocCap limits how many chunks a single document may contribute
	// to the final result (default 2).
	PerDocCap int
}
