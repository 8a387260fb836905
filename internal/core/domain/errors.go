package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrEmptyDocument indicates a document with no usable text.
	// Batch ingest skips these rather than aborting.
	ErrEmptyDocument = errors.New("empty document")

	// ErrTooFewExemplars indicates codification was asked to run with
	// fewer exemplar documents than the required minimum. This is a
	// hard precondition: mining examples from a thin exemplar set would
	// produce a misleading spec.
	ErrTooFewExemplars = errors.New("too few exemplar documents")

	// ErrModelMismatch indicates a query or entry embedded with a
	// different model than the index. Scores across models are
	// meaningless, so this never degrades silently.
	ErrModelMismatch = errors.New("embedding model mismatch")

	// ErrDimensionMismatch indicates a vector whose length differs from
	// the index dimensionality.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")

	// ErrEmbeddingUnavailable indicates the embedding service is not
	// configured. Index builds and semantic search require one.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrIndexUnavailable indicates no vector index has been built yet.
	ErrIndexUnavailable = errors.New("vector index unavailable")

	// ErrSpecUnavailable indicates no style spec has been codified yet.
	ErrSpecUnavailable = errors.New("style spec unavailable")
)
