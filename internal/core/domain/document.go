package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// RawDocument represents opaque text handed to the pipeline before
// normalisation. Format conversion (PDF, DOCX, etc.) happens upstream;
// the core only ever sees plain text.
type RawDocument struct {
	// Source identifies where the text came from (file path, URL, etc).
	Source string

	// Content is the raw text.
	Content string
}

// Document is the canonical representation after normalisation.
// It is immutable: the ID is a content hash, so identical content always
// produces the same Document and re-ingestion is idempotent.
type Document struct {
	// ID is the hex-encoded SHA-256 of the raw content.
	ID string

	// Source identifies where the text came from.
	Source string

	// RawContent is the full text as received.
	RawContent string

	// Sentences is the sentence decomposition of the content.
	Sentences []string

	// Paragraphs is the paragraph decomposition (blank-line boundaries).
	Paragraphs []string

	// Headings holds heading lines found in the content.
	Headings []string

	// WordCount is the total number of word tokens.
	WordCount int

	// SentenceCount is len(Sentences), denormalised for persistence.
	SentenceCount int

	// CreatedAt is when the document was first ingested.
	CreatedAt time.Time
}

// ContentID returns the content-addressed document ID for the given text.
func ContentID(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}

// IngestWarning is a data-quality note attached to a successfully
// ingested document (extreme length, zero parsed sentences, etc).
type IngestWarning struct {
	// Source identifies the affected document.
	Source string

	// Message describes the quality concern.
	Message string
}

// IngestReport summarises a batch ingest run. Skipped and warned items
// are always reported alongside successes so partial results are
// visible rather than silent.
type IngestReport struct {
	// ID is a unique identifier for this ingest run.
	ID string

	// Documents holds the successfully ingested documents.
	Documents []Document

	// Skipped maps source identifiers to the reason they were excluded.
	Skipped map[string]string

	// Warnings holds data-quality notes for documents that were
	// ingested anyway.
	Warnings []IngestWarning

	// CompletedAt is when the run finished.
	CompletedAt time.Time
}
