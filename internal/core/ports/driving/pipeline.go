package driving

import (
	"context"

	"github.com/custodia-labs/stylo-cli/internal/core/domain"
)

// IngestService normalises raw text into corpus documents.
type IngestService interface {
	// Ingest normalises a batch of raw documents. Empty inputs are
	// skipped, not fatal; the report carries successes, skips and
	// data-quality warnings together.
	Ingest(ctx context.Context, raws []domain.RawDocument) (*domain.IngestReport, error)
}

// AnalysisService derives a style profile from a document set.
type AnalysisService interface {
	// Analyze computes the aggregate style profile. It is a pure
	// function of the document set.
	Analyze(ctx context.Context, docs []domain.Document) (*domain.StyleProfile, error)
}

// IndexService chunks and embeds a document set into a vector index.
type IndexService interface {
	// BuildIndex chunks every document, embeds the chunks in batches
	// and assembles the immutable index. fastMode embeds only the
	// per-document summary chunks.
	BuildIndex(ctx context.Context, docs []domain.Document, fastMode bool) (*domain.VectorIndex, error)
}

// SearchService retrieves semantically similar chunks from an index.
type SearchService interface {
	// Search embeds the query and ranks index entries by cosine
	// similarity, applying the threshold, per-document diversity cap
	// and top-K from opts.
	Search(ctx context.Context, query string, index *domain.VectorIndex, opts domain.SearchOptions) ([]domain.RankedChunk, error)
}

// CodifyService compiles a style profile into an executable spec.
type CodifyService interface {
	// Codify translates profile metrics into declarative rules and
	// mines illustrative examples from the exemplar documents.
	// Fewer than the minimum number of exemplars is a hard error.
	Codify(ctx context.Context, profile *domain.StyleProfile, exemplars []domain.Document) (*domain.StyleSpec, error)
}

// ValidateService checks candidate text against a style spec.
type ValidateService interface {
	// Validate evaluates every rule in the spec against the text and
	// returns the scored result.
	Validate(ctx context.Context, text string, spec *domain.StyleSpec) (*domain.ValidationResult, error)
}
