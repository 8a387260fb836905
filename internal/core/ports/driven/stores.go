package driven

import (
	"context"

	"github.com/custodia-labs/stylo-cli/internal/core/domain"
)

// DocumentStore persists corpus documents, content-addressed by ID.
// Backed by SQLite for on-disk storage.
type DocumentStore interface {
	// SaveDocument stores a document. Saving an existing ID is a no-op
	// because documents are content-addressed and immutable.
	SaveDocument(ctx context.Context, doc *domain.Document) error

	// GetDocument retrieves a document by ID.
	GetDocument(ctx context.Context, id string) (*domain.Document, error)

	// ListDocuments returns all documents in ingest order.
	ListDocuments(ctx context.Context) ([]domain.Document, error)

	// DeleteAll removes every document (full corpus rebuild).
	DeleteAll(ctx context.Context) error
}

// ProfileStore persists style profile snapshots.
type ProfileStore interface {
	// SaveProfile stores a new snapshot.
	SaveProfile(ctx context.Context, profile *domain.StyleProfile) error

	// LatestProfile returns the most recent snapshot, or
	// domain.ErrNotFound when none exists.
	LatestProfile(ctx context.Context) (*domain.StyleProfile, error)
}

// IndexStore persists vector indexes. Only one index is live at a time;
// saving replaces the previous build.
type IndexStore interface {
	// SaveIndex stores an index, replacing any previous one.
	SaveIndex(ctx context.Context, index *domain.VectorIndex) error

	// LoadIndex returns the current index, or domain.ErrNotFound when
	// none has been built.
	LoadIndex(ctx context.Context) (*domain.VectorIndex, error)
}

// Store bundles the per-record stores behind one handle so the CLI can
// swap the durable SQLite backing for an ephemeral in-memory one.
type Store interface {
	DocumentStore() DocumentStore
	ProfileStore() ProfileStore
	IndexStore() IndexStore
	SpecStore() SpecStore

	// Close releases the underlying resources.
	Close() error
}

// SpecStore persists codified style specs.
type SpecStore interface {
	// SaveSpec stores a spec, replacing any previous one.
	SaveSpec(ctx context.Context, spec *domain.StyleSpec) error

	// LoadSpec returns the current spec, or domain.ErrNotFound when
	// none has been codified.
	LoadSpec(ctx context.Context) (*domain.StyleSpec, error)
}
