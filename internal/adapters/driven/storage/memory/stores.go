// Package memory provides in-memory implementations of the driven store
// interfaces. Used in tests and for ephemeral one-shot runs.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/custodia-labs/stylo-cli/internal/core/domain"
	"github.com/custodia-labs/stylo-cli/internal/core/ports/driven"
)

// Ensure implementations satisfy the interfaces.
var (
	_ driven.Store         = (*Store)(nil)
	_ driven.DocumentStore = (*DocumentStore)(nil)
	_ driven.ProfileStore  = (*ProfileStore)(nil)
	_ driven.IndexStore    = (*IndexStore)(nil)
	_ driven.SpecStore     = (*SpecStore)(nil)
)

// Store bundles the in-memory stores behind the aggregate interface.
// Nothing survives Close; every run starts from an empty corpus.
type Store struct {
	documents *DocumentStore
	profiles  *ProfileStore
	index     *IndexStore
	spec      *SpecStore
}

// NewStore creates an empty in-memory store bundle.
func NewStore() *Store {
	return &Store{
		documents: NewDocumentStore(),
		profiles:  NewProfileStore(),
		index:     NewIndexStore(),
		spec:      NewSpecStore(),
	}
}

// DocumentStore returns the in-memory document store.
func (s *Store) DocumentStore() driven.DocumentStore { return s.documents }

// ProfileStore returns the in-memory profile store.
func (s *Store) ProfileStore() driven.ProfileStore { return s.profiles }

// IndexStore returns the in-memory index store.
func (s *Store) IndexStore() driven.IndexStore { return s.index }

// SpecStore returns the in-memory spec store.
func (s *Store) SpecStore() driven.SpecStore { return s.spec }

// Close is a no-op; the data simply goes away with the process.
func (s *Store) Close() error { return nil }

// DocumentStore is an in-memory implementation of driven.DocumentStore.
type DocumentStore struct {
	mu        sync.RWMutex
	documents map[string]domain.Document
	order     []string
}

// NewDocumentStore creates a new in-memory document store.
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{
		documents: make(map[string]domain.Document),
	}
}

// SaveDocument stores a document. Saving an existing ID is a no-op.
func (s *DocumentStore) SaveDocument(_ context.Context, doc *domain.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.documents[doc.ID]; ok {
		return nil
	}
	s.documents[doc.ID] = *doc
	s.order = append(s.order, doc.ID)
	return nil
}

// GetDocument retrieves a document by ID.
func (s *DocumentStore) GetDocument(_ context.Context, id string) (*domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.documents[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &doc, nil
}

// ListDocuments returns all documents in ingest order.
func (s *DocumentStore) ListDocuments(_ context.Context) ([]domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	docs := make([]domain.Document, 0, len(s.order))
	for _, id := range s.order {
		docs = append(docs, s.documents[id])
	}
	return docs, nil
}

// DeleteAll removes every document.
func (s *DocumentStore) DeleteAll(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.documents = make(map[string]domain.Document)
	s.order = nil
	return nil
}

// ProfileStore is an in-memory implementation of driven.ProfileStore.
type ProfileStore struct {
	mu       sync.RWMutex
	profiles []domain.StyleProfile
}

// NewProfileStore creates a new in-memory profile store.
func NewProfileStore() *ProfileStore {
	return &ProfileStore{}
}

// SaveProfile stores a new snapshot.
func (s *ProfileStore) SaveProfile(_ context.Context, profile *domain.StyleProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles = append(s.profiles, *profile)
	return nil
}

// LatestProfile returns the most recent snapshot.
func (s *ProfileStore) LatestProfile(_ context.Context) (*domain.StyleProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.profiles) == 0 {
		return nil, domain.ErrNotFound
	}
	sorted := make([]domain.StyleProfile, len(s.profiles))
	copy(sorted, s.profiles)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].GeneratedAt.Before(sorted[j].GeneratedAt)
	})
	latest := sorted[len(sorted)-1]
	return &latest, nil
}

// IndexStore is an in-memory implementation of driven.IndexStore.
type IndexStore struct {
	mu    sync.RWMutex
	index *domain.VectorIndex
}

// NewIndexStore creates a new in-memory index store.
func NewIndexStore() *IndexStore {
	return &IndexStore{}
}

// SaveIndex stores an index, replacing any previous one.
func (s *IndexStore) SaveIndex(_ context.Context, index *domain.VectorIndex) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.index = index
	return nil
}

// LoadIndex returns the current index.
func (s *IndexStore) LoadIndex(_ context.Context) (*domain.VectorIndex, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.index == nil {
		return nil, domain.ErrNotFound
	}
	return s.index, nil
}

// SpecStore is an in-memory implementation of driven.SpecStore.
type SpecStore struct {
	mu   sync.RWMutex
	spec *domain.StyleSpec
}

// NewSpecStore creates a new in-memory spec store.
func NewSpecStore() *SpecStore {
	return &SpecStore{}
}

// SaveSpec stores a spec, replacing any previous one.
func (s *SpecStore) SaveSpec(_ context.Context, spec *domain.StyleSpec) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.spec = spec
	return nil
}

// LoadSpec returns the current spec.
func (s *SpecStore) LoadSpec(_ context.Context) (*domain.StyleSpec, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.spec == nil {
		return nil, domain.ErrNotFound
	}
	return s.spec, nil
}
