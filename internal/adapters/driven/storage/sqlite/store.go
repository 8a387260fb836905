package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/stylo-cli/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/stylo-cli/internal/core/domain"
	"github.com/custodia-labs/stylo-cli/internal/core/ports/driven"
)

// Ensure Store implements the aggregate interface.
var _ driven.Store = (*Store)(nil)

// Store is a unified SQLite-based storage that provides access to all
// metadata store interfaces through wrapper types.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.stylo/data/metadata.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".stylo", "data")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "metadata.db")

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	// Run migrations
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// DocumentStore returns a DocumentStore interface backed by this store.
func (s *Store) DocumentStore() driven.DocumentStore {
	return &documentStore{store: s}
}

// ProfileStore returns a ProfileStore interface backed by this store.
func (s *Store) ProfileStore() driven.ProfileStore {
	return &profileStore{store: s}
}

// IndexStore returns an IndexStore interface backed by this store.
func (s *Store) IndexStore() driven.IndexStore {
	return &indexStore{store: s}
}

// SpecStore returns a SpecStore interface backed by this store.
func (s *Store) SpecStore() driven.SpecStore {
	return &specStore{store: s}
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	// Ensure schema_migrations table exists
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	// Get current version
	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	// Find all up migrations
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}

		if version <= currentVersion {
			continue // Already applied
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}

		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// ==================== Document Store ====================

// documentStore implements driven.DocumentStore.
type documentStore struct {
	store *Store
}

var _ driven.DocumentStore = (*documentStore)(nil)

// SaveDocument stores a document. Content addressing makes saving an
// existing ID a no-op.
func (s *documentStore) SaveDocument(ctx context.Context, doc *domain.Document) error {
	sentencesJSON, err := json.Marshal(doc.Sentences)
	if err != nil {
		return fmt.Errorf("marshalling sentences: %w", err)
	}
	paragraphsJSON, err := json.Marshal(doc.Paragraphs)
	if err != nil {
		return fmt.Errorf("marshalling paragraphs: %w", err)
	}
	headingsJSON, err := json.Marshal(doc.Headings)
	if err != nil {
		return fmt.Errorf("marshalling headings: %w", err)
	}

	createdAt := doc.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err = s.store.db.ExecContext(ctx, `
		INSERT INTO documents (id, source, raw_content, sentences, paragraphs, headings,
			word_count, sentence_count, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`, doc.ID, doc.Source, doc.RawContent, string(sentencesJSON), string(paragraphsJSON),
		string(headingsJSON), doc.WordCount, doc.SentenceCount, createdAt)

	if err != nil {
		return fmt.Errorf("saving document: %w", err)
	}
	return nil
}

// GetDocument retrieves a document by ID.
func (s *documentStore) GetDocument(ctx context.Context, id string) (*domain.Document, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, source, raw_content, sentences, paragraphs, headings,
			word_count, sentence_count, created_at
		FROM documents WHERE id = ?
	`, id)

	doc, err := scanDocument(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return doc, nil
}

// ListDocuments returns all documents in ingest order.
func (s *documentStore) ListDocuments(ctx context.Context) ([]domain.Document, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, source, raw_content, sentences, paragraphs, headings,
			word_count, sentence_count, created_at
		FROM documents ORDER BY created_at, id
	`)
	if err != nil {
		return nil, fmt.Errorf("querying documents: %w", err)
	}
	defer rows.Close()

	var docs []domain.Document
	for rows.Next() {
		doc, err := scanDocument(rows.Scan)
		if err != nil {
			return nil, err
		}
		docs = append(docs, *doc)
	}
	return docs, rows.Err()
}

// DeleteAll removes every document (full corpus rebuild).
func (s *documentStore) DeleteAll(ctx context.Context) error {
	if _, err := s.store.db.ExecContext(ctx, "DELETE FROM documents"); err != nil {
		return fmt.Errorf("deleting documents: %w", err)
	}
	return nil
}

// scanDocument scans one document row via the given scan function.
func scanDocument(scan func(dest ...any) error) (*domain.Document, error) {
	var doc domain.Document
	var sentencesJSON, paragraphsJSON, headingsJSON string

	if err := scan(&doc.ID, &doc.Source, &doc.RawContent, &sentencesJSON, &paragraphsJSON,
		&headingsJSON, &doc.WordCount, &doc.SentenceCount, &doc.CreatedAt); err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(sentencesJSON), &doc.Sentences); err != nil {
		return nil, fmt.Errorf("unmarshaling sentences: %w", err)
	}
	if err := json.Unmarshal([]byte(paragraphsJSON), &doc.Paragraphs); err != nil {
		return nil, fmt.Errorf("unmarshaling paragraphs: %w", err)
	}
	if err := json.Unmarshal([]byte(headingsJSON), &doc.Headings); err != nil {
		return nil, fmt.Errorf("unmarshaling headings: %w", err)
	}

	return &doc, nil
}

// ==================== Profile Store ====================

// profileStore implements driven.ProfileStore.
type profileStore struct {
	store *Store
}

var _ driven.ProfileStore = (*profileStore)(nil)

// SaveProfile stores a new profile snapshot.
func (s *profileStore) SaveProfile(ctx context.Context, profile *domain.StyleProfile) error {
	payload, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("marshalling profile: %w", err)
	}

	_, err = s.store.db.ExecContext(ctx, `
		INSERT INTO profiles (id, payload, generated_at) VALUES (?, ?, ?)
	`, profile.ID, string(payload), profile.GeneratedAt)
	if err != nil {
		return fmt.Errorf("saving profile: %w", err)
	}
	return nil
}

// LatestProfile returns the most recent snapshot.
func (s *profileStore) LatestProfile(ctx context.Context) (*domain.StyleProfile, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT payload FROM profiles ORDER BY generated_at DESC, id DESC LIMIT 1
	`)

	var payload string
	if err := row.Scan(&payload); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning profile: %w", err)
	}

	var profile domain.StyleProfile
	if err := json.Unmarshal([]byte(payload), &profile); err != nil {
		return nil, fmt.Errorf("unmarshaling profile: %w", err)
	}
	return &profile, nil
}

// ==================== Index Store ====================

// indexStore implements driven.IndexStore.
type indexStore struct {
	store *Store
}

var _ driven.IndexStore = (*indexStore)(nil)

// SaveIndex stores an index, replacing any previous build. The write is
// transactional: readers never observe a half-written index.
func (s *indexStore) SaveIndex(ctx context.Context, index *domain.VectorIndex) error {
	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM index_entries"); err != nil {
		return fmt.Errorf("clearing index entries: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM vector_indexes"); err != nil {
		return fmt.Errorf("clearing indexes: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO vector_indexes (id, model, dimensions, defects, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, index.ID, index.Model, index.Dimensions, index.Defects, index.CreatedAt)
	if err != nil {
		return fmt.Errorf("saving index: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO index_entries (index_id, position, document_id, chunk_index, excerpt, embedding, source_ref)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing entry insert: %w", err)
	}
	defer stmt.Close()

	for i := range index.Entries {
		e := &index.Entries[i]
		_, err := stmt.ExecContext(ctx, index.ID, i, e.DocumentID, e.ChunkIndex,
			e.Excerpt, float32SliceToBytes(e.Embedding), e.SourceRef)
		if err != nil {
			return fmt.Errorf("saving entry %d: %w", i, err)
		}
	}

	return tx.Commit()
}

// LoadIndex returns the current index.
func (s *indexStore) LoadIndex(ctx context.Context) (*domain.VectorIndex, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, model, dimensions, defects, created_at FROM vector_indexes LIMIT 1
	`)

	var index domain.VectorIndex
	if err := row.Scan(&index.ID, &index.Model, &index.Dimensions, &index.Defects, &index.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning index: %w", err)
	}

	rows, err := s.store.db.QueryContext(ctx, `
		SELECT document_id, chunk_index, excerpt, embedding, source_ref
		FROM index_entries WHERE index_id = ? ORDER BY position
	`, index.ID)
	if err != nil {
		return nil, fmt.Errorf("querying entries: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var entry domain.IndexEntry
		var blob []byte
		if err := rows.Scan(&entry.DocumentID, &entry.ChunkIndex, &entry.Excerpt, &blob, &entry.SourceRef); err != nil {
			return nil, fmt.Errorf("scanning entry: %w", err)
		}
		entry.Embedding = bytesToFloat32Slice(blob)
		index.Entries = append(index.Entries, entry)
	}

	return &index, rows.Err()
}

// ==================== Spec Store ====================

// specStore implements driven.SpecStore.
type specStore struct {
	store *Store
}

var _ driven.SpecStore = (*specStore)(nil)

// SaveSpec stores a spec, replacing any previous one.
func (s *specStore) SaveSpec(ctx context.Context, spec *domain.StyleSpec) error {
	payload, err := json.Marshal(spec)
	if err != nil {
		return fmt.Errorf("marshalling spec: %w", err)
	}

	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM style_specs"); err != nil {
		return fmt.Errorf("clearing specs: %w", err)
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO style_specs (version, payload, generated_at) VALUES (?, ?, ?)
	`, spec.Version, string(payload), spec.GeneratedAt)
	if err != nil {
		return fmt.Errorf("saving spec: %w", err)
	}

	return tx.Commit()
}

// LoadSpec returns the current spec.
func (s *specStore) LoadSpec(ctx context.Context) (*domain.StyleSpec, error) {
	row := s.store.db.QueryRowContext(ctx, "SELECT payload FROM style_specs LIMIT 1")

	var payload string
	if err := row.Scan(&payload); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning spec: %w", err)
	}

	var spec domain.StyleSpec
	if err := json.Unmarshal([]byte(payload), &spec); err != nil {
		return nil, fmt.Errorf("unmarshaling spec: %w", err)
	}
	return &spec, nil
}

// ==================== Helper Functions ====================

// float32SliceToBytes converts a []float32 to a byte slice for storage.
func float32SliceToBytes(floats []float32) []byte {
	if len(floats) == 0 {
		return nil
	}
	buf := make([]byte, len(floats)*4)
	for i, f := range floats {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// bytesToFloat32Slice converts a byte slice back to []float32.
func bytesToFloat32Slice(data []byte) []float32 {
	if len(data) == 0 {
		return nil
	}
	floats := make([]float32, len(data)/4)
	for i := range floats {
		floats[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return floats
}
