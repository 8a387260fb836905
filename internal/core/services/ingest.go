package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/stylo-cli/internal/core/domain"
	"github.com/custodia-labs/stylo-cli/internal/core/ports/driving"
	"github.com/custodia-labs/stylo-cli/internal/logger"
	"github.com/custodia-labs/stylo-cli/internal/textseg"
)

// Ensure IngestService implements the interface.
var _ driving.IngestService = (*IngestService)(nil)

// Data-quality bounds. Documents outside these are still ingested but
// flagged with a warning in the report.
const (
	minExpectedWords = 50
	maxExpectedWords = 50000
)

// IngestService normalises raw text into corpus documents.
type IngestService struct{}

// NewIngestService creates a new ingest service.
func NewIngestService() *IngestService {
	return &IngestService{}
}

// Ingest normalises a batch of raw documents.
//
// Empty or whitespace-only inputs are skipped and reported, never fatal
// to the batch. Document IDs are content hashes, so re-ingesting the
// same corpus yields an identical document set.
func (s *IngestService) Ingest(_ context.Context, raws []domain.RawDocument) (*domain.IngestReport, error) {
	logger.Section("Ingest")
	logger.Debug("Ingesting %d raw documents", len(raws))

	report := &domain.IngestReport{
		ID:      uuid.New().String(),
		Skipped: make(map[string]string),
	}

	seen := make(map[string]bool)

	for _, raw := range raws {
		doc, err := s.normalise(raw)
		if err != nil {
			logger.Warn("Skipping %s: %v", raw.Source, err)
			report.Skipped[raw.Source] = err.Error()
			continue
		}

		// Content addressing gives natural deduplication.
		if seen[doc.ID] {
			logger.Debug("Duplicate content for %s, already ingested", raw.Source)
			report.Skipped[raw.Source] = "duplicate content"
			continue
		}
		seen[doc.ID] = true

		for _, w := range s.qualityWarnings(doc) {
			logger.Warn("%s: %s", raw.Source, w)
			report.Warnings = append(report.Warnings, domain.IngestWarning{
				Source:  raw.Source,
				Message: w,
			})
		}

		report.Documents = append(report.Documents, *doc)
	}

	report.CompletedAt = time.Now()

	logger.Info("Ingested %d documents (%d skipped, %d warnings)",
		len(report.Documents), len(report.Skipped), len(report.Warnings))

	return report, nil
}

// normalise builds the immutable Document record for one raw input.
func (s *IngestService) normalise(raw domain.RawDocument) (*domain.Document, error) {
	content := raw.Content
	if strings.TrimSpace(content) == "" {
		return nil, domain.ErrEmptyDocument
	}

	doc := &domain.Document{
		ID:         domain.ContentID(content),
		Source:     raw.Source,
		RawContent: content,
		Sentences:  textseg.Sentences(content),
		Paragraphs: textseg.Paragraphs(content),
		Headings:   textseg.Headings(content),
		WordCount:  textseg.WordCount(content),
		CreatedAt:  time.Now(),
	}
	doc.SentenceCount = len(doc.Sentences)

	return doc, nil
}

// qualityWarnings flags documents far outside expected bounds. These are
// warnings, not failures: the document is ingested either way.
func (s *IngestService) qualityWarnings(doc *domain.Document) []string {
	var warnings []string

	if doc.SentenceCount == 0 {
		warnings = append(warnings, "no sentences parsed")
	}
	if doc.WordCount < minExpectedWords {
		warnings = append(warnings, fmt.Sprintf("very short document (%d words)", doc.WordCount))
	}
	if doc.WordCount > maxExpectedWords {
		warnings = append(warnings, fmt.Sprintf("very long document (%d words)", doc.WordCount))
	}

	return warnings
}
