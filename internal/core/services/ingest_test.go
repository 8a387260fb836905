package services

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/stylo-cli/internal/core/domain"
)

func TestIngestNormalisesDocuments(t *testing.T) {
	svc := NewIngestService()

	content := "# Notes\n\nThe parser reads input eagerly. It never buffers more than one line.\n\nErrors propagate to the caller."
	report, err := svc.Ingest(context.Background(), []domain.RawDocument{
		{Source: "notes.md", Content: content},
	})
	require.NoError(t, err)
	require.Len(t, report.Documents, 1)

	doc := report.Documents[0]
	assert.Equal(t, domain.ContentID(content), doc.ID)
	assert.Equal(t, "notes.md", doc.Source)
	assert.Equal(t, content, doc.RawContent)
	assert.Len(t, doc.Sentences, 3)
	assert.Equal(t, 3, doc.SentenceCount)
	assert.Len(t, doc.Paragraphs, 3)
	assert.Equal(t, []string{"Notes"}, doc.Headings)
	assert.False(t, doc.CreatedAt.IsZero())
}

func TestIngestContentAddressingIsDeterministic(t *testing.T) {
	svc := NewIngestService()
	raws := []domain.RawDocument{
		{Source: "a.txt", Content: "Stable content produces a stable identifier."},
	}

	first, err := svc.Ingest(context.Background(), raws)
	require.NoError(t, err)
	second, err := svc.Ingest(context.Background(), raws)
	require.NoError(t, err)

	require.Len(t, first.Documents, 1)
	require.Len(t, second.Documents, 1)
	assert.Equal(t, first.Documents[0].ID, second.Documents[0].ID)
}

func TestIngestDeduplicatesByContent(t *testing.T) {
	svc := NewIngestService()

	report, err := svc.Ingest(context.Background(), []domain.RawDocument{
		{Source: "a.txt", Content: "Identical content in both files."},
		{Source: "b.txt", Content: "Identical content in both files."},
	})
	require.NoError(t, err)

	assert.Len(t, report.Documents, 1)
	assert.Equal(t, "duplicate content", report.Skipped["b.txt"])
}

func TestIngestSkipsEmptyDocuments(t *testing.T) {
	svc := NewIngestService()

	report, err := svc.Ingest(context.Background(), []domain.RawDocument{
		{Source: "empty.txt", Content: ""},
		{Source: "blank.txt", Content: "   \n\t\n"},
		{Source: "real.txt", Content: "This one has actual words in it."},
	})
	require.NoError(t, err)

	assert.Len(t, report.Documents, 1)
	assert.Len(t, report.Skipped, 2)
	assert.Contains(t, report.Skipped["empty.txt"], domain.ErrEmptyDocument.Error())
	assert.Contains(t, report.Skipped["blank.txt"], domain.ErrEmptyDocument.Error())
}

func TestIngestWarnsOnExtremeLength(t *testing.T) {
	svc := NewIngestService()

	long := strings.Repeat("Many words fill the page without end. ", 10000)
	report, err := svc.Ingest(context.Background(), []domain.RawDocument{
		{Source: "short.txt", Content: "Too short to be a real document."},
		{Source: "long.txt", Content: long},
	})
	require.NoError(t, err)
	require.Len(t, report.Documents, 2)
	require.Len(t, report.Warnings, 2)

	assert.Equal(t, "short.txt", report.Warnings[0].Source)
	assert.Contains(t, report.Warnings[0].Message, "very short")
	assert.Equal(t, "long.txt", report.Warnings[1].Source)
	assert.Contains(t, report.Warnings[1].Message, "very long")
}

func TestIngestEmptyBatch(t *testing.T) {
	svc := NewIngestService()

	report, err := svc.Ingest(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, report.Documents)
	assert.Empty(t, report.Skipped)
	assert.False(t, report.CompletedAt.IsZero())
}
