package ingest

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nourai/nourai/internal/corpus"
)

// recordingWriter captures every chunk batch handed to the pipeline.
type recordingWriter struct {
	batches [][]corpus.Chunk
	err     error
}

func (w *recordingWriter) Add(_ context.Context, chunks []corpus.Chunk) error {
	if w.err != nil {
		return w.err
	}
	w.batches = append(w.batches, chunks)
	return nil
}

func TestNewPipelineValidation(t *testing.T) {
	splitter := NewSplitter(500, 200)

	_, err := NewPipeline(nil, splitter, nil, nil)
	assert.Error(t, err)

	_, err = NewPipeline(&recordingWriter{}, nil, nil, nil)
	assert.Error(t, err)

	// nil catalog is allowed
	p, err := NewPipeline(&recordingWriter{}, splitter, nil, nil)
	require.NoError(t, err)
	assert.NotNil(t, p)
}

func TestChunkDocumentStampsMetadata(t *testing.T) {
	year := 2020
	p, err := NewPipeline(&recordingWriter{}, NewSplitter(80, 20), nil, nil)
	require.NoError(t, err)

	doc := Document{
		SourcePath: "data/pdfs/guia.pdf",
		Filename:   "guia.pdf",
		Content:    strings.Repeat("Recomendaciones de consumo diario de frutas y verduras. ", 10),
		Metadata: Metadata{
			Title:               "Guía nutricional",
			Organization:        "FAO",
			OrganizationAcronym: "FAO",
			Year:                &year,
			Author:              "FAO",
		},
	}

	chunks := p.chunkDocument(doc)

	require.NotEmpty(t, chunks)
	for i, c := range chunks {
		assert.Equal(t, i, c.ChunkIndex, "chunk indexes follow document order")
		assert.Equal(t, "guia.pdf", c.Filename)
		assert.Equal(t, "Guía nutricional", c.Title)
		assert.Equal(t, "FAO", c.OrganizationAcronym)
		require.NotNil(t, c.Year)
		assert.Equal(t, 2020, *c.Year)
	}
}

func TestChunkDocumentEmptyContent(t *testing.T) {
	p, err := NewPipeline(&recordingWriter{}, NewSplitter(500, 200), nil, nil)
	require.NoError(t, err)

	chunks := p.chunkDocument(Document{Filename: "vacio.pdf"})

	assert.Empty(t, chunks)
}

func TestRunFailsOnEmptyDirectory(t *testing.T) {
	p, err := NewPipeline(&recordingWriter{}, NewSplitter(500, 200), nil, nil)
	require.NoError(t, err)

	_, err = p.Run(context.Background(), t.TempDir())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no PDF documents found")
}
