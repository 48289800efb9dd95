package rag

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nourai/nourai/internal/corpus"
)

func TestExtractCitationsPlaceholders(t *testing.T) {
	evidence := []ScoredChunk{
		{Chunk: corpus.Chunk{Content: "texto"}, Similarity: 0.75},
	}

	got := ExtractCitations(evidence)

	require.Len(t, got, 1)
	assert.Equal(t, "Unknown", got[0].Title)
	assert.Equal(t, "Organización no especificada", got[0].Organization)
	assert.Equal(t, "Autor no especificado", got[0].Author)
	assert.Nil(t, got[0].Year)
	assert.Nil(t, got[0].Link)
}

func TestExtractCitationsTitleFallsBackToFilename(t *testing.T) {
	evidence := []ScoredChunk{
		{Chunk: corpus.Chunk{Filename: "guia_fao.pdf"}, Similarity: 0.8},
	}

	got := ExtractCitations(evidence)

	require.Len(t, got, 1)
	assert.Equal(t, "guia_fao.pdf", got[0].Title)
}

func TestExtractCitationsSimilarityFormat(t *testing.T) {
	evidence := []ScoredChunk{
		{Chunk: corpus.Chunk{Title: "Guía"}, Similarity: 0.823},
		{Chunk: corpus.Chunk{Title: "Informe"}, Similarity: 1.0},
	}

	got := ExtractCitations(evidence)

	require.Len(t, got, 2)
	assert.Equal(t, "82.3%", got[0].Similarity)
	assert.Equal(t, "100.0%", got[1].Similarity)
}

func TestExtractCitationsPreservesOrderAndMetadata(t *testing.T) {
	year := 2019
	link := "https://example.org/guia"
	evidence := []ScoredChunk{
		{Chunk: corpus.Chunk{
			Title:               "Guías alimentarias",
			Organization:        "Organización de las Naciones Unidas para la Alimentación y la Agricultura",
			OrganizationAcronym: "FAO",
			Year:                &year,
			Author:              "FAO",
			Link:                &link,
		}, Similarity: 0.9},
		{Chunk: corpus.Chunk{Title: "Segundo"}, Similarity: 0.6},
	}

	got := ExtractCitations(evidence)

	require.Len(t, got, 2)
	assert.Equal(t, "Guías alimentarias", got[0].Title)
	assert.Equal(t, "FAO", got[0].OrganizationAcronym)
	require.NotNil(t, got[0].Year)
	assert.Equal(t, 2019, *got[0].Year)
	require.NotNil(t, got[0].Link)
	assert.Equal(t, link, *got[0].Link)
	assert.Equal(t, "Segundo", got[1].Title)
}

func TestExtractCitationsEmpty(t *testing.T) {
	got := ExtractCitations(nil)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}
