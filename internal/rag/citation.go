package rag

import "fmt"

// Placeholder strings for missing document-level metadata. Organization
// and author are always populated so display layers never null-check
// these two fields; year and link stay nullable and pass through as-is.
const (
	unknownTitle        = "Unknown"
	missingOrganization = "Organización no especificada"
	missingAuthor       = "Autor no especificado"
)

// Citation is the document-level attribution for one surviving evidence
// chunk, plus its similarity formatted as a percentage string.
type Citation struct {
	Title               string  `json:"title"`
	Organization        string  `json:"organization"`
	OrganizationAcronym string  `json:"organization_acronym"`
	Year                *int    `json:"year"`
	Author              string  `json:"author"`
	Link                *string `json:"link"`
	Similarity          string  `json:"similarity"` // e.g. "82.3%"
}

// ExtractCitations maps surviving chunks to citations, preserving the
// filter's order (one citation per chunk).
func ExtractCitations(evidence []ScoredChunk) []Citation {
	citations := make([]Citation, len(evidence))
	for i, sc := range evidence {
		citations[i] = newCitation(sc)
	}
	return citations
}

func newCitation(sc ScoredChunk) Citation {
	c := sc.Chunk

	title := c.Title
	if title == "" {
		title = c.Filename
	}
	if title == "" {
		title = unknownTitle
	}

	organization := c.Organization
	if organization == "" {
		organization = missingOrganization
	}

	author := c.Author
	if author == "" {
		author = missingAuthor
	}

	return Citation{
		Title:               title,
		Organization:        organization,
		OrganizationAcronym: c.OrganizationAcronym,
		Year:                c.Year,
		Author:              author,
		Link:                c.Link,
		Similarity:          fmt.Sprintf("%.1f%%", sc.Similarity*100),
	}
}
