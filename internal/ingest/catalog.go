package ingest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Catalog is the document metadata index (documents_index.json): per
// publishing organization, the documents it contributed to the corpus.
type Catalog struct {
	Organizations map[string]CatalogOrganization `json:"organizations"`
}

// CatalogOrganization groups catalog entries by publisher.
type CatalogOrganization struct {
	FullName  string         `json:"full_name"`
	Acronym   string         `json:"acronym"`
	Documents []CatalogEntry `json:"documents"`
}

// CatalogEntry describes one source document.
type CatalogEntry struct {
	ID       string  `json:"id"`
	Title    string  `json:"title"`
	Year     *int    `json:"year"`
	Author   string  `json:"author"`
	Link     *string `json:"link"`
	Format   string  `json:"format"`
	Pages    int     `json:"pages"`
	Location string  `json:"location_in_pc"`
}

// Metadata is the document-level metadata attached to every chunk of a
// source file. Organization and author fall back to fixed "not
// specified" placeholders when the catalog has no entry.
type Metadata struct {
	Title               string
	Organization        string
	OrganizationAcronym string
	Year                *int
	Author              string
	Link                *string
}

// LoadCatalog reads and parses a documents_index.json file.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog %s: %w", path, err)
	}

	var catalog Catalog
	if err := json.Unmarshal(data, &catalog); err != nil {
		return nil, fmt.Errorf("parsing catalog %s: %w", path, err)
	}
	return &catalog, nil
}

// Lookup finds the metadata for a source file by path, matching on the
// catalog entry's location or, failing that, on the bare filename.
// Returns defaults derived from the filename when nothing matches.
// Safe on a nil catalog.
func (c *Catalog) Lookup(sourcePath string) Metadata {
	if c == nil {
		return defaultMetadata(sourcePath)
	}

	normalized := filepath.ToSlash(sourcePath)
	base := filepath.Base(normalized)

	for _, org := range c.Organizations {
		for _, doc := range org.Documents {
			loc := filepath.ToSlash(doc.Location)
			if loc == normalized || strings.HasSuffix(loc, "/"+base) || filepath.Base(loc) == base {
				return Metadata{
					Title:               doc.Title,
					Organization:        org.FullName,
					OrganizationAcronym: org.Acronym,
					Year:                doc.Year,
					Author:              doc.Author,
					Link:                doc.Link,
				}
			}
		}
	}

	return defaultMetadata(sourcePath)
}

// defaultMetadata is used when a file has no catalog entry.
func defaultMetadata(sourcePath string) Metadata {
	base := filepath.Base(sourcePath)
	title := strings.TrimSuffix(base, filepath.Ext(base))
	return Metadata{
		Title:        title,
		Organization: "Organización no especificada",
		Author:       "Autor no especificado",
	}
}
