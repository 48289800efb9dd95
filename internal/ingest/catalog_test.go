package ingest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const catalogJSON = `{
	"organizations": {
		"fao": {
			"full_name": "Organización de las Naciones Unidas para la Alimentación y la Agricultura",
			"acronym": "FAO",
			"documents": [
				{
					"title": "Guías alimentarias basadas en alimentos",
					"year": 2021,
					"author": "FAO",
					"link": "https://example.org/guias",
					"location_in_pc": "data/pdfs/fao/guias_alimentarias.pdf"
				}
			]
		},
		"oms": {
			"full_name": "Organización Mundial de la Salud",
			"acronym": "OMS",
			"documents": [
				{
					"title": "Directrices sobre ingesta de azúcares",
					"location_in_pc": "data/pdfs/oms/azucares.pdf"
				}
			]
		}
	}
}`

func writeCatalog(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "documents_index.json")
	require.NoError(t, os.WriteFile(path, []byte(catalogJSON), 0o600))
	return path
}

func TestLoadCatalog(t *testing.T) {
	catalog, err := LoadCatalog(writeCatalog(t))

	require.NoError(t, err)
	require.Len(t, catalog.Organizations, 2)
	require.Contains(t, catalog.Organizations, "fao")
	assert.Equal(t, "FAO", catalog.Organizations["fao"].Acronym)
	require.Len(t, catalog.Organizations["fao"].Documents, 1)
	assert.Equal(t, "OMS", catalog.Organizations["oms"].Acronym)
}

func TestLoadCatalogErrors(t *testing.T) {
	_, err := LoadCatalog(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{"), 0o600))
	_, err = LoadCatalog(bad)
	assert.Error(t, err)
}

func TestCatalogLookupByLocation(t *testing.T) {
	catalog, err := LoadCatalog(writeCatalog(t))
	require.NoError(t, err)

	meta := catalog.Lookup("data/pdfs/fao/guias_alimentarias.pdf")

	assert.Equal(t, "Guías alimentarias basadas en alimentos", meta.Title)
	assert.Equal(t, "FAO", meta.OrganizationAcronym)
	require.NotNil(t, meta.Year)
	assert.Equal(t, 2021, *meta.Year)
	require.NotNil(t, meta.Link)
}

func TestCatalogLookupByBasename(t *testing.T) {
	catalog, err := LoadCatalog(writeCatalog(t))
	require.NoError(t, err)

	// Ingestion walks a local directory whose layout rarely matches the
	// paths recorded in the catalog; the basename still identifies it.
	meta := catalog.Lookup("/srv/docs/azucares.pdf")

	assert.Equal(t, "Directrices sobre ingesta de azúcares", meta.Title)
	assert.Equal(t, "Organización Mundial de la Salud", meta.Organization)
	assert.Nil(t, meta.Year)
}

func TestCatalogLookupMissingFallsBackToDefaults(t *testing.T) {
	catalog, err := LoadCatalog(writeCatalog(t))
	require.NoError(t, err)

	meta := catalog.Lookup("/tmp/desconocido.pdf")

	assert.Equal(t, "desconocido", meta.Title)
	assert.Equal(t, "Organización no especificada", meta.Organization)
	assert.Equal(t, "Autor no especificado", meta.Author)
}

func TestCatalogLookupNilCatalog(t *testing.T) {
	var catalog *Catalog

	meta := catalog.Lookup("data/pdfs/algo.pdf")

	assert.Equal(t, "algo", meta.Title)
	assert.Equal(t, "Organización no especificada", meta.Organization)
}
