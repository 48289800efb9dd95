package corpus_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nourai/nourai/internal/corpus"
	"github.com/nourai/nourai/internal/log"
	"github.com/nourai/nourai/internal/testutil"
)

func newStore(t *testing.T) (*corpus.Store, *testutil.TestDBContainer) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}

	database, cleanup := testutil.SetupTestDB(t)
	t.Cleanup(cleanup)

	store, err := corpus.NewStore(database.Pool, &testutil.FakeEmbedder{}, log.NewNop())
	require.NoError(t, err)
	return store, database
}

func sampleChunks() []corpus.Chunk {
	year := 2021
	return []corpus.Chunk{
		{
			Content:      "El hierro es esencial durante el embarazo.",
			SourcePath:   "data/pdfs/hierro.pdf",
			Filename:     "hierro.pdf",
			Title:        "Guía de micronutrientes",
			Organization: "OMS",
			Year:         &year,
			ChunkIndex:   0,
		},
		{
			Content:    "La fibra dietética mejora la digestión.",
			SourcePath: "data/pdfs/fibra.pdf",
			Filename:   "fibra.pdf",
			Title:      "Guía de fibra",
			ChunkIndex: 0,
		},
	}
}

func TestNewStoreValidation(t *testing.T) {
	_, err := corpus.NewStore(nil, &testutil.FakeEmbedder{}, nil)
	assert.Error(t, err)
}

func TestStoreAddAndCount(t *testing.T) {
	store, _ := newStore(t)
	ctx := context.Background()

	require.NoError(t, store.Add(ctx, sampleChunks()))

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestStoreAddRejectsDuplicateChunk(t *testing.T) {
	store, _ := newStore(t)
	ctx := context.Background()

	chunks := sampleChunks()[:1]
	require.NoError(t, store.Add(ctx, chunks))

	err := store.Add(ctx, chunks)
	assert.Error(t, err, "same source path and chunk index conflicts")
}

func TestStoreSearch(t *testing.T) {
	store, _ := newStore(t)
	ctx := context.Background()

	require.NoError(t, store.Add(ctx, sampleChunks()))

	// The fake embedder is deterministic, so the exact text of a stored
	// chunk has distance zero to itself.
	hits, err := store.Search(ctx, "El hierro es esencial durante el embarazo.", 2)

	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, "hierro.pdf", hits[0].Chunk.Filename)
	assert.InDelta(t, 0.0, hits[0].Distance, 1e-5)
	assert.LessOrEqual(t, hits[0].Distance, hits[1].Distance, "hits ordered by ascending distance")
	require.NotNil(t, hits[0].Chunk.Year)
	assert.Equal(t, 2021, *hits[0].Chunk.Year)
}

func TestStoreSearchEmptyCorpus(t *testing.T) {
	store, _ := newStore(t)

	hits, err := store.Search(context.Background(), "cualquier cosa", 5)

	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestStoreSearchRejectsNonPositiveK(t *testing.T) {
	store, _ := newStore(t)

	_, err := store.Search(context.Background(), "consulta", 0)
	assert.Error(t, err)
}

func TestStoreReset(t *testing.T) {
	store, _ := newStore(t)
	ctx := context.Background()

	require.NoError(t, store.Add(ctx, sampleChunks()))
	require.NoError(t, store.Reset(ctx))

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}
