package rag

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nourai/nourai/internal/corpus"
)

func TestSimilarity(t *testing.T) {
	tests := []struct {
		name     string
		distance float64
		want     float64
	}{
		{"zero distance", 0, 1.0},
		{"unit distance", 1, 0.5},
		{"threshold boundary", 1.0, 0.5},
		{"large distance", 9, 0.1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Similarity(tt.distance), 1e-9)
		})
	}
}

func TestSimilarityRange(t *testing.T) {
	for _, d := range []float64{0, 0.001, 0.5, 1, 10, 1000} {
		s := Similarity(d)
		assert.Greater(t, s, 0.0, "distance %v", d)
		assert.LessOrEqual(t, s, 1.0, "distance %v", d)
	}
}

func hit(id int64, distance float64) corpus.Hit {
	return corpus.Hit{Chunk: corpus.Chunk{ID: id}, Distance: distance}
}

func TestFilterByThreshold(t *testing.T) {
	hits := []corpus.Hit{
		hit(1, 0.2), // similarity ~0.833
		hit(2, 1.0), // similarity 0.5, exactly at threshold
		hit(3, 3.0), // similarity 0.25
	}

	got := FilterByThreshold(hits, 0.5)

	require.Len(t, got, 2)
	assert.Equal(t, int64(1), got[0].Chunk.ID)
	assert.Equal(t, int64(2), got[1].Chunk.ID)
	assert.InDelta(t, 0.5, got[1].Similarity, 1e-9, "boundary similarity is retained")
}

func TestFilterByThresholdPreservesOrder(t *testing.T) {
	hits := []corpus.Hit{hit(10, 0.1), hit(20, 0.2), hit(30, 0.3)}

	got := FilterByThreshold(hits, 0.5)

	require.Len(t, got, 3)
	for i, want := range []int64{10, 20, 30} {
		assert.Equal(t, want, got[i].Chunk.ID)
	}
}

func TestFilterByThresholdIdempotent(t *testing.T) {
	hits := []corpus.Hit{hit(1, 0.4), hit(2, 2.5), hit(3, 0.9)}

	once := FilterByThreshold(hits, 0.5)

	// Re-filtering the survivors must be a no-op.
	surviving := make([]corpus.Hit, 0, len(once))
	for _, sc := range once {
		surviving = append(surviving, corpus.Hit{Chunk: sc.Chunk, Distance: 1/sc.Similarity - 1})
	}
	twice := FilterByThreshold(surviving, 0.5)

	require.Len(t, twice, len(once))
	for i := range once {
		assert.Equal(t, once[i].Chunk.ID, twice[i].Chunk.ID)
		assert.InDelta(t, once[i].Similarity, twice[i].Similarity, 1e-9)
	}
}

func TestFilterByThresholdAllBelow(t *testing.T) {
	hits := []corpus.Hit{hit(1, 5), hit(2, 9)}

	got := FilterByThreshold(hits, 0.5)

	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestFilterByThresholdEmptyInput(t *testing.T) {
	got := FilterByThreshold(nil, 0.5)

	assert.NotNil(t, got)
	assert.Empty(t, got)
}
