package ingest

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitterShortTextSingleChunk(t *testing.T) {
	s := NewSplitter(500, 200)

	got := s.Split("Un texto corto sobre nutrición.")

	require.Len(t, got, 1)
	assert.Equal(t, "Un texto corto sobre nutrición.", got[0])
}

func TestSplitterEmptyInput(t *testing.T) {
	s := NewSplitter(500, 200)

	assert.Nil(t, s.Split(""))
	assert.Nil(t, s.Split("   \n\t  "))
}

func TestSplitterRespectsChunkSize(t *testing.T) {
	s := NewSplitter(100, 20)
	text := strings.Repeat("palabra ", 200)

	got := s.Split(text)

	require.NotEmpty(t, got)
	for i, chunk := range got {
		assert.LessOrEqual(t, len([]rune(chunk)), 100, "chunk %d exceeds size", i)
		assert.NotEmpty(t, strings.TrimSpace(chunk))
	}
}

func TestSplitterPrefersParagraphBoundaries(t *testing.T) {
	para1 := strings.Repeat("a", 60)
	para2 := strings.Repeat("b", 60)
	s := NewSplitter(100, 10)

	got := s.Split(para1 + "\n\n" + para2)

	require.GreaterOrEqual(t, len(got), 2)
	assert.Equal(t, para1, got[0], "first chunk cuts at the paragraph break")
}

func TestSplitterOverlapCarriesContext(t *testing.T) {
	words := make([]string, 0, 120)
	for i := 0; i < 120; i++ {
		words = append(words, "dato")
	}
	text := strings.Join(words, " ")
	s := NewSplitter(100, 40)

	got := s.Split(text)

	require.GreaterOrEqual(t, len(got), 2)
	// Consecutive chunks share text because each new window starts
	// overlap runes before the previous end.
	first := []rune(got[0])
	tail := string(first[len(first)-10:])
	assert.Contains(t, got[1], strings.TrimSpace(tail))
}

func TestSplitterCoversAllContent(t *testing.T) {
	text := "El hierro es esencial. El calcio fortalece huesos. La fibra ayuda a la digestión. " +
		strings.Repeat("Las vitaminas son micronutrientes. ", 20)
	s := NewSplitter(80, 20)

	got := s.Split(text)

	joined := strings.Join(got, " ")
	for _, phrase := range []string{"hierro", "calcio", "fibra", "vitaminas"} {
		assert.Contains(t, joined, phrase)
	}
}

func TestSplitterMakesForwardProgress(t *testing.T) {
	// Overlap nearly as large as the chunk must still terminate.
	s := NewSplitter(10, 9)
	text := strings.Repeat("x", 500)

	got := s.Split(text)

	assert.NotEmpty(t, got)
}

func TestNewSplitterDefaults(t *testing.T) {
	s := NewSplitter(0, -1)
	assert.Equal(t, 500, s.chunkSize)
	assert.Equal(t, 200, s.overlap)

	s = NewSplitter(100, 100)
	assert.Equal(t, 100, s.chunkSize)
	assert.Equal(t, 50, s.overlap)
}

func TestSplitterUnicodeSafety(t *testing.T) {
	text := strings.Repeat("nutrición según evaluación ", 40)
	s := NewSplitter(50, 10)

	got := s.Split(text)

	for _, chunk := range got {
		assert.True(t, strings.ContainsAny(chunk, "nutrición según evaluación"),
			"chunks must not split multibyte runes")
	}
}
