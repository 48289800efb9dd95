package ingest

import "strings"

// Splitter cuts document text into overlapping character-bounded chunks,
// preferring to break at paragraph, then sentence, then word boundaries.
type Splitter struct {
	chunkSize int
	overlap   int
}

// NewSplitter creates a Splitter. Invalid values fall back to the
// corpus defaults (500/200).
func NewSplitter(chunkSize, overlap int) *Splitter {
	if chunkSize < 1 {
		chunkSize = 500
	}
	if overlap < 0 || overlap >= chunkSize {
		overlap = 200
		if overlap >= chunkSize {
			overlap = chunkSize / 2
		}
	}
	return &Splitter{chunkSize: chunkSize, overlap: overlap}
}

// boundary separators tried in order, coarsest first.
var separators = []string{"\n\n", "\n", ". ", " "}

// Split returns the text cut into chunks of at most chunkSize runes,
// with the configured overlap carried between consecutive chunks.
// Whitespace-only input yields no chunks.
func (s *Splitter) Split(text string) []string {
	runes := []rune(strings.TrimSpace(text))
	if len(runes) == 0 {
		return nil
	}

	var chunks []string
	start := 0
	for start < len(runes) {
		end := start + s.chunkSize
		if end >= len(runes) {
			end = len(runes)
		} else {
			end = s.breakpoint(runes, start, end)
		}

		chunk := strings.TrimSpace(string(runes[start:end]))
		if chunk != "" {
			chunks = append(chunks, chunk)
		}

		if end == len(runes) {
			break
		}
		next := end - s.overlap
		if next <= start {
			next = start + 1 // guarantee forward progress
		}
		start = next
	}

	return chunks
}

// breakpoint finds the best cut position at or before hardEnd, scanning
// separators coarsest-first within the second half of the window so
// chunks do not collapse to fragments.
func (s *Splitter) breakpoint(runes []rune, start, hardEnd int) int {
	window := string(runes[start:hardEnd])
	minCut := len([]rune(window)) / 2

	for _, sep := range separators {
		idx := strings.LastIndex(window, sep)
		if idx < 0 {
			continue
		}
		cut := len([]rune(window[:idx+len(sep)]))
		if cut >= minCut {
			return start + cut
		}
	}
	return hardEnd
}
