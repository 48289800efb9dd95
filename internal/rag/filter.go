package rag

import "github.com/nourai/nourai/internal/corpus"

// ScoredChunk is a retrieved chunk with its normalized similarity score.
// Created per-query and discarded when the request completes.
type ScoredChunk struct {
	Chunk      corpus.Chunk
	Similarity float64
}

// Similarity converts a non-negative distance to a score in (0,1].
// Distance 0 maps to 1; the score decays toward 0 as distance grows.
func Similarity(distance float64) float64 {
	return 1 / (1 + distance)
}

// FilterByThreshold keeps hits whose similarity is at or above threshold,
// preserving input order. The index returns hits distance-ascending, so
// the surviving sequence is similarity-descending. An empty result is a
// valid outcome, not an error; the orchestrator maps it to a terminal
// graceful-empty state.
func FilterByThreshold(hits []corpus.Hit, threshold float64) []ScoredChunk {
	filtered := make([]ScoredChunk, 0, len(hits))
	for _, h := range hits {
		similarity := Similarity(h.Distance)
		if similarity >= threshold {
			filtered = append(filtered, ScoredChunk{Chunk: h.Chunk, Similarity: similarity})
		}
	}
	return filtered
}
