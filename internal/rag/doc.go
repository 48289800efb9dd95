// Package rag implements the retrieval-augmented generation core: query
// expansion, similarity filtering, clinical-context rendering, prompt
// composition, answer generation, and citation extraction, orchestrated
// by Engine into a single stateless request/response cycle.
//
// The package depends on two boundaries it does not implement: a Searcher
// (embedding + nearest-neighbor search, backed by the corpus store) and a
// Generator (blocking text generation, backed by Genkit). Both are
// consumer-defined interfaces so tests can substitute deterministic fakes.
package rag
