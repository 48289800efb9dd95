package corpus

import "time"

// VectorDimension is the embedding dimension of the documents table.
// The pgvector column is declared vector(768); every embedder wired into
// the store must produce vectors of exactly this size.
const VectorDimension int32 = 768

// Chunk is an immutable unit of retrievable text, created at ingestion
// time and never mutated. Every chunk belongs to exactly one source
// document; ChunkIndex is its position within that document.
type Chunk struct {
	ID                  int64
	Content             string
	SourcePath          string
	Filename            string
	Title               string
	Organization        string
	OrganizationAcronym string
	Year                *int    // nil when the catalog has no year
	Author              string
	Link                *string // nil when the catalog has no link
	ChunkIndex          int
	CreatedAt           time.Time
}

// Hit is a chunk returned by nearest-neighbor search, paired with its
// cosine distance. Distance is non-negative and smaller-is-closer.
type Hit struct {
	Chunk    Chunk
	Distance float64
}
