// Package corpus manages the document corpus with vector search
// capabilities. It handles embedding generation and cosine-distance
// nearest-neighbor search using PostgreSQL + pgvector.
package corpus

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/firebase/genkit/go/ai"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"
)

// chunkCols is the standard SELECT column list for scanHits.
const chunkCols = `id, content, source_path, filename, title, organization,
	organization_acronym, year, author, link, chunk_index, created_at`

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithEmbedOptions sets provider-specific options passed on every embed
// request (e.g. *genai.EmbedContentConfig with OutputDimensionality for
// Gemini, whose default output is wider than the schema's 768).
func WithEmbedOptions(opts any) StoreOption {
	return func(s *Store) {
		s.embedOpts = opts
	}
}

// Store manages corpus chunks backed by PostgreSQL + pgvector.
//
// Store is safe for concurrent use by multiple goroutines. The embedder
// must be the same model at ingestion and query time; a mismatch is a
// silent retrieval-quality bug, not a detected error.
type Store struct {
	pool      *pgxpool.Pool
	embedder  ai.Embedder
	embedOpts any
	logger    *slog.Logger
}

// NewStore creates a corpus Store.
func NewStore(pool *pgxpool.Pool, embedder ai.Embedder, logger *slog.Logger, opts ...StoreOption) (*Store, error) {
	if pool == nil {
		return nil, fmt.Errorf("pool is required")
	}
	if embedder == nil {
		return nil, fmt.Errorf("embedder is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	s := &Store{pool: pool, embedder: embedder, logger: logger}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// embed generates a vector embedding for the given text.
func (s *Store) embed(ctx context.Context, text string) (pgvector.Vector, error) {
	resp, err := s.embedder.Embed(ctx, &ai.EmbedRequest{
		Input:   []*ai.Document{ai.DocumentFromText(text, nil)},
		Options: s.embedOpts,
	})
	if err != nil {
		return pgvector.Vector{}, fmt.Errorf("embedding text: %w", err)
	}
	if len(resp.Embeddings) == 0 || len(resp.Embeddings[0].Embedding) == 0 {
		return pgvector.Vector{}, fmt.Errorf("empty embedding response")
	}
	return pgvector.NewVector(resp.Embeddings[0].Embedding), nil
}

// Add embeds and inserts a batch of chunks.
// Chunks are write-once: re-ingesting the same source path and chunk
// index is a conflict, surfaced as an error rather than an upsert.
func (s *Store) Add(ctx context.Context, chunks []Chunk) error {
	for i := range chunks {
		c := &chunks[i]
		embedding, err := s.embed(ctx, c.Content)
		if err != nil {
			return fmt.Errorf("embedding chunk %d of %s: %w", c.ChunkIndex, c.SourcePath, err)
		}

		_, err = s.pool.Exec(ctx,
			`INSERT INTO documents (content, embedding, source_path, filename, title,
				organization, organization_acronym, year, author, link, chunk_index)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
			c.Content, embedding, c.SourcePath, c.Filename, c.Title,
			c.Organization, c.OrganizationAcronym, c.Year, c.Author, c.Link, c.ChunkIndex)
		if err != nil {
			return fmt.Errorf("inserting chunk %d of %s: %w", c.ChunkIndex, c.SourcePath, err)
		}
	}

	s.logger.Debug("added chunks", "count", len(chunks))
	return nil
}

// Search embeds the query and returns the k nearest chunks ordered by
// ascending cosine distance. k must be positive.
func (s *Store) Search(ctx context.Context, query string, k int) ([]Hit, error) {
	if k < 1 {
		return nil, fmt.Errorf("k must be positive, got %d", k)
	}

	queryEmbedding, err := s.embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}

	rows, err := s.pool.Query(ctx,
		`SELECT `+chunkCols+`, embedding <=> $1 AS distance
		FROM documents
		ORDER BY distance
		LIMIT $2`,
		queryEmbedding, k)
	if err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}
	defer rows.Close()

	var hits []Hit
	for rows.Next() {
		var h Hit
		if err := rows.Scan(
			&h.Chunk.ID, &h.Chunk.Content, &h.Chunk.SourcePath, &h.Chunk.Filename,
			&h.Chunk.Title, &h.Chunk.Organization, &h.Chunk.OrganizationAcronym,
			&h.Chunk.Year, &h.Chunk.Author, &h.Chunk.Link, &h.Chunk.ChunkIndex,
			&h.Chunk.CreatedAt, &h.Distance,
		); err != nil {
			return nil, fmt.Errorf("scanning search row: %w", err)
		}
		hits = append(hits, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading search rows: %w", err)
	}

	s.logger.Debug("vector search", "k", k, "hits", len(hits))
	return hits, nil
}

// Count returns the total number of chunks in the corpus.
func (s *Store) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM documents`).Scan(&count); err != nil {
		return 0, fmt.Errorf("counting documents: %w", err)
	}
	return count, nil
}

// Reset deletes every chunk. This is the only way chunks are removed.
func (s *Store) Reset(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, `TRUNCATE documents RESTART IDENTITY`); err != nil {
		return fmt.Errorf("resetting corpus: %w", err)
	}
	s.logger.Info("corpus reset")
	return nil
}
