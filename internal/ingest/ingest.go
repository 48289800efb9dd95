// Package ingest turns source PDF documents into embedded corpus chunks:
// text extraction, character splitting with overlap, catalog metadata
// resolution, and batch insertion into the corpus store. It runs as a
// one-time batch job (the `nourai ingest` command), not at query time.
package ingest

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/nourai/nourai/internal/corpus"
)

// ChunkWriter is the storage boundary: persist a batch of embedded
// chunks. Implemented by *corpus.Store.
type ChunkWriter interface {
	Add(ctx context.Context, chunks []corpus.Chunk) error
}

// Pipeline wires extraction, splitting, and storage.
type Pipeline struct {
	writer   ChunkWriter
	splitter *Splitter
	catalog  *Catalog
	logger   *slog.Logger
}

// NewPipeline creates an ingestion Pipeline. A nil catalog degrades to
// filename-derived metadata for every document.
func NewPipeline(writer ChunkWriter, splitter *Splitter, catalog *Catalog, logger *slog.Logger) (*Pipeline, error) {
	if writer == nil {
		return nil, fmt.Errorf("chunk writer is required")
	}
	if splitter == nil {
		return nil, fmt.Errorf("splitter is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{writer: writer, splitter: splitter, catalog: catalog, logger: logger}, nil
}

// Run loads every PDF under dir, splits each into chunks, and writes
// them to the corpus. Returns the total number of chunks written.
func (p *Pipeline) Run(ctx context.Context, dir string) (int, error) {
	docs, err := LoadPDFs(dir, p.catalog)
	if err != nil {
		return 0, err
	}
	if len(docs) == 0 {
		return 0, fmt.Errorf("no PDF documents found under %s", dir)
	}

	total := 0
	for _, doc := range docs {
		chunks := p.chunkDocument(doc)
		if len(chunks) == 0 {
			p.logger.Warn("document produced no chunks", "file", doc.Filename)
			continue
		}

		if err := p.writer.Add(ctx, chunks); err != nil {
			return total, fmt.Errorf("storing chunks of %s: %w", doc.Filename, err)
		}

		total += len(chunks)
		p.logger.Info("ingested document", "file", doc.Filename, "chunks", len(chunks))
	}

	return total, nil
}

// chunkDocument splits one document and stamps each chunk with the
// document's metadata. Chunk indexes are assigned in document order.
func (p *Pipeline) chunkDocument(doc Document) []corpus.Chunk {
	texts := p.splitter.Split(doc.Content)

	chunks := make([]corpus.Chunk, 0, len(texts))
	for i, text := range texts {
		chunks = append(chunks, corpus.Chunk{
			Content:             text,
			SourcePath:          doc.SourcePath,
			Filename:            doc.Filename,
			Title:               doc.Metadata.Title,
			Organization:        doc.Metadata.Organization,
			OrganizationAcronym: doc.Metadata.OrganizationAcronym,
			Year:                doc.Metadata.Year,
			Author:              doc.Metadata.Author,
			Link:                doc.Metadata.Link,
			ChunkIndex:          i,
		})
	}
	return chunks
}
