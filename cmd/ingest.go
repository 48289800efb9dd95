package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/nourai/nourai/internal/app"
	"github.com/nourai/nourai/internal/config"
	"github.com/nourai/nourai/internal/ingest"
)

// runIngest indexes PDF documents into the vector store.
func runIngest(args []string) error {
	fs := flag.NewFlagSet("ingest", flag.ContinueOnError)
	dir := fs.String("dir", "", "PDF directory (default: configured pdf_dir)")
	reset := fs.Bool("reset", false, "truncate the document index before ingesting")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("parsing ingest flags: %w", err)
	}

	logger := initLogger()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	pdfDir := *dir
	if pdfDir == "" {
		pdfDir = cfg.PDFDir
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	a, err := app.Setup(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("initializing application: %w", err)
	}
	defer func() {
		if closeErr := a.Close(); closeErr != nil {
			logger.Warn("shutdown error", "error", closeErr)
		}
	}()

	if *reset {
		logger.Info("resetting document index")
		if err := a.Corpus.Reset(ctx); err != nil {
			return fmt.Errorf("resetting document index: %w", err)
		}
	}

	catalog, err := ingest.LoadCatalog(cfg.CatalogPath)
	if err != nil {
		// A missing catalog degrades to filename-derived metadata.
		if !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("loading catalog: %w", err)
		}
		logger.Warn("catalog not found, using filename-derived metadata", "path", cfg.CatalogPath)
		catalog = nil
	}

	pipeline, err := ingest.NewPipeline(a.Corpus, ingest.NewSplitter(cfg.ChunkSize, cfg.ChunkOverlap), catalog, logger)
	if err != nil {
		return fmt.Errorf("creating ingest pipeline: %w", err)
	}

	chunks, err := pipeline.Run(ctx, pdfDir)
	if err != nil {
		return fmt.Errorf("ingesting documents: %w", err)
	}

	total, err := a.Corpus.Count(ctx)
	if err != nil {
		return fmt.Errorf("counting indexed chunks: %w", err)
	}

	fmt.Printf("Ingesta completada: %d fragmentos nuevos, %d en total.\n", chunks, total)
	return nil
}
