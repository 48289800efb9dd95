package ingest

import (
	"bytes"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Document is one loaded source file with its full extracted text.
type Document struct {
	SourcePath string
	Filename   string
	Content    string
	Metadata   Metadata
}

// ExtractPDFText extracts the plain text of a PDF file.
func ExtractPDFText(path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening pdf %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	reader, err := r.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("extracting text from %s: %w", path, err)
	}

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(reader); err != nil {
		return "", fmt.Errorf("reading text of %s: %w", path, err)
	}
	return buf.String(), nil
}

// LoadPDFs walks dir, extracts the text of every .pdf file, and resolves
// each file's metadata from the catalog. The first file that cannot be
// read or extracted aborts the walk.
func LoadPDFs(dir string, catalog *Catalog) ([]Document, error) {
	var docs []Document

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(path), ".pdf") {
			return nil
		}

		text, extractErr := ExtractPDFText(path)
		if extractErr != nil {
			return fmt.Errorf("loading %s: %w", path, extractErr)
		}

		docs = append(docs, Document{
			SourcePath: path,
			Filename:   filepath.Base(path),
			Content:    text,
			Metadata:   catalog.Lookup(path),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", dir, err)
	}

	return docs, nil
}
