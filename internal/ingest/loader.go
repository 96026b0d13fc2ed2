// Package ingest turns plain-text and PDF files into documents.
package ingest

import (
	"bytes"
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"

	"docqa/internal/domain"
)

// ErrUnsupported is returned for files that are neither .txt nor .pdf.
var ErrUnsupported = errors.New("unsupported document type")

// Supported reports whether name has an extension the loader can read.
func Supported(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".txt", ".pdf":
		return true
	}
	return false
}

// Expand resolves glob patterns. A pattern with no matches is kept as a
// literal path so that a missing file surfaces as a read error.
func Expand(patterns []string) []string {
	var out []string
	for _, p := range patterns {
		matches, _ := filepath.Glob(p)
		if matches == nil {
			matches = []string{p}
		}
		out = append(out, matches...)
	}
	return out
}

// LoadPaths reads every supported file among the expanded patterns.
// Unsupported files are skipped.
func LoadPaths(patterns []string) ([]domain.Document, error) {
	var documents []domain.Document
	for _, m := range Expand(patterns) {
		if !Supported(m) {
			continue
		}
		doc, err := LoadFile(m)
		if err != nil {
			return nil, err
		}
		documents = append(documents, doc)
	}
	if len(documents) == 0 {
		return nil, fmt.Errorf("no .txt or .pdf documents found: %w", domain.ErrEmptyInput)
	}
	return documents, nil
}

func LoadFile(path string) (domain.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Document{}, err
	}
	return Parse(path, data)
}

// LoadReader reads an upload of unknown size fully and parses it.
func LoadReader(name string, r io.Reader) (domain.Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return domain.Document{}, err
	}
	return Parse(name, data)
}

// Parse builds a document from raw file bytes. PDFs keep their text per
// page in Pages.
func Parse(name string, data []byte) (domain.Document, error) {
	doc := domain.Document{ID: hashString(name), Path: name}
	switch strings.ToLower(filepath.Ext(name)) {
	case ".txt":
		doc.Content = string(data)
	case ".pdf":
		pages, err := pdfPages(data)
		if err != nil {
			return domain.Document{}, fmt.Errorf("%s: %w", name, err)
		}
		doc.Pages = pages
		doc.Content = strings.Join(pages, "\n")
	default:
		return domain.Document{}, fmt.Errorf("%s: %w", name, ErrUnsupported)
	}
	return doc, nil
}

func pdfPages(data []byte) ([]string, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, err
	}
	pages := make([]string, 0, r.NumPage())
	for i := 1; i <= r.NumPage(); i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			pages = append(pages, "")
			continue
		}
		text, err := p.GetPlainText(nil)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", i, err)
		}
		pages = append(pages, text)
	}
	return pages, nil
}

func hashString(s string) string {
	h := sha1.Sum([]byte(s))
	return hex.EncodeToString(h[:8])
}
