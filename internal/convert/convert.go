// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert extracts plain text from papers with pluggable backends.
// Extraction is best effort: callers treat empty text as a skipped paper.
package convert

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Converter turns a paper file into plain text. Different backends
// (native PDF parsing, side-car text, pdftotext in a container) implement
// this interface.
type Converter interface {
	// Convert reads the file at path and returns its text.
	Convert(path string) (string, error)
}

// BatchResult holds the outcome of an extraction run.
type BatchResult struct {
	Extracted int
	Cached    int
	Failed    int
}

// Total returns the total number of files processed.
func (r BatchResult) Total() int {
	return r.Extracted + r.Cached + r.Failed
}

// HasFailures reports whether any file yielded no text.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// Extract runs c on path and returns the text, or "" when conversion fails
// or yields only whitespace. Failures are reported to w.
func Extract(c Converter, path string, w io.Writer) string {
	text, err := c.Convert(path)
	if err != nil {
		fmt.Fprintf(w, "failed  %s: %v\n", filepath.Base(path), err)
		return ""
	}
	if strings.TrimSpace(text) == "" {
		fmt.Fprintf(w, "failed  %s: no text extracted\n", filepath.Base(path))
		return ""
	}
	return text
}

// TextConverter reads plain-text files as they are.
type TextConverter struct{}

// Convert implements Converter.
func (TextConverter) Convert(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	return string(data), nil
}

// Auto prefers text over PDF parsing: .txt files are read directly, and a
// PDF with a side-car "<name>.txt" next to it is read from the side-car.
// Everything else goes to PDF.
type Auto struct {
	PDF  Converter
	Text Converter
}

// NewAuto returns an Auto using pdf for PDFs and TextConverter for text.
func NewAuto(pdf Converter) *Auto {
	return &Auto{PDF: pdf, Text: TextConverter{}}
}

// Convert implements Converter.
func (a *Auto) Convert(path string) (string, error) {
	if strings.EqualFold(filepath.Ext(path), ".txt") {
		return a.Text.Convert(path)
	}
	if side := SidecarPath(path); side != "" {
		if info, err := os.Stat(side); err == nil && info.Size() > 0 {
			return a.Text.Convert(side)
		}
	}
	return a.PDF.Convert(path)
}

// SidecarPath returns the ".txt" path next to a PDF, or "" for other files.
func SidecarPath(path string) string {
	ext := filepath.Ext(path)
	if !strings.EqualFold(ext, ".pdf") {
		return ""
	}
	return strings.TrimSuffix(path, ext) + ".txt"
}

// Cached stores extracted text under Dir, mirroring each file's location
// relative to Root, and reuses a stored copy when it is non-empty.
type Cached struct {
	Converter Converter
	Root      string
	Dir       string
}

// CachePath returns where the text of path is stored.
func (c *Cached) CachePath(path string) string {
	rel, err := filepath.Rel(c.Root, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		rel = filepath.Base(path)
	}
	return filepath.Join(c.Dir, strings.TrimSuffix(rel, filepath.Ext(rel))+".txt")
}

// Lookup returns the cached text of path, if any.
func (c *Cached) Lookup(path string) (string, bool) {
	data, err := os.ReadFile(c.CachePath(path))
	if err != nil || strings.TrimSpace(string(data)) == "" {
		return "", false
	}
	return string(data), true
}

// Convert implements Converter.
func (c *Cached) Convert(path string) (string, error) {
	if text, ok := c.Lookup(path); ok {
		return text, nil
	}

	text, err := c.Converter.Convert(path)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(text) == "" {
		return text, nil
	}

	out := c.CachePath(path)
	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return "", fmt.Errorf("creating text cache dir: %w", err)
	}
	if err := os.WriteFile(out, []byte(text), 0o644); err != nil {
		return "", fmt.Errorf("writing text cache %s: %w", out, err)
	}
	return text, nil
}
