package crawler

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"nixdoc/internal/extractor"
)

// FileResult is the extraction outcome of one Nix file.
type FileResult struct {
	Path     string // slash-separated, relative to the scanned root
	Category string
	Source   []byte
	Entries  []extractor.ManualEntry
}

// Crawler scans a directory for Nix library files.
type Crawler struct {
	extractor *extractor.Extractor
	ignored   []string
}

// NewCrawler creates a new crawler instance.
func NewCrawler(ext *extractor.Extractor) *Crawler {
	return &Crawler{
		extractor: ext,
		ignored:   []string{".git", "node_modules", "result"},
	}
}

// CategoryOf derives the category of a file from its base name, so that
// lib/strings.nix documents lib.strings.
func CategoryOf(path string) string {
	return strings.TrimSuffix(filepath.Base(path), ".nix")
}

// ScanProject walks the root directory and extracts every .nix file.
// Results are streamed to onFile; files that fail to extract are reported
// to onError and the walk continues.
func (c *Crawler) ScanProject(root string, onFile func(FileResult), onError func(path string, err error)) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		// Skip ignored directories
		if d.IsDir() {
			for _, ign := range c.ignored {
				if d.Name() == ign && path != root {
					return filepath.SkipDir
				}
			}
			return nil
		}

		if !strings.HasSuffix(d.Name(), ".nix") {
			return nil
		}

		result, err := c.ScanFile(root, path)
		if err != nil {
			if onError != nil {
				onError(result.Path, err)
			}
			return nil
		}
		onFile(result)
		return nil
	})
}

// ScanFile extracts a single file below root.
func (c *Crawler) ScanFile(root, path string) (FileResult, error) {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		rel = path
	}
	result := FileResult{
		Path:     filepath.ToSlash(rel),
		Category: CategoryOf(path),
	}

	src, err := os.ReadFile(path)
	if err != nil {
		return result, fmt.Errorf("failed to read file %s: %w", path, err)
	}
	result.Source = src

	entries, err := c.extractor.ExtractSource(result.Path, string(src), result.Category)
	if err != nil {
		return result, err
	}
	result.Entries = entries
	return result, nil
}
