package extractor

import (
	"fmt"
	"os"

	"nixdoc/internal/syntax"
)

// Extractor reads Nix library files and extracts their documented entries.
type Extractor struct{}

// NewExtractor creates a new extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// ExtractFromFile parses a single Nix file and returns its documented
// entries under the given category.
func (e *Extractor) ExtractFromFile(path, category string) ([]ManualEntry, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", path, err)
	}
	return e.ExtractSource(path, string(src), category)
}

// ExtractSource extracts entries from already loaded source text. The name
// is only used in error messages.
func (e *Extractor) ExtractSource(name, src, category string) ([]ManualEntry, error) {
	tree, err := e.Parse(name, src)
	if err != nil {
		return nil, err
	}
	entries, err := CollectEntries(tree, category)
	if err != nil {
		return nil, fmt.Errorf("failed to extract %s: %w", name, err)
	}
	return entries, nil
}

// Parse parses src and fails on any syntax error.
func (e *Extractor) Parse(name, src string) (*syntax.Tree, error) {
	tree, err := syntax.Parse(src)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", name, err)
	}
	return tree, nil
}
