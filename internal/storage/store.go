package storage

import (
	"context"
	"time"

	"nixdoc/internal/extractor"
)

// Store is the persistent documentation catalog.
type Store interface {
	CatalogStore
	Close() error
}

// FileRecord describes one scanned Nix file.
type FileRecord struct {
	Path        string
	Category    string
	Description string
	ContentHash string
	Size        int64
	ScannedAt   time.Time
}

// CatalogStore defines operations for persisting extracted entries.
type CatalogStore interface {
	// SaveFile replaces the file record and all of its entries.
	SaveFile(ctx context.Context, file FileRecord, entries []extractor.ManualEntry) error

	// DeleteFile removes a file and its entries.
	DeleteFile(ctx context.Context, path string) error

	// FileHash returns the stored content hash of a file.
	FileHash(ctx context.Context, path string) (string, bool, error)

	// ListFiles returns all file records ordered by path.
	ListFiles(ctx context.Context) ([]FileRecord, error)

	// ListCategories returns the distinct categories in the catalog.
	ListCategories(ctx context.Context) ([]string, error)

	// LoadCategory returns the entries of a category ordered by file and
	// source position.
	LoadCategory(ctx context.Context, category string) ([]extractor.ManualEntry, error)
}
