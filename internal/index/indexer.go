package index

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"nixdoc/internal/crawler"
	"nixdoc/internal/generator"
	"nixdoc/internal/git"
	"nixdoc/internal/storage"
)

// Indexer keeps the documentation catalog in sync with a directory of Nix
// files.
type Indexer struct {
	crawler  *crawler.Crawler
	store    storage.CatalogStore
	describe func(category string) string
	now      func() time.Time
}

// Stats summarizes one indexing run.
type Stats struct {
	Files   int
	Updated int
	Skipped int
	Removed int
	Failed  int
	Entries int
	Bytes   int64
}

// NewIndexer creates a new indexer. describe supplies the heading
// description stored for a category and may be nil.
func NewIndexer(c *crawler.Crawler, store storage.CatalogStore, describe func(string) string) *Indexer {
	if describe == nil {
		describe = func(category string) string { return category }
	}
	return &Indexer{
		crawler:  c,
		store:    store,
		describe: describe,
		now:      time.Now,
	}
}

func contentHash(src []byte) string {
	sum := sha256.Sum256(src)
	return hex.EncodeToString(sum[:])
}

// IndexAll scans every Nix file below root and removes catalog rows of
// files that no longer exist. report may be nil.
func (i *Indexer) IndexAll(ctx context.Context, root string, report *generator.RunReport) (Stats, error) {
	var stats Stats
	seen := make(map[string]bool)
	var storeErr error

	stage := report.BeginStage("scan")
	err := i.crawler.ScanProject(root, func(res crawler.FileResult) {
		seen[res.Path] = true
		if storeErr != nil {
			return
		}
		if err := ctx.Err(); err != nil {
			storeErr = err
			return
		}
		storeErr = i.save(ctx, res, &stats, report)
	}, func(path string, err error) {
		seen[path] = true
		i.fail(path, err, &stats, report)
	})
	if err == nil {
		err = storeErr
	}
	report.EndStage(stage, "", map[string]float64{
		"files":   float64(stats.Files),
		"updated": float64(stats.Updated),
		"skipped": float64(stats.Skipped),
		"failed":  float64(stats.Failed),
	}, nil, err)
	if err != nil {
		return stats, fmt.Errorf("scan failed: %w", err)
	}

	stage = report.BeginStage("prune")
	err = i.prune(ctx, seen, &stats)
	report.EndStage(stage, "", map[string]float64{"removed": float64(stats.Removed)}, nil, err)
	if err != nil {
		return stats, fmt.Errorf("prune failed: %w", err)
	}

	return stats, nil
}

// IndexChanged re-extracts the changed .nix files below root and deletes
// the catalog rows of removed ones. Paths are relative to root.
func (i *Indexer) IndexChanged(ctx context.Context, root string, changes []git.ChangedFile, report *generator.RunReport) (Stats, error) {
	var stats Stats

	stage := report.BeginStage("update")
	err := func() error {
		for _, change := range git.NixFiles(changes) {
			if err := ctx.Err(); err != nil {
				return err
			}

			path := filepath.Join(root, filepath.FromSlash(change.Path))
			if !change.Deleted {
				if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
					change.Deleted = true
				}
			}
			if change.Deleted {
				if err := i.store.DeleteFile(ctx, change.Path); err != nil {
					return err
				}
				stats.Removed++
				continue
			}

			res, err := i.crawler.ScanFile(root, path)
			if err != nil {
				i.fail(res.Path, err, &stats, report)
				continue
			}
			if err := i.save(ctx, res, &stats, report); err != nil {
				return err
			}
		}
		return nil
	}()
	report.EndStage(stage, "", map[string]float64{
		"files":   float64(stats.Files),
		"updated": float64(stats.Updated),
		"removed": float64(stats.Removed),
		"failed":  float64(stats.Failed),
	}, nil, err)
	if err != nil {
		return stats, fmt.Errorf("update failed: %w", err)
	}
	return stats, nil
}

func (i *Indexer) save(ctx context.Context, res crawler.FileResult, stats *Stats, report *generator.RunReport) error {
	stats.Files++
	stats.Bytes += int64(len(res.Source))

	hash := contentHash(res.Source)
	metric := generator.FileMetric{
		Path:     res.Path,
		Category: res.Category,
		Entries:  len(res.Entries),
		Bytes:    int64(len(res.Source)),
	}

	stored, ok, err := i.store.FileHash(ctx, res.Path)
	if err != nil {
		return err
	}
	if ok && stored == hash {
		stats.Skipped++
		metric.Skipped = true
		report.AddFile(metric)
		return nil
	}

	rec := storage.FileRecord{
		Path:        res.Path,
		Category:    res.Category,
		Description: i.describe(res.Category),
		ContentHash: hash,
		Size:        int64(len(res.Source)),
		ScannedAt:   i.now(),
	}
	if err := i.store.SaveFile(ctx, rec, res.Entries); err != nil {
		return err
	}
	if len(res.Entries) == 0 {
		report.AddSignal("no_entries", "scan", "info", "no documented bindings found", res.Path)
	}
	stats.Updated++
	stats.Entries += len(res.Entries)
	report.AddFile(metric)
	return nil
}

func (i *Indexer) fail(path string, err error, stats *Stats, report *generator.RunReport) {
	stats.Failed++
	report.AddSignal("extract_failed", "scan", "warning", err.Error(), path)
	report.AddFile(generator.FileMetric{Path: path, Category: crawler.CategoryOf(path), Error: err.Error()})
}

func (i *Indexer) prune(ctx context.Context, seen map[string]bool, stats *Stats) error {
	files, err := i.store.ListFiles(ctx)
	if err != nil {
		return err
	}
	for _, f := range files {
		if seen[f.Path] {
			continue
		}
		if err := i.store.DeleteFile(ctx, f.Path); err != nil {
			return err
		}
		stats.Removed++
	}
	return nil
}
