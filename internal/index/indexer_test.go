package index

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"nixdoc/internal/crawler"
	"nixdoc/internal/extractor"
	"nixdoc/internal/generator"
	"nixdoc/internal/git"
	"nixdoc/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func newTestIndexer(t *testing.T) (*Indexer, *storage.SQLiteStore) {
	t.Helper()
	store, err := storage.NewSQLiteStore(filepath.Join(t.TempDir(), "catalog.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	descriptions := map[string]string{"strings": "String manipulation functions"}
	idx := NewIndexer(crawler.NewCrawler(extractor.NewExtractor()), store, func(c string) string {
		if d, ok := descriptions[c]; ok {
			return d
		}
		return c
	})
	return idx, store
}

func names(entries []extractor.ManualEntry) []string {
	var out []string
	for _, e := range entries {
		out = append(out, e.Name)
	}
	return out
}

func TestIndexer_IndexAll(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "lib", "strings.nix"), "{ /* joins */ join = sep: xs: null; /* splits */ split = s: null; }")
	writeFile(t, filepath.Join(root, "lib", "lists.nix"), "{ /* first */ head = xs: null; }")
	writeFile(t, filepath.Join(root, "lib", "broken.nix"), "{ a = ; }")

	idx, store := newTestIndexer(t)
	ctx := context.Background()
	report := generator.NewRunReport("full", root)

	stats, err := idx.IndexAll(ctx, root, report)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Files)
	assert.Equal(t, 2, stats.Updated)
	assert.Equal(t, 1, stats.Failed)
	assert.Equal(t, 3, stats.Entries)

	entries, err := store.LoadCategory(ctx, "strings")
	require.NoError(t, err)
	assert.Equal(t, []string{"join", "split"}, names(entries))

	files, err := store.ListFiles(ctx)
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, "lib/lists.nix", files[0].Path)
	assert.Equal(t, "String manipulation functions", files[1].Description)

	report.Finalize()
	assert.Equal(t, 1, report.Summary.FailedFiles)
	assert.Equal(t, 1, report.Summary.SignalsBySeverity["warning"])
	require.Len(t, report.Stages, 2)
	assert.Equal(t, "scan", report.Stages[0].Name)
	assert.Equal(t, "prune", report.Stages[1].Name)
}

func TestIndexer_IndexAll_SkipsUnchangedAndPrunes(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.nix"), "{ /* a */ a = 1; }")
	writeFile(t, filepath.Join(root, "b.nix"), "{ /* b */ b = 1; }")

	idx, store := newTestIndexer(t)
	ctx := context.Background()

	_, err := idx.IndexAll(ctx, root, nil)
	require.NoError(t, err)

	require.NoError(t, os.Remove(filepath.Join(root, "b.nix")))
	stats, err := idx.IndexAll(ctx, root, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Skipped)
	assert.Equal(t, 0, stats.Updated)
	assert.Equal(t, 1, stats.Removed)

	categories, err := store.ListCategories(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, categories)
}

func TestIndexer_IndexChanged(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "lib", "a.nix"), "{ /* old */ old = 1; }")
	writeFile(t, filepath.Join(root, "lib", "b.nix"), "{ /* b */ b = 1; }")

	idx, store := newTestIndexer(t)
	ctx := context.Background()
	_, err := idx.IndexAll(ctx, root, nil)
	require.NoError(t, err)

	writeFile(t, filepath.Join(root, "lib", "a.nix"), "{ /* new */ new = x: x; }")
	require.NoError(t, os.Remove(filepath.Join(root, "lib", "b.nix")))

	stats, err := idx.IndexChanged(ctx, root, []git.ChangedFile{
		{Path: "lib/a.nix"},
		{Path: "lib/b.nix"},
		{Path: "README.md"},
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Updated)
	assert.Equal(t, 1, stats.Removed)

	entries, err := store.LoadCategory(ctx, "a")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "new", entries[0].Name)
	assert.Equal(t, []extractor.Argument{extractor.Flat{SingleArg: extractor.SingleArg{Name: "x"}}}, entries[0].Args)

	_, ok, err := store.FileHash(ctx, "lib/b.nix")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestIndexer_IndexChanged_ExtractionFailureKeepsRows(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.nix"), "{ /* a */ a = 1; }")

	idx, store := newTestIndexer(t)
	ctx := context.Background()
	_, err := idx.IndexAll(ctx, root, nil)
	require.NoError(t, err)

	writeFile(t, filepath.Join(root, "a.nix"), "{ a = ")
	stats, err := idx.IndexChanged(ctx, root, []git.ChangedFile{{Path: "a.nix"}}, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Failed)

	entries, err := store.LoadCategory(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, names(entries))
}
