package crawler

import (
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nixdoc/internal/extractor"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestCrawler_ScanProject(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "strings.nix"), "{ /* Identity. */ id = x: x; }")
	writeFile(t, filepath.Join(root, "lists", "lists.nix"), "{ /* First. */ head = xs: null; /* Rest. */ tail = xs: null; }")
	writeFile(t, filepath.Join(root, "broken.nix"), "{ a = ; }")
	writeFile(t, filepath.Join(root, "README.md"), "# not nix")
	writeFile(t, filepath.Join(root, ".git", "hooks.nix"), "{ /* hidden */ a = 1; }")
	writeFile(t, filepath.Join(root, "result", "out.nix"), "{ /* build output */ a = 1; }")

	c := NewCrawler(extractor.NewExtractor())

	var results []FileResult
	failed := map[string]error{}
	err := c.ScanProject(root, func(r FileResult) {
		results = append(results, r)
	}, func(path string, err error) {
		failed[path] = err
	})
	require.NoError(t, err)

	sort.Slice(results, func(i, j int) bool { return results[i].Path < results[j].Path })

	t.Run("Files", func(t *testing.T) {
		require.Len(t, results, 2)
		assert.Equal(t, "lists/lists.nix", results[0].Path)
		assert.Equal(t, "lists", results[0].Category)
		assert.Len(t, results[0].Entries, 2)
		assert.Equal(t, "strings.nix", results[1].Path)
		assert.Equal(t, "strings", results[1].Category)
		assert.Equal(t, "{ /* Identity. */ id = x: x; }", string(results[1].Source))
	})

	t.Run("Failures Do Not Abort", func(t *testing.T) {
		require.Len(t, failed, 1)
		assert.ErrorContains(t, failed["broken.nix"], "failed to parse broken.nix")
	})
}

func TestCrawler_ScanFileMissing(t *testing.T) {
	c := NewCrawler(extractor.NewExtractor())
	res, err := c.ScanFile("/lib", "/lib/gone.nix")
	require.Error(t, err)
	assert.Equal(t, "gone.nix", res.Path)
	assert.Equal(t, "gone", res.Category)
}

func TestCategoryOf(t *testing.T) {
	assert.Equal(t, "strings", CategoryOf("lib/strings.nix"))
	assert.Equal(t, "default", CategoryOf("default.nix"))
}
