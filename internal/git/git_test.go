package git

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDiff = `diff --git a/lib/strings.nix b/lib/strings.nix
index 1111111..2222222 100644
--- a/lib/strings.nix
+++ b/lib/strings.nix
@@ -10,0 +11,2 @@ rec {
+  /* new */
+  f = x: x;
@@ -20 +22 @@ rec {
-  old = 1;
+  new = 1;
diff --git a/lib/old.nix b/lib/old.nix
deleted file mode 100644
index 3333333..0000000
--- a/lib/old.nix
+++ /dev/null
@@ -1,3 +0,0 @@
-{
-}
-
diff --git a/lib/a.nix b/lib/b.nix
similarity index 100%
rename from lib/a.nix
rename to lib/b.nix
diff --git a/README.md b/README.md
index 4444444..5555555 100644
--- a/README.md
+++ b/README.md
@@ -1 +1 @@
-old
+new
`

func TestParseDiff(t *testing.T) {
	changes, err := parseDiff([]byte(sampleDiff))
	require.NoError(t, err)
	require.Len(t, changes, 5)

	assert.Equal(t, ChangedFile{Path: "lib/strings.nix", ChangedLines: []int{11, 12, 22}}, changes[0])

	assert.Equal(t, "lib/old.nix", changes[1].Path)
	assert.True(t, changes[1].Deleted)
	assert.Empty(t, changes[1].ChangedLines)

	assert.Equal(t, ChangedFile{Path: "lib/a.nix", Deleted: true}, changes[2])
	assert.Equal(t, "lib/b.nix", changes[3].Path)
	assert.False(t, changes[3].Deleted)

	assert.Equal(t, "README.md", changes[4].Path)
}

func TestParseDiff_Empty(t *testing.T) {
	changes, err := parseDiff(nil)
	require.NoError(t, err)
	assert.Empty(t, changes)
}

func TestNixFiles(t *testing.T) {
	changes := []ChangedFile{
		{Path: "lib/strings.nix"},
		{Path: "README.md"},
		{Path: "lib/old.nix", Deleted: true},
	}
	filtered := NixFiles(changes)
	require.Len(t, filtered, 2)
	assert.Equal(t, "lib/strings.nix", filtered[0].Path)
	assert.Equal(t, "lib/old.nix", filtered[1].Path)
}
