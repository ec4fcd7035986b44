package exportdir

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrepareWritesIgnoreEverythingGitignore(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Prepare(dir, false, false, ""))

	content, err := os.ReadFile(filepath.Join(dir, ".gitignore"))
	require.NoError(t, err)
	assert.Equal(t, "*\n", string(content))
}

func TestPrepareTracksManifestAndLockFileWhenRequested(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Prepare(dir, false, true, "yarn.lock"))

	content, err := os.ReadFile(filepath.Join(dir, ".gitignore"))
	require.NoError(t, err)
	assert.Equal(t, "*\n!package.json\n!yarn.lock\n", string(content))
}

func TestPrepareCleanRemovesExistingContent(t *testing.T) {
	dir := t.TempDir()
	stale := filepath.Join(dir, "stale.txt")
	require.NoError(t, os.WriteFile(stale, []byte("x"), 0o644))

	require.NoError(t, Prepare(dir, true, false, ""))
	assert.NoFileExists(t, stale)
	assert.FileExists(t, filepath.Join(dir, ".gitignore"))
}
