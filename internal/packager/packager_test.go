package packager

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path string, contents string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
}

func TestGlobbySelectsMatchingFilesAndHonoursNegation(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "dist", "index.js"), "module.exports = {}")
	writeFile(t, filepath.Join(root, "dist", "index.js.map"), "{}")
	writeFile(t, filepath.Join(root, "README.md"), "# hi")

	matches, err := Globby(root, []string{"dist/**", "!dist/**/*.map"})
	require.NoError(t, err)
	assert.Equal(t, []string{"dist/index.js"}, matches)
}

func TestPackCopiesGlobSelectionPlusConventionalRootFiles(t *testing.T) {
	src := t.TempDir()
	writeFile(t, filepath.Join(src, "dist", "index.js"), "module.exports = {}")
	writeFile(t, filepath.Join(src, "package.json"), `{"name":"@x/foo","version":"1.0.0"}`)
	writeFile(t, filepath.Join(src, "README.md"), "# hi")
	writeFile(t, filepath.Join(src, "src", "index.ts"), "export {}")

	dst := filepath.Join(t.TempDir(), "out")
	require.NoError(t, Pack(src, dst, []string{"dist/**"}))

	assert.FileExists(t, filepath.Join(dst, "dist", "index.js"))
	assert.FileExists(t, filepath.Join(dst, "package.json"))
	assert.FileExists(t, filepath.Join(dst, "README.md"))
	assert.NoFileExists(t, filepath.Join(dst, "src", "index.ts"))
}

func TestPackWithoutGlobsCopiesEverythingExceptSkippedDirs(t *testing.T) {
	src := t.TempDir()
	writeFile(t, filepath.Join(src, "package.json"), `{"name":"@x/foo","version":"1.0.0"}`)
	writeFile(t, filepath.Join(src, "dist", "index.js"), "module.exports = {}")
	writeFile(t, filepath.Join(src, "node_modules", "lodash", "index.js"), "module.exports = {}")
	writeFile(t, filepath.Join(src, "dist-dynamic", "package.json"), `{}`)

	dst := filepath.Join(t.TempDir(), "out")
	require.NoError(t, Pack(src, dst, nil))

	assert.FileExists(t, filepath.Join(dst, "dist", "index.js"))
	assert.NoFileExists(t, filepath.Join(dst, "node_modules", "lodash", "index.js"))
	assert.NoFileExists(t, filepath.Join(dst, "dist-dynamic", "package.json"))
}

func TestCopyFilePreservesPermissions(t *testing.T) {
	src := filepath.Join(t.TempDir(), "script.sh")
	require.NoError(t, os.WriteFile(src, []byte("#!/bin/sh\necho hi\n"), 0o755))

	dst := filepath.Join(t.TempDir(), "out", "script.sh")
	require.NoError(t, CopyFile(src, dst))

	info, err := os.Stat(dst)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o755), info.Mode().Perm())
}
