package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeExportFixture(t *testing.T, pluginDir string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(pluginDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(pluginDir, "package.json"), []byte(`{
		"name": "@x/foo-backend",
		"version": "1.0.0",
		"role": "backend-plugin",
		"main": "dist/index.js"
	}`), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(pluginDir, "dist"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(pluginDir, "dist", "index.js"), []byte("module.exports = {};"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(pluginDir, "yarn.lock"), []byte("# yarn lockfile v1\n"), 0o644))
}

func TestExportCommandRunsWithoutInstallOrBuild(t *testing.T) {
	pluginDir := t.TempDir()
	writeExportFixture(t, pluginDir)

	root := NewRootCommand()
	root.SetArgs([]string{"export", pluginDir, "--install=false", "--build=false"})
	require.NoError(t, root.Execute())

	assert.FileExists(t, filepath.Join(pluginDir, "dist-dynamic", "package.json"))
}

func TestToSet(t *testing.T) {
	s := toSet([]string{"a", "b", "a"})
	assert.Equal(t, map[string]bool{"a": true, "b": true}, s)
	assert.Equal(t, map[string]bool{}, toSet(nil))
}
