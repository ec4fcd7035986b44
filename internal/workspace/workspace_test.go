package workspace

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redhat-developer/rhdh-cli/internal/descriptor"
	"github.com/redhat-developer/rhdh-cli/internal/xerrors"
)

func writeJSON(t *testing.T, path, contents string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
}

func TestLoadIndexesWorkspaceGlobs(t *testing.T) {
	root := t.TempDir()
	writeJSON(t, filepath.Join(root, "package.json"), `{"name":"@x/root","version":"1.0.0","workspaces":["plugins/*"]}`)
	writeJSON(t, filepath.Join(root, "plugins", "foo", "package.json"), `{"name":"@x/foo","version":"1.0.0"}`)
	writeJSON(t, filepath.Join(root, "plugins", "foo", "node_modules", "bar", "package.json"), `{"name":"bar","version":"1.0.0"}`)

	rootDesc, err := descriptor.Read(filepath.Join(root, "package.json"))
	require.NoError(t, err)
	idx, err := Load(root, rootDesc)
	require.NoError(t, err)

	assert.True(t, idx.Has("@x/foo"))
	assert.False(t, idx.Has("bar"))
}

func TestLoadWithObjectFormWorkspaces(t *testing.T) {
	root := t.TempDir()
	writeJSON(t, filepath.Join(root, "package.json"), `{"name":"@x/root","version":"1.0.0","workspaces":{"packages":["plugins/*"]}}`)
	writeJSON(t, filepath.Join(root, "plugins", "foo", "package.json"), `{"name":"@x/foo","version":"1.0.0"}`)

	rootDesc, err := descriptor.Read(filepath.Join(root, "package.json"))
	require.NoError(t, err)
	idx, err := Load(root, rootDesc)
	require.NoError(t, err)
	assert.True(t, idx.Has("@x/foo"))
}

func TestLookupUniqueErrorsOnMissingAndDuplicate(t *testing.T) {
	root := t.TempDir()
	writeJSON(t, filepath.Join(root, "package.json"), `{"name":"@x/root","version":"1.0.0","workspaces":["plugins/*","more/*"]}`)
	writeJSON(t, filepath.Join(root, "plugins", "dup", "package.json"), `{"name":"@x/dup","version":"1.0.0"}`)
	writeJSON(t, filepath.Join(root, "more", "dup", "package.json"), `{"name":"@x/dup","version":"1.0.0"}`)

	rootDesc, err := descriptor.Read(filepath.Join(root, "package.json"))
	require.NoError(t, err)
	idx, err := Load(root, rootDesc)
	require.NoError(t, err)

	_, err = idx.LookupUnique("@x/missing")
	xe, ok := xerrors.As(err)
	require.True(t, ok)
	assert.Equal(t, xerrors.KindMissingWorkspacePackage, xe.Kind())

	_, err = idx.LookupUnique("@x/dup")
	xe, ok = xerrors.As(err)
	require.True(t, ok)
	assert.Equal(t, xerrors.KindDuplicateMonorepoPackage, xe.Kind())
}

func TestFindRootLocatesNearestWorkspaceAncestor(t *testing.T) {
	root := t.TempDir()
	writeJSON(t, filepath.Join(root, "package.json"), `{"name":"@x/root","version":"1.0.0","workspaces":["plugins/*"]}`)
	pluginDir := filepath.Join(root, "plugins", "foo")
	writeJSON(t, filepath.Join(pluginDir, "package.json"), `{"name":"@x/foo","version":"1.0.0"}`)

	foundRoot, desc, found, err := FindRoot(pluginDir)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, root, foundRoot)
	assert.Equal(t, "@x/root", desc.Name)
}

func TestFindRootReturnsNotFoundOutsideAnyMonorepo(t *testing.T) {
	standalone := t.TempDir()
	writeJSON(t, filepath.Join(standalone, "package.json"), `{"name":"@x/standalone","version":"1.0.0"}`)

	_, _, found, err := FindRoot(standalone)
	require.NoError(t, err)
	assert.False(t, found)
}
