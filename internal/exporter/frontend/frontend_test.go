package frontend

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redhat-developer/rhdh-cli/internal/assets"
)

type fakeProducer struct {
	name      string
	calls     []assets.GenerateOptions
	returnErr error
}

func (f *fakeProducer) Name() string { return f.name }

func (f *fakeProducer) Generate(opts assets.GenerateOptions) error {
	f.calls = append(f.calls, opts)
	return f.returnErr
}

func writePluginFixture(t *testing.T, pluginDir string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(pluginDir, "package.json"), []byte(`{
		"name": "@x/foo",
		"version": "1.0.0",
		"role": "frontend-plugin",
		"main": "dist/index.esm.js"
	}`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(pluginDir, "yarn.lock"), []byte("# yarn lockfile v1\n"), 0o644))
}

func TestExportRequiresAtLeastOneAssetProducer(t *testing.T) {
	pluginDir := t.TempDir()
	writePluginFixture(t, pluginDir)

	_, err := Export(Options{PluginDir: pluginDir})
	require.Error(t, err)
}

func TestExportInvokesModuleFederationProducer(t *testing.T) {
	pluginDir := t.TempDir()
	writePluginFixture(t, pluginDir)

	mf := &fakeProducer{name: "module-federation"}
	result, err := Export(Options{
		PluginDir:                pluginDir,
		GenerateModuleFederation: true,
		ModuleFederationProducer: mf,
	})
	require.NoError(t, err)
	require.Len(t, mf.calls, 1)
	assert.Equal(t, "@x/foo-dynamic", result.Descriptor.Name)
}

func TestExportInvokesScalprumProducerWithResolvedConfig(t *testing.T) {
	pluginDir := t.TempDir()
	writePluginFixture(t, pluginDir)

	scalprum := &fakeProducer{name: "scalprum"}
	result, err := Export(Options{
		PluginDir:        pluginDir,
		GenerateScalprum: true,
		ScalprumProducer: scalprum,
	})
	require.NoError(t, err)
	require.Len(t, scalprum.calls, 1)
	assert.Equal(t, "x.foo", scalprum.calls[0].Config["name"])
	assert.Equal(t, "1.0.0", scalprum.calls[0].Config["version"])
	assert.Equal(t, "@x/foo-dynamic", result.Descriptor.Name)
}
