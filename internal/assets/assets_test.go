package assets

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redhat-developer/rhdh-cli/internal/descriptor"
	"github.com/redhat-developer/rhdh-cli/internal/task"
)

func TestSanitizeScalprumName(t *testing.T) {
	assert.Equal(t, "x.bar", SanitizeScalprumName("@x/bar"))
	assert.Equal(t, "bar", SanitizeScalprumName("bar"))
}

func TestResolveScalprumConfigPrefersExplicitFile(t *testing.T) {
	path := t.TempDir() + "/scalprum.json"
	require.NoError(t, os.WriteFile(path, []byte(`{"name":"from.file"}`), 0o644))

	cfg, err := ResolveScalprumConfig(path, &descriptor.Descriptor{Name: "@x/bar"})
	require.NoError(t, err)
	assert.Equal(t, "from.file", cfg["name"])
}

func TestResolveScalprumConfigFallsBackToInlineField(t *testing.T) {
	d := &descriptor.Descriptor{
		Name:    "@x/bar",
		RawJSON: map[string]interface{}{"scalprum": map[string]interface{}{"name": "inline.bar"}},
	}
	cfg, err := ResolveScalprumConfig("", d)
	require.NoError(t, err)
	assert.Equal(t, "inline.bar", cfg["name"])
}

func TestResolveScalprumConfigGeneratesDefault(t *testing.T) {
	cfg, err := ResolveScalprumConfig("", &descriptor.Descriptor{Name: "@x/bar"})
	require.NoError(t, err)
	assert.Equal(t, "x.bar", cfg["name"])
}

func TestScalprumProducerInvokesNpxWithConfig(t *testing.T) {
	var captured task.Task
	p := &ScalprumProducer{Run: func(tk task.Task) (*task.Result, error) {
		captured = tk
		return &task.Result{}, nil
	}}
	require.NoError(t, p.Generate(GenerateOptions{
		PluginDir: "/plugin",
		OutputDir: "dist-scalprum",
		Config:    map[string]interface{}{"name": "x.bar"},
	}))
	assert.Equal(t, "npx", captured.Command)
	assert.Equal(t, "/plugin", captured.Dir)
	assert.Contains(t, captured.Args, "--out-dir")
}

func TestModuleFederationProducerInvokesYarnBuild(t *testing.T) {
	var captured task.Task
	p := &ModuleFederationProducer{Run: func(tk task.Task) (*task.Result, error) {
		captured = tk
		return &task.Result{}, nil
	}}
	require.NoError(t, p.Generate(GenerateOptions{PluginDir: "/plugin", OutputDir: "dist"}))
	assert.Equal(t, "yarn", captured.Command)
	assert.Equal(t, []string{"build:module-federation"}, captured.Args)
}
