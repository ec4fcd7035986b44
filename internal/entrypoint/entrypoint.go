// Package entrypoint validates that an exported plugin's main module loads
// and exports a recognizable plugin shape. This is the only operation in
// the export pipeline that executes arbitrary plugin code, so it sits
// behind an abstract Loader interface
// (a direct in-process load is one valid implementation; NodeLoader below
// shells out instead, following the teacher's pattern of invoking the
// Node toolchain as a subprocess and inspecting its captured output —
// _examples/vercel-turborepo/cli/internal/packagemanager/berry.go's `detect` does the same thing to
// probe a yarn version).
package entrypoint

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/redhat-developer/rhdh-cli/internal/task"
	"github.com/redhat-developer/rhdh-cli/internal/xerrors"
)

// knownPluginDiscriminators are the tagged-value discriminators a default
// export's "$$type" (or equivalent) field may carry to be recognized as a
// plugin instance by the host framework.
var knownPluginDiscriminators = map[string]bool{
	"backend-plugin":        true,
	"backend-plugin-module": true,
	"frontend-plugin":       true,
}

// LoadedModule is the observable shape of one loaded CommonJS/ESM module.
type LoadedModule struct {
	HasDefaultExport          bool   `json:"hasDefaultExport"`
	DefaultDiscriminator      string `json:"defaultDiscriminator"`
	HasDynamicPluginInstaller bool   `json:"hasDynamicPluginInstaller"`
}

// IsValid reports whether m satisfies the "is plugin" shape: either a
// default export tagged with a known discriminator, or a named
// dynamicPluginInstaller export.
func IsValid(m *LoadedModule) bool {
	if m == nil {
		return false
	}
	if m.HasDefaultExport && knownPluginDiscriminators[m.DefaultDiscriminator] {
		return true
	}
	return m.HasDynamicPluginInstaller
}

// Loader abstracts "execute this directory's main module and report its
// exports" so entrypoint validation can be tested without invoking Node.
type Loader interface {
	Load(dir string) (*LoadedModule, error)
	RegisterTSTransformer() error
}

// Validate checks dir's main module (and, if present, its "alpha"
// submodule) against IsValid, registering a TypeScript transformer first
// so unbuilt ".ts" entrypoints can still load.
func Validate(loader Loader, dir string) error {
	if err := loader.RegisterTSTransformer(); err != nil {
		// A missing TS transformer is a warning, not a failure by itself:
		// failure only occurs if the module truly fails to load below.
		_ = err
	}

	if mod, err := loader.Load(dir); err == nil && IsValid(mod) {
		return nil
	}

	alphaDir := filepath.Join(dir, "alpha")
	if info, err := os.Stat(alphaDir); err == nil && info.IsDir() {
		if mod, err := loader.Load(alphaDir); err == nil && IsValid(mod) {
			return nil
		}
	}

	return xerrors.InvalidPluginEntrypoint(dir)
}

// NodeLoader loads a module by running a Node.js probe script in a
// subprocess and parsing its JSON report from stdout.
type NodeLoader struct {
	tsTransformerRegistered bool
}

// RegisterTSTransformer sets a flag that makes every later Load preload
// ts-node/register/transpile-only, so unbuilt ".ts" entrypoints can load.
// No host-ecosystem transformer is tried, and Load fails when ts-node
// cannot be resolved from the module's directory.
func (l *NodeLoader) RegisterTSTransformer() error {
	l.tsTransformerRegistered = true
	return nil
}

const probeScript = `
const path = require('path');
const dir = process.argv[2];
const result = { hasDefaultExport: false, defaultDiscriminator: '', hasDynamicPluginInstaller: false };
try {
  const mod = require(path.resolve(dir));
  const def = mod && mod.default !== undefined ? mod.default : mod;
  if (def !== undefined) {
    result.hasDefaultExport = true;
    if (def && typeof def === 'object' && typeof def.$$type === 'string') {
      result.defaultDiscriminator = def.$$type.replace(/^@backstage\//, '');
    }
  }
  if (mod && typeof mod.dynamicPluginInstaller !== 'undefined') {
    result.hasDynamicPluginInstaller = true;
  }
} catch (e) {
  // leave result at its zero value; the caller treats that as "not a plugin"
}
process.stdout.write(JSON.stringify(result));
`

// Load runs the probe script against dir and parses its report.
func (l *NodeLoader) Load(dir string) (*LoadedModule, error) {
	args := []string{"-e", probeScript, "--", dir}
	if l.tsTransformerRegistered {
		args = append([]string{"-r", "ts-node/register/transpile-only"}, args...)
	}

	result, err := task.Run(task.Task{
		Name:    "load-entrypoint",
		Command: "node",
		Args:    args,
		Dir:     dir,
	})
	if err != nil {
		return nil, err
	}

	var m LoadedModule
	if err := json.Unmarshal([]byte(result.Output), &m); err != nil {
		return nil, err
	}
	return &m, nil
}
