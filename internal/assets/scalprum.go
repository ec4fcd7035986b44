package assets

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/redhat-developer/rhdh-cli/internal/descriptor"
	"github.com/redhat-developer/rhdh-cli/internal/task"
)

// ScalprumProducer generates the dist-scalprum/ asset bundle by invoking
// the Scalprum build tool as an external process.
type ScalprumProducer struct {
	Run Runner
}

// NewScalprumProducer builds a ScalprumProducer that shells out for real.
func NewScalprumProducer() *ScalprumProducer {
	return &ScalprumProducer{Run: defaultRunner}
}

func (p *ScalprumProducer) Name() string { return "scalprum" }

// Generate invokes the Scalprum build tool with opts.Config (already
// merged with the plugin's version by the caller) and writes its output
// to opts.OutputDir.
func (p *ScalprumProducer) Generate(opts GenerateOptions) error {
	run := p.Run
	if run == nil {
		run = defaultRunner
	}

	cfg, err := json.Marshal(opts.Config)
	if err != nil {
		return err
	}

	_, err = run(task.Task{
		Name:    "generate-scalprum-assets",
		Command: "npx",
		Args:    []string{"@scalprum/build-scalprum", "--config", string(cfg), "--out-dir", opts.OutputDir},
		Dir:     opts.PluginDir,
	})
	return err
}

// ResolveScalprumConfig resolves the Scalprum configuration following the
// precedence in §4.5 step 6: an explicit --scalprum-config file, then an
// inline "scalprum" field on the descriptor, then a generated default.
func ResolveScalprumConfig(configFile string, d *descriptor.Descriptor) (map[string]interface{}, error) {
	if configFile != "" {
		data, err := os.ReadFile(configFile)
		if err != nil {
			return nil, err
		}
		var cfg map[string]interface{}
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, err
		}
		return cfg, nil
	}

	if inline, ok := d.RawJSON["scalprum"].(map[string]interface{}); ok {
		return inline, nil
	}

	return map[string]interface{}{
		"name": SanitizeScalprumName(d.Name),
		"exposedModules": map[string]interface{}{
			"PluginRoot": "./src/index.ts",
		},
	}, nil
}

// SanitizeScalprumName converts a scoped package name like "@x/bar" into
// the dotted identifier Scalprum expects: "x.bar".
func SanitizeScalprumName(name string) string {
	trimmed := strings.TrimPrefix(name, "@")
	return strings.ReplaceAll(trimmed, "/", ".")
}

// ScalprumFilesEntry is the files-allowlist entry appended when Scalprum
// assets are requested and "files" is an allowlist (non-empty).
const ScalprumFilesEntry = "dist-scalprum"

// ScalprumOutputDir is the conventional asset directory name under the
// target export directory.
var ScalprumOutputDir = filepath.Join("dist-scalprum")
