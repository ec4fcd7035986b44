package assets

import (
	"github.com/redhat-developer/rhdh-cli/internal/task"
)

// ModuleFederationProducer generates the dist/ module-federation asset
// bundle by invoking the webpack module-federation build as an external
// process.
type ModuleFederationProducer struct {
	Run Runner
}

// NewModuleFederationProducer builds a ModuleFederationProducer that
// shells out for real.
func NewModuleFederationProducer() *ModuleFederationProducer {
	return &ModuleFederationProducer{Run: defaultRunner}
}

func (p *ModuleFederationProducer) Name() string { return "module-federation" }

// Generate invokes the module-federation build for the plugin at
// opts.PluginDir. The build writes wherever the plugin's
// build:module-federation script puts its output ("dist/" by convention);
// opts.OutputDir is not passed to it.
func (p *ModuleFederationProducer) Generate(opts GenerateOptions) error {
	run := p.Run
	if run == nil {
		run = defaultRunner
	}

	_, err := run(task.Task{
		Name:    "generate-module-federation-assets",
		Command: "yarn",
		Args:    []string{"build:module-federation"},
		Dir:     opts.PluginDir,
	})
	return err
}

// ModuleFederationOutputDir is the conventional asset directory name.
const ModuleFederationOutputDir = "dist"
