// Package assets defines the Asset Producer Interface: the abstract
// contract for the two frontend bundling backends (Scalprum and
// module-federation asset generators), which the core treats as
// pluggable collaborators invoked with a descriptor — never reaching into
// their bundling internals itself. Grounded in the teacher's own
// pluggable-backend abstraction for programming-language package
// managers (internal/api/types.go's LanguageBackend: a table of named,
// swappable collaborators behind a small function-valued interface).
package assets

import (
	"github.com/redhat-developer/rhdh-cli/internal/descriptor"
	"github.com/redhat-developer/rhdh-cli/internal/task"
)

// GenerateOptions is what an asset Producer is invoked with.
type GenerateOptions struct {
	// PluginDir is the plugin's source directory (the task's working directory).
	PluginDir string
	// Descriptor is the plugin's (pre-customization) package descriptor.
	Descriptor *descriptor.Descriptor
	// OutputDir is where the producer must write its generated assets:
	// either an absolute path or a path relative to PluginDir.
	OutputDir string
	// Config carries producer-specific configuration (e.g. the resolved
	// Scalprum config).
	Config map[string]interface{}
}

// Producer is one pluggable frontend asset generator.
type Producer interface {
	Name() string
	Generate(opts GenerateOptions) error
}

// Runner is the subset of task.Run used by producers, accepted as a field
// so tests can substitute a fake without shelling out.
type Runner func(task.Task) (*task.Result, error)

func defaultRunner(t task.Task) (*task.Result, error) { return task.Run(t) }
