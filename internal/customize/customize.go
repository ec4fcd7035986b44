// Package customize implements the Descriptor Customizer: rewriting a
// packed descriptor for dynamic use — overriding fields, resolving the
// workspace protocol, hoisting shared dependencies to peer dependencies,
// injecting overrides/resolutions, and stripping dev dependencies.
package customize

import (
	"strings"

	"github.com/redhat-developer/rhdh-cli/internal/descriptor"
	"github.com/redhat-developer/rhdh-cli/internal/embed"
	"github.com/redhat-developer/rhdh-cli/internal/shared"
	"github.com/redhat-developer/rhdh-cli/internal/workspace"
	"github.com/redhat-developer/rhdh-cli/internal/xerrors"
)

// compatUtf8Package / compatUtf8Replacement is the fixed compatibility pin
// every customized descriptor receives in both overrides and resolutions.
const (
	compatUtf8Package     = "@aws-sdk/util-utf8-browser"
	compatUtf8Replacement = "@smithy/util-utf8"
)

// Overriding is the partial descriptor applied in step 1: each non-nil
// field replaces the corresponding descriptor field outright.
type Overriding struct {
	Name               *string
	Version            *string
	Private            *bool
	BundleDependencies *bool
	Scripts            descriptor.StringMap
	Files              []string
}

// Options configures one Customize call.
type Options struct {
	Embedded              []embed.ResolvedEmbedded
	IsYarnV1              bool
	MonoRepo              *workspace.Index
	Shared                shared.Rules
	Overriding            Overriding
	AdditionalOverrides   descriptor.StringMap
	AdditionalResolutions descriptor.StringMap
	// After receives the mutated descriptor once every rewrite above has
	// been applied, typically used to hoist peer dependencies collected
	// across several embedded packages into the main descriptor.
	After func(*descriptor.Descriptor) error
}

// Slug derives the embedded-package directory name used under embedded/:
// the package name with its leading "@" stripped and any "/" replaced
// with "-".
func Slug(name string) string {
	return strings.ReplaceAll(strings.TrimPrefix(name, "@"), "/", "-")
}

// Customize mutates d in place per §4.3 of the export pipeline.
func Customize(d *descriptor.Descriptor, opts Options) error {
	applyOverriding(d, opts.Overriding)

	d.Files = stripDistDynamic(d.Files)

	embeddedByName := make(map[string]embed.ResolvedEmbedded, len(opts.Embedded))
	for _, e := range opts.Embedded {
		embeddedByName[e.PackageName] = e
	}

	if d.Dependencies == nil {
		d.Dependencies = descriptor.StringMap{}
	}

	for dep, spec := range d.Dependencies {
		if descriptor.IsWorkspaceSpecifier(spec) {
			newSpec, err := resolveWorkspaceSpec(spec, dep, embeddedByName, opts.MonoRepo)
			if err != nil {
				return err
			}
			spec = newSpec
			d.Dependencies[dep] = spec
		}

		if opts.Shared.IsShared(dep) {
			if d.PeerDependencies == nil {
				d.PeerDependencies = descriptor.StringMap{}
			}
			d.PeerDependencies[dep] = spec
			delete(d.Dependencies, dep)
			continue
		}

		if opts.IsYarnV1 {
			if _, ok := embeddedByName[dep]; ok {
				d.Dependencies[dep] = "file:./embedded/" + Slug(dep)
			}
		}
	}

	d.DevDependencies = descriptor.StringMap{}

	mergeOverrides(&d.Overrides, opts.AdditionalOverrides)
	mergeOverrides(&d.Resolutions, opts.AdditionalResolutions)
	if d.Overrides == nil {
		d.Overrides = descriptor.StringMap{}
	}
	if d.Resolutions == nil {
		d.Resolutions = descriptor.StringMap{}
	}
	d.Overrides[compatUtf8Package] = compatUtf8Replacement
	d.Resolutions[compatUtf8Package] = compatUtf8Replacement

	if opts.After != nil {
		if err := opts.After(d); err != nil {
			return err
		}
	}

	return nil
}

func applyOverriding(d *descriptor.Descriptor, o Overriding) {
	if o.Name != nil {
		d.Name = *o.Name
	}
	if o.Version != nil {
		d.Version = *o.Version
	}
	if o.Private != nil {
		d.Private = *o.Private
	}
	if o.BundleDependencies != nil {
		d.BundleDependencies = *o.BundleDependencies
	}
	if o.Scripts != nil {
		d.Scripts = o.Scripts
	}
	if o.Files != nil {
		d.Files = o.Files
	}
}

func stripDistDynamic(files []string) []string {
	if files == nil {
		return nil
	}
	out := files[:0:0]
	for _, f := range files {
		if !strings.HasPrefix(f, "dist-dynamic/") {
			out = append(out, f)
		}
	}
	return out
}

func resolveWorkspaceSpec(spec, dep string, embeddedByName map[string]embed.ResolvedEmbedded, mono *workspace.Index) (string, error) {
	ws := descriptor.ParseWorkspaceSpec(spec)

	var resolvedVersion string
	if e, ok := embeddedByName[dep]; ok {
		resolvedVersion = e.Version
	} else if mono != nil && mono.Has(dep) {
		entry, err := mono.LookupUnique(dep)
		if err != nil {
			return "", err
		}
		resolvedVersion = entry.Version
	} else {
		return "", xerrors.UnresolvedWorkspaceDep(dep, spec)
	}

	switch ws.Kind {
	case descriptor.SpecCaretOnly:
		return "^" + resolvedVersion, nil
	case descriptor.SpecTildeOnly:
		return "~" + resolvedVersion, nil
	default:
		return resolvedVersion, nil
	}
}

func mergeOverrides(target *descriptor.StringMap, additional descriptor.StringMap) {
	if len(additional) == 0 {
		return
	}
	if *target == nil {
		*target = descriptor.StringMap{}
	}
	for k, v := range additional {
		(*target)[k] = v
	}
}
