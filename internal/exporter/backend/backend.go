// Package backend implements the Backend Exporter: the orchestration
// sequence that embeds, packs, customizes, installs, and validates a
// backend (or node-library) plugin's dynamic artifact. It is the one
// component that wires every leaf package together, the same way the
// teacher's run.Exec pulls its engine, cache, and scheduler packages into
// one sequential pipeline (_examples/vercel-turborepo/cli/internal/run/run.go).
package backend

import (
	"io/fs"
	"os"
	"path/filepath"

	"github.com/hashicorp/go-hclog"
	"github.com/pkg/errors"

	"github.com/redhat-developer/rhdh-cli/internal/customize"
	"github.com/redhat-developer/rhdh-cli/internal/descriptor"
	"github.com/redhat-developer/rhdh-cli/internal/embed"
	"github.com/redhat-developer/rhdh-cli/internal/entrypoint"
	"github.com/redhat-developer/rhdh-cli/internal/exportdir"
	"github.com/redhat-developer/rhdh-cli/internal/installstep"
	"github.com/redhat-developer/rhdh-cli/internal/nativescan"
	"github.com/redhat-developer/rhdh-cli/internal/packager"
	"github.com/redhat-developer/rhdh-cli/internal/shared"
	"github.com/redhat-developer/rhdh-cli/internal/task"
	"github.com/redhat-developer/rhdh-cli/internal/workspace"
	"github.com/redhat-developer/rhdh-cli/internal/xerrors"
)

// TargetDirName is the derived output directory, relative to the plugin's
// source directory.
const TargetDirName = "dist-dynamic"

// LockFileName is the lock file this pipeline understands.
const LockFileName = installstep.LockFileName

// Options configures one backend export.
type Options struct {
	PluginDir                       string
	EmbedPackages                   []string
	SharedPackages                  shared.Rules
	AllowNativePackages             map[string]bool
	SuppressNativePackages          []string
	IgnoreVersionCheck              map[string]bool
	Clean                           bool
	Install                         bool
	Build                           bool
	TrackDynamicManifestAndLockFile bool
	IsYarnV1                        bool
	// Loader overrides entrypoint validation's module loader; nil uses
	// entrypoint.NodeLoader.
	Loader entrypoint.Loader
	Logger hclog.Logger
}

// Result is what a successful export produced.
type Result struct {
	TargetDir  string
	Descriptor *descriptor.Descriptor
	Embedded   []embed.ResolvedEmbedded
	Warnings   []string
}

// Export runs the full sequence described in §4.4: resolve embeddings,
// pack and customize every embedded package and the main package, ensure
// a lock file, install, and validate the result.
func Export(opts Options) (*Result, error) {
	logger := opts.Logger
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	rootPath := filepath.Join(opts.PluginDir, "package.json")
	root, err := descriptor.Read(rootPath)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", rootPath)
	}
	if root.Bundled {
		return nil, xerrors.BundledPackageRejected(root.Name)
	}

	monoRootDir, monoRootDesc, hasMonoRoot, err := workspace.FindRoot(opts.PluginDir)
	if err != nil {
		return nil, err
	}
	var idx *workspace.Index
	if hasMonoRoot {
		idx, err = workspace.Load(monoRootDir, monoRootDesc)
	} else {
		idx, err = workspace.Load(opts.PluginDir, root)
	}
	if err != nil {
		return nil, err
	}

	embedResult, err := embed.Resolve(opts.PluginDir, root, opts.EmbedPackages, idx, embed.NodeResolverFactory())
	if err != nil {
		return nil, err
	}
	for _, w := range embedResult.Warnings {
		logger.Warn("--embed-package was never referenced as a dependency", "package", w)
	}

	targetDir := filepath.Join(opts.PluginDir, TargetDirName)
	if err := exportdir.Prepare(targetDir, opts.Clean, opts.TrackDynamicManifestAndLockFile, LockFileName); err != nil {
		return nil, err
	}

	for _, name := range opts.SuppressNativePackages {
		if err := materializeSuppressedStub(targetDir, name); err != nil {
			return nil, err
		}
	}

	peerAggregate := descriptor.StringMap{}
	var embeddedNames []string

	for _, e := range embedResult.Embedded {
		srcDesc, err := descriptor.Read(filepath.Join(e.Dir, "package.json"))
		if err != nil {
			return nil, err
		}

		if err := buildPackage(e.Dir, srcDesc, opts.Build, logger); err != nil {
			return nil, err
		}

		slug := customize.Slug(e.PackageName)
		embeddedTargetDir := filepath.Join(targetDir, "embedded", slug)
		if err := packager.Pack(e.Dir, embeddedTargetDir, srcDesc.Files); err != nil {
			return nil, err
		}
		if e.AlreadyPacked {
			if err := os.RemoveAll(filepath.Join(embeddedTargetDir, "node_modules")); err != nil {
				return nil, err
			}
		}

		embeddedDesc, err := descriptor.Read(filepath.Join(embeddedTargetDir, "package.json"))
		if err != nil {
			return nil, err
		}

		version := e.Version + "+embedded"
		private := true
		ignoreSet := opts.IgnoreVersionCheck

		if err := customize.Customize(embeddedDesc, customize.Options{
			Embedded: embedResult.Embedded,
			IsYarnV1: opts.IsYarnV1,
			MonoRepo: idx,
			Shared:   opts.SharedPackages,
			Overriding: customize.Overriding{
				Version: &version,
				Private: &private,
			},
			After: func(d *descriptor.Descriptor) error {
				for dep, spec := range d.PeerDependencies {
					if err := addToDependenciesForModule(peerDep{Name: dep, Spec: spec}, peerAggregate, ignoreSet); err != nil {
						return err
					}
				}
				return nil
			},
		}); err != nil {
			return nil, err
		}
		if err := descriptor.Write(embeddedDesc, filepath.Join(embeddedTargetDir, "package.json")); err != nil {
			return nil, err
		}
		embeddedNames = append(embeddedNames, e.PackageName)
	}

	if err := buildPackage(opts.PluginDir, root, opts.Build, logger); err != nil {
		return nil, err
	}

	if err := packager.Pack(opts.PluginDir, targetDir, root.Files); err != nil {
		return nil, err
	}
	if err := os.RemoveAll(filepath.Join(targetDir, TargetDirName)); err != nil {
		return nil, err
	}

	mainDesc, err := descriptor.Read(filepath.Join(targetDir, "package.json"))
	if err != nil {
		return nil, err
	}

	dynamicName := mainDesc.Name + "-dynamic"
	bundleDeps := true
	emptyScripts := descriptor.StringMap{}

	additionalResolutions := descriptor.StringMap{}
	for _, e := range embedResult.Embedded {
		additionalResolutions[e.PackageName] = "file:./embedded/" + customize.Slug(e.PackageName)
	}
	for _, name := range opts.SuppressNativePackages {
		additionalResolutions[name] = "file:./embedded/" + customize.Slug(name)
	}

	if err := customize.Customize(mainDesc, customize.Options{
		Embedded: embedResult.Embedded,
		IsYarnV1: opts.IsYarnV1,
		MonoRepo: idx,
		Shared:   opts.SharedPackages,
		Overriding: customize.Overriding{
			Name:               &dynamicName,
			BundleDependencies: &bundleDeps,
			Scripts:            emptyScripts,
		},
		AdditionalResolutions: additionalResolutions,
		After: func(d *descriptor.Descriptor) error {
			if d.PeerDependencies == nil {
				d.PeerDependencies = descriptor.StringMap{}
			}
			for dep, spec := range peerAggregate {
				if err := addToDependenciesForModule(peerDep{Name: dep, Spec: spec}, d.PeerDependencies, opts.IgnoreVersionCheck); err != nil {
					return err
				}
			}
			return nil
		},
	}); err != nil {
		return nil, err
	}
	if err := descriptor.Write(mainDesc, filepath.Join(targetDir, "package.json")); err != nil {
		return nil, err
	}

	lockExisted, err := installstep.EnsureLockFile(targetDir, opts.PluginDir, monoRootDir, hasMonoRoot)
	if err != nil {
		return nil, err
	}

	if opts.Install {
		if err := installstep.Install(targetDir, opts.IsYarnV1, lockExisted); err != nil {
			return nil, err
		}

		lf, err := installstep.ReadLockFile(targetDir)
		if err != nil {
			return nil, err
		}
		if err := checkSharedLeakage(lf, mainDesc, embeddedNames, opts.SharedPackages); err != nil {
			return nil, err
		}

		findings, err := nativescan.Scan(filepath.Join(targetDir, "node_modules"), opts.AllowNativePackages)
		if err != nil {
			return nil, err
		}
		if len(findings) > 0 {
			names := make([]string, len(findings))
			for i, f := range findings {
				names[i] = f.Name
			}
			return nil, xerrors.NativePackageForbidden(names)
		}

		loader := opts.Loader
		if loader == nil {
			loader = &entrypoint.NodeLoader{}
		}
		if err := entrypoint.Validate(loader, targetDir); err != nil {
			return nil, err
		}
	}

	return &Result{
		TargetDir:  targetDir,
		Descriptor: mainDesc,
		Embedded:   embedResult.Embedded,
		Warnings:   embedResult.Warnings,
	}, nil
}

func buildPackage(dir string, d *descriptor.Descriptor, enabled bool, logger hclog.Logger) error {
	if !enabled {
		return nil
	}
	if _, ok := d.Scripts["build"]; !ok {
		return nil
	}
	logger.Debug("running build script", "package", d.Name, "dir", dir)
	_, err := task.Run(task.Task{Name: "build:" + d.Name, Command: "yarn", Args: []string{"build"}, Dir: dir})
	return err
}

// DevInstall copies a completed export's target directory into
// dynamicPluginsRoot, under a directory named after the derived package,
// for local --dev iteration against a running host. A no-op when
// dynamicPluginsRoot is empty.
func DevInstall(targetDir, dynamicPluginsRoot, packageName string) error {
	if dynamicPluginsRoot == "" {
		return nil
	}
	dest := filepath.Join(dynamicPluginsRoot, customize.Slug(packageName))
	if err := os.RemoveAll(dest); err != nil {
		return err
	}
	return filepath.WalkDir(targetDir, func(path string, de fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, relErr := filepath.Rel(targetDir, path)
		if relErr != nil {
			return relErr
		}
		if rel == "." {
			return nil
		}
		if de.IsDir() {
			return nil
		}
		return packager.CopyFile(path, filepath.Join(dest, rel))
	})
}
