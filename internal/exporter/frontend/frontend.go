// Package frontend implements the Frontend Exporter: dispatching the
// requested asset producers, packing and customizing the frontend
// plugin's descriptor, and (unless skipped) installing its dependency
// tree. Mirrors backend's orchestration shape (internal/exporter/backend)
// at a smaller scale, per §4.5.
package frontend

import (
	"os"
	"path/filepath"

	"github.com/hashicorp/go-hclog"
	"github.com/pkg/errors"

	"github.com/redhat-developer/rhdh-cli/internal/assets"
	"github.com/redhat-developer/rhdh-cli/internal/customize"
	"github.com/redhat-developer/rhdh-cli/internal/descriptor"
	"github.com/redhat-developer/rhdh-cli/internal/exportdir"
	"github.com/redhat-developer/rhdh-cli/internal/installstep"
	"github.com/redhat-developer/rhdh-cli/internal/packager"
	"github.com/redhat-developer/rhdh-cli/internal/workspace"
	"github.com/redhat-developer/rhdh-cli/internal/xerrors"
)

// TargetDirName is the derived output directory, relative to the
// plugin's source directory.
const TargetDirName = "dist-dynamic"

// LockFileName is the lock file this pipeline understands.
const LockFileName = installstep.LockFileName

// Options configures one frontend export.
type Options struct {
	PluginDir                       string
	GenerateScalprum                bool
	GenerateModuleFederation        bool
	ScalprumConfigFile              string
	Clean                           bool
	Install                         bool
	IsYarnV1                        bool
	TrackDynamicManifestAndLockFile bool

	// ScalprumProducer / ModuleFederationProducer let callers substitute a
	// fake; nil defaults to the real process-shelling producers.
	ScalprumProducer         assets.Producer
	ModuleFederationProducer assets.Producer
	Logger                   hclog.Logger
}

// Result is what a successful export produced.
type Result struct {
	TargetDir  string
	Descriptor *descriptor.Descriptor
}

// Export runs the sequence described in §4.5.
func Export(opts Options) (*Result, error) {
	logger := opts.Logger
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	if !opts.GenerateScalprum && !opts.GenerateModuleFederation {
		return nil, xerrors.NoFrontendAssetsRequested()
	}

	rootPath := filepath.Join(opts.PluginDir, "package.json")
	root, err := descriptor.Read(rootPath)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", rootPath)
	}
	logger.Debug("exporting frontend plugin", "package", root.Name, "scalprum", opts.GenerateScalprum, "moduleFederation", opts.GenerateModuleFederation)

	if opts.GenerateModuleFederation {
		mfDir := filepath.Join(opts.PluginDir, assets.ModuleFederationOutputDir)
		if opts.Clean {
			if err := os.RemoveAll(mfDir); err != nil {
				return nil, err
			}
		}
		producer := opts.ModuleFederationProducer
		if producer == nil {
			producer = assets.NewModuleFederationProducer()
		}
		if err := producer.Generate(assets.GenerateOptions{
			PluginDir:  opts.PluginDir,
			Descriptor: root,
			OutputDir:  assets.ModuleFederationOutputDir,
		}); err != nil {
			return nil, err
		}
	}

	targetDir := filepath.Join(opts.PluginDir, TargetDirName)
	if err := exportdir.Prepare(targetDir, opts.Clean, opts.TrackDynamicManifestAndLockFile, LockFileName); err != nil {
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
	emptyScripts := descriptor.StringMap{}
	files := append([]string(nil), mainDesc.Files...)
	if opts.GenerateScalprum && len(files) > 0 {
		files = append(files, assets.ScalprumFilesEntry)
	}

	if err := customize.Customize(mainDesc, customize.Options{
		IsYarnV1: opts.IsYarnV1,
		Overriding: customize.Overriding{
			Name:    &dynamicName,
			Scripts: emptyScripts,
			Files:   files,
		},
	}); err != nil {
		return nil, err
	}

	if opts.GenerateScalprum {
		cfg, err := assets.ResolveScalprumConfig(opts.ScalprumConfigFile, root)
		if err != nil {
			return nil, err
		}
		cfg["version"] = root.Version

		producer := opts.ScalprumProducer
		if producer == nil {
			producer = assets.NewScalprumProducer()
		}
		if err := producer.Generate(assets.GenerateOptions{
			PluginDir:  opts.PluginDir,
			Descriptor: root,
			OutputDir:  filepath.Join(targetDir, assets.ScalprumOutputDir),
			Config:     cfg,
		}); err != nil {
			return nil, err
		}
	}

	if err := descriptor.Write(mainDesc, filepath.Join(targetDir, "package.json")); err != nil {
		return nil, err
	}

	monoRootDir, _, hasMonoRoot, err := workspace.FindRoot(opts.PluginDir)
	if err != nil {
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
	}

	return &Result{TargetDir: targetDir, Descriptor: mainDesc}, nil
}
