package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/redhat-developer/rhdh-cli/internal/descriptor"
	backendexp "github.com/redhat-developer/rhdh-cli/internal/exporter/backend"
	frontendexp "github.com/redhat-developer/rhdh-cli/internal/exporter/frontend"
	"github.com/redhat-developer/rhdh-cli/internal/shared"
	"github.com/redhat-developer/rhdh-cli/internal/task"
	"github.com/redhat-developer/rhdh-cli/internal/ui"
)

// exportFlags holds the raw --flag values for "rhdh-cli export", collected
// up front and translated into exporter Options once the plugin's role is
// known, since the backend and frontend pipelines share most of the
// surface in §6 but diverge on a few role-specific ones.
type exportFlags struct {
	embedPackages          []string
	sharedPackages         []string
	allowNativePackages    []string
	suppressNativePackages []string
	ignoreVersionCheck     []string
	install                bool
	build                  bool
	clean                  bool
	dev                    bool
	dynamicPluginsRoot     string
	scalprumConfig         string
	trackManifestAndLock   bool
	generateScalprum       bool
	generateModuleFed      bool
	debug                  bool
}

func newExportCommand() *cobra.Command {
	flags := &exportFlags{}

	cmd := &cobra.Command{
		Use:   "export [plugin-directory]",
		Short: "Export a plugin package as a dynamic plugin artifact",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pluginDir := "."
			if len(args) == 1 {
				pluginDir = args[0]
			}
			absDir, err := filepath.Abs(pluginDir)
			if err != nil {
				return err
			}
			return runExport(absDir, flags)
		},
	}

	f := cmd.Flags()
	f.StringArrayVar(&flags.embedPackages, "embed-package", nil, "package name to embed (repeatable)")
	f.StringArrayVar(&flags.sharedPackages, "shared-package", nil, "shared-package include/exclude rule (repeatable); prefix with ! to exclude, wrap in /.../ for a regex")
	f.StringArrayVar(&flags.allowNativePackages, "allow-native-package", nil, "native package name allowed in the output (repeatable)")
	f.StringArrayVar(&flags.suppressNativePackages, "suppress-native-package", nil, "native package name to replace with a throwing stub (repeatable)")
	f.StringArrayVar(&flags.ignoreVersionCheck, "ignore-version-check", nil, "package name whose peer-dependency conflicts should be silently ignored (repeatable)")
	f.BoolVar(&flags.install, "install", true, "run the package manager install after packing")
	f.BoolVar(&flags.build, "build", true, "run each package's build script before packing")
	f.BoolVar(&flags.clean, "clean", false, "remove any existing dist-dynamic/ before exporting")
	f.BoolVar(&flags.dev, "dev", false, "copy the export into --dynamic-plugins-root for local iteration")
	f.StringVar(&flags.dynamicPluginsRoot, "dynamic-plugins-root", "", "destination directory for --dev")
	f.StringVar(&flags.scalprumConfig, "scalprum-config", "", "path to an explicit Scalprum config file (frontend only)")
	f.BoolVar(&flags.trackManifestAndLock, "track-dynamic-manifest-and-lock-file", false, "don't gitignore package.json and the lock file in dist-dynamic/")
	f.BoolVar(&flags.generateScalprum, "generate-scalprum-assets", false, "generate Scalprum frontend assets (frontend only)")
	f.BoolVar(&flags.generateModuleFed, "generate-module-federation-assets", false, "generate module-federation frontend assets (frontend only)")
	f.BoolVar(&flags.debug, "debug", false, "verbose logging")

	return cmd
}

func runExport(pluginDir string, flags *exportFlags) error {
	logger := ui.NewLogger("export", flags.debug)

	rootDesc, err := descriptor.Read(filepath.Join(pluginDir, "package.json"))
	if err != nil {
		return fmt.Errorf("reading package.json in %s: %w", pluginDir, err)
	}

	sharedRules, err := shared.ParseFlags(flags.sharedPackages)
	if err != nil {
		return fmt.Errorf("parsing --shared-package: %w", err)
	}

	isYarnV1, err := task.DetectYarnV1(pluginDir)
	if err != nil {
		logger.Warn("could not detect yarn version, assuming Yarn Berry", "error", err)
	}

	if rootDesc.Role == descriptor.RoleFrontendPlugin {
		result, err := frontendexp.Export(frontendexp.Options{
			PluginDir:                       pluginDir,
			GenerateScalprum:                flags.generateScalprum,
			GenerateModuleFederation:        flags.generateModuleFed,
			ScalprumConfigFile:              flags.scalprumConfig,
			Clean:                           flags.clean,
			Install:                         flags.install,
			IsYarnV1:                        isYarnV1,
			TrackDynamicManifestAndLockFile: flags.trackManifestAndLock,
			Logger:                          logger,
		})
		if err != nil {
			return err
		}
		logger.Info("exported frontend plugin", "name", result.Descriptor.Name, "dir", result.TargetDir)
		return nil
	}

	result, err := backendexp.Export(backendexp.Options{
		PluginDir:                       pluginDir,
		EmbedPackages:                   flags.embedPackages,
		SharedPackages:                  sharedRules,
		AllowNativePackages:             toSet(flags.allowNativePackages),
		SuppressNativePackages:          flags.suppressNativePackages,
		IgnoreVersionCheck:              toSet(flags.ignoreVersionCheck),
		Clean:                           flags.clean,
		Install:                         flags.install,
		Build:                           flags.build,
		TrackDynamicManifestAndLockFile: flags.trackManifestAndLock,
		IsYarnV1:                        isYarnV1,
		Logger:                          logger,
	})
	if err != nil {
		return err
	}
	logger.Info("exported backend plugin", "name", result.Descriptor.Name, "dir", result.TargetDir, "embedded", len(result.Embedded))

	if flags.dev {
		if err := backendexp.DevInstall(result.TargetDir, flags.dynamicPluginsRoot, result.Descriptor.Name); err != nil {
			return fmt.Errorf("--dev install into %s: %w", flags.dynamicPluginsRoot, err)
		}
	}

	return nil
}

func toSet(values []string) map[string]bool {
	out := make(map[string]bool, len(values))
	for _, v := range values {
		out[v] = true
	}
	return out
}
