package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/redhat-developer/rhdh-cli/internal/containerpkg"
	"github.com/redhat-developer/rhdh-cli/internal/ui"
)

// newPackageCommand wraps one or more exported dist-dynamic/ directories
// into a container image per §6's boundary format. It is the one
// operation that shells out to $CONTAINER_TOOL rather than to yarn/node.
func newPackageCommand() *cobra.Command {
	var (
		contextDir string
		tag        string
		debug      bool
	)

	cmd := &cobra.Command{
		Use:   "package [exported-directory...]",
		Short: "Package one or more exported dynamic plugins into a container image",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := ui.NewLogger("package", debug)

			plugins := make([]containerpkg.Plugin, 0, len(args))
			for _, dir := range args {
				abs, err := filepath.Abs(dir)
				if err != nil {
					return err
				}
				plugins = append(plugins, containerpkg.Plugin{
					DirName:   sanitizeDirName(filepath.Base(abs)),
					SourceDir: abs,
				})
			}

			if contextDir == "" {
				var err error
				contextDir, err = os.MkdirTemp("", "rhdh-dynamic-plugins-*")
				if err != nil {
					return err
				}
			}

			logger.Info("packaging dynamic plugins", "count", len(plugins), "tool", containerpkg.ContainerTool())
			result, err := containerpkg.Package(containerpkg.PackageOptions{
				Plugins:    plugins,
				ContextDir: contextDir,
				Tag:        tag,
			})
			if result != nil {
				fmt.Fprint(cmd.OutOrStdout(), result.Output)
			}
			return err
		},
	}

	f := cmd.Flags()
	f.StringVar(&contextDir, "context-dir", "", "build context directory; a temp directory is used when omitted")
	f.StringVar(&tag, "tag", "", "tag applied to the built image")
	f.BoolVar(&debug, "debug", false, "verbose logging")

	return cmd
}

// sanitizeDirName turns an exported directory's basename into the image
// filesystem entry key by trimming a trailing path separator. No other
// renaming (such as customize.Slug) is applied.
func sanitizeDirName(base string) string {
	return strings.TrimSuffix(base, string(filepath.Separator))
}
