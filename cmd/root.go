// Package cmd wires the export and package operations up as a thin
// cobra CLI. It owns no pipeline logic of its own — per the purpose and
// scope non-goals, the CLI is a boundary, not a component — and exists
// only so the internal/exporter and internal/containerpkg packages are
// invokable.
package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// NewRootCommand builds the "rhdh-cli" command tree.
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "rhdh-cli",
		Short:        "Transform a Backstage plugin package into a dynamic plugin artifact",
		SilenceUsage: true,
	}

	viper.SetEnvPrefix("RHDH_CLI")
	viper.AutomaticEnv()

	root.AddCommand(newExportCommand())
	root.AddCommand(newPackageCommand())
	return root
}
