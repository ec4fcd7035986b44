// Command rhdh-cli transforms a statically-linked Backstage plugin
// package into a dynamic plugin artifact loadable at runtime by the
// Red Hat Developer Hub backend.
package main

import (
	"fmt"
	"os"

	"github.com/redhat-developer/rhdh-cli/cmd"
)

func main() {
	if err := cmd.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
