package workspace

import (
	"os"
	"path/filepath"

	"github.com/redhat-developer/rhdh-cli/internal/descriptor"
)

// FindRoot walks up from startDir looking for the nearest package.json
// that declares a "workspaces" field, treating it as the monorepo root.
// found is false, not an error, when no such ancestor exists (a
// standalone package outside any monorepo).
func FindRoot(startDir string) (rootDir string, rootDescriptor *descriptor.Descriptor, found bool, err error) {
	dir := startDir
	for {
		candidate := filepath.Join(dir, "package.json")
		if info, statErr := os.Stat(candidate); statErr == nil && !info.IsDir() {
			d, readErr := descriptor.Read(candidate)
			if readErr != nil {
				return "", nil, false, readErr
			}
			if len(workspaceGlobs(d)) > 0 {
				return dir, d, true, nil
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil, false, nil
		}
		dir = parent
	}
}
