package embed

import (
	"os"
	"path/filepath"

	"github.com/redhat-developer/rhdh-cli/internal/descriptor"
)

// NodeResolverFactory builds a ResolverFactory that performs classic
// Node.js module resolution: walk up from baseDir looking for
// node_modules/<name>/package.json at each level. This is the registry
// lookup half of the Embedding Resolver's contract, used whenever a
// dependency has no monorepo match.
func NodeResolverFactory() ResolverFactory {
	return func(baseDir string) Resolver {
		return func(name string) (string, *descriptor.Descriptor, bool, error) {
			dir := baseDir
			for {
				candidate := filepath.Join(dir, "node_modules", filepath.FromSlash(name), "package.json")
				if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
					d, err := descriptor.Read(candidate)
					if err != nil {
						return "", nil, false, err
					}
					return filepath.Dir(candidate), d, true, nil
				}
				parent := filepath.Dir(dir)
				if parent == dir {
					return "", nil, false, nil
				}
				dir = parent
			}
		}
	}
}
