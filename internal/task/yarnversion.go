package task

import "strings"

// DetectYarnV1 probes yarn's version in dir and reports whether it is
// Yarn Classic (1.x), since Yarn Berry (2+) takes a different set of
// install flags and emits a different lock file dialect. Grounded in the
// teacher's own package-manager version probe
// (_examples/vercel-turborepo/cli/internal/packagemanager/berry.go's detect runs the package
// manager and inspects its captured stdout the same way).
func DetectYarnV1(dir string) (bool, error) {
	result, err := Run(Task{Name: "yarn-version", Command: "yarn", Args: []string{"--version"}, Dir: dir})
	if err != nil {
		return false, err
	}
	version := strings.TrimSpace(result.Output)
	return strings.HasPrefix(version, "1."), nil
}
