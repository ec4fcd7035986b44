// Package installstep implements the "ensure a lock file, then install"
// sequence shared by the Backend Exporter (§4.4 steps 10-11) and the
// Frontend Exporter (§4.5 step 7), so the two pipelines can't drift on
// install-flag semantics.
package installstep

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/redhat-developer/rhdh-cli/internal/lockfile"
	"github.com/redhat-developer/rhdh-cli/internal/task"
)

// LockFileName is the lock file this pipeline understands.
const LockFileName = "yarn.lock"

// EnsureLockFile copies the nearest yarn.lock into targetDir if one isn't
// already there, checking the target itself, the plugin's own directory,
// and, if present, the monorepo root. existed reports whether a lock file
// was found to use at all, which in turn decides the install flags used
// by Install: a found lock file pins the install to it, and only a wholly
// lock-less export falls back to letting yarn resolve one fresh.
func EnsureLockFile(targetDir, pluginDir, monoRootDir string, hasMonoRoot bool) (existed bool, err error) {
	lockTargetPath := filepath.Join(targetDir, LockFileName)
	if fileExists(lockTargetPath) {
		return true, nil
	}

	candidates := []string{filepath.Join(pluginDir, LockFileName)}
	if hasMonoRoot {
		candidates = append(candidates, filepath.Join(monoRootDir, LockFileName))
	}
	for _, c := range candidates {
		if fileExists(c) {
			lf, err := lockfile.ReadFile(c)
			if err != nil {
				return false, err
			}
			return true, lf.WriteFile(lockTargetPath)
		}
	}
	return false, errors.Errorf("no lock file found for %s; looked in %v", pluginDir, candidates)
}

// Install runs the package-manager install in targetDir, redirecting
// output to yarn-install.log and removing both the log and .yarn/ on
// success so a clean export leaves no installer debris behind.
func Install(targetDir string, isYarnV1 bool, lockFileExisted bool) error {
	var args []string
	switch {
	case isYarnV1:
		args = []string{"install", "--production", "--frozen-lockfile"}
	case lockFileExisted:
		args = []string{"install", "--immutable"}
	default:
		args = []string{"install", "--no-immutable"}
	}

	logPath := filepath.Join(targetDir, "yarn-install.log")
	result, err := task.Run(task.Task{Name: "install", Command: "yarn", Args: args, Dir: targetDir})
	if result != nil {
		_ = os.WriteFile(logPath, []byte(result.Output), 0o644)
	}
	if err != nil {
		return err
	}
	_ = os.RemoveAll(filepath.Join(targetDir, ".yarn"))
	_ = os.Remove(logPath)
	return nil
}

// ReadLockFile reads back the lock file under targetDir for post-install
// inspection (the shared-leakage check).
func ReadLockFile(targetDir string) (*lockfile.Lockfile, error) {
	return lockfile.ReadFile(filepath.Join(targetDir, LockFileName))
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
