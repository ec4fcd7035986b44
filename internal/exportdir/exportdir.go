// Package exportdir prepares the dist-dynamic/ target directory shared by the Backend and Frontend Exporters: cleaning it on
// request, creating it, and writing the .gitignore convention described
// in §4.4 step 4 of the export pipeline.
package exportdir

import (
	"os"
	"path/filepath"
	"strings"
)

// Prepare removes targetDir first when clean is true, then (re)creates it
// and writes its .gitignore. When trackManifestAndLockFile is set, the
// ignore-everything rule is punched through for package.json and the lock
// file name given, so operators can commit a snapshot of the derived
// descriptor and its resolved dependency set.
func Prepare(targetDir string, clean bool, trackManifestAndLockFile bool, lockFileName string) error {
	if clean {
		if err := os.RemoveAll(targetDir); err != nil {
			return err
		}
	}
	if err := os.MkdirAll(targetDir, 0o775); err != nil {
		return err
	}
	return writeGitignore(targetDir, trackManifestAndLockFile, lockFileName)
}

func writeGitignore(targetDir string, trackManifestAndLockFile bool, lockFileName string) error {
	lines := []string{"*"}
	if trackManifestAndLockFile {
		lines = append(lines, "!package.json")
		if lockFileName != "" {
			lines = append(lines, "!"+lockFileName)
		}
	}
	content := strings.Join(lines, "\n") + "\n"
	return os.WriteFile(filepath.Join(targetDir, ".gitignore"), []byte(content), 0o644)
}
