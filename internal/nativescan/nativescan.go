// Package nativescan walks an installed dependency tree looking for
// native (compiled) packages, which a dynamic plugin cannot load unless
// explicitly suppressed. Grounded in the teacher's use of godirwalk for
// fast directory walks of node_modules-shaped trees (vercel-turbo/cli's
// go.mod pulls in github.com/karrick/godirwalk for exactly this purpose).
package nativescan

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/karrick/godirwalk"

	"github.com/redhat-developer/rhdh-cli/internal/descriptor"
)

// Finding is one native package detected in the tree.
type Finding struct {
	Name   string
	Dir    string
	Reason string
}

var compilerMarkers = []string{
	"node-gyp",
	"prebuild-install",
	"cmake",
	"gcc",
	"g++",
	"make ",
	"cc1",
}

// Scan walks nodeModulesDir and returns every native package found whose
// name is not present in allow, deduplicated by name.
func Scan(nodeModulesDir string, allow map[string]bool) ([]Finding, error) {
	if _, err := os.Stat(nodeModulesDir); os.IsNotExist(err) {
		return nil, nil
	}

	seen := map[string]bool{}
	var forbidden []Finding

	err := godirwalk.Walk(nodeModulesDir, &godirwalk.Options{
		Unsorted: true,
		Callback: func(path string, de *godirwalk.Dirent) error {
			if de.IsDir() || filepath.Base(path) != "package.json" {
				return nil
			}
			dir := filepath.Dir(path)
			d, err := descriptor.Read(path)
			if err != nil || d.Name == "" || seen[d.Name] {
				return nil
			}

			isNative, reason := classify(dir, d)
			if !isNative {
				return nil
			}
			seen[d.Name] = true
			if !allow[d.Name] {
				forbidden = append(forbidden, Finding{Name: d.Name, Dir: dir, Reason: reason})
			}
			return nil
		},
	})
	if err != nil {
		return nil, err
	}
	return forbidden, nil
}

func classify(dir string, d *descriptor.Descriptor) (bool, string) {
	if fileExists(filepath.Join(dir, "binding.gyp")) {
		return true, "binding.gyp"
	}
	if gypfile, ok := d.RawJSON["gypfile"].(bool); ok && gypfile {
		return true, "gypfile"
	}
	for _, script := range []string{"install", "preinstall"} {
		cmd, ok := d.Scripts[script]
		if ok && invokesCompiler(cmd) {
			return true, "scripts." + script
		}
	}
	return false, ""
}

func invokesCompiler(cmd string) bool {
	lower := strings.ToLower(cmd)
	for _, marker := range compilerMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

func fileExists(path string) bool {
	info, err := os.Lstat(path)
	return err == nil && !info.IsDir()
}
