// Package packager implements the Production Packager: copying a
// package's publishable subset of files from its source tree to a target
// directory, the same way the teacher's Globby + CopyFile
// (vercel-turborepo's internal/fs/fs.go, adapted here with
// doublestar/v4 and a godirwalk fallback walk) assemble a file set from
// glob patterns before handing it to a packing step.
package packager

import (
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/karrick/godirwalk"
	"github.com/pkg/errors"
)

// conventionalRootFiles are copied alongside package.json regardless of
// the "files" allowlist, when present.
var conventionalRootFiles = []string{
	"package.json",
	"README.md", "README",
	"LICENSE", "LICENSE.md",
	"CHANGELOG.md", "CHANGELOG",
}

// skippedDirs are never copied, glob allowlist or not.
var skippedDirs = map[string]bool{
	"node_modules": true,
	".git":         true,
	"dist-dynamic": true,
}

// Pack copies the publishable subset of sourceDir into targetDir: the
// files named by globs (or, when globs is empty, every file in the tree
// except node_modules/.git/dist-dynamic), plus package.json and whichever
// conventional root files exist.
func Pack(sourceDir, targetDir string, globs []string) error {
	if err := os.MkdirAll(targetDir, 0o775); err != nil {
		return errors.Wrapf(err, "creating %s", targetDir)
	}

	var relFiles []string
	var err error
	if len(globs) > 0 {
		relFiles, err = Globby(sourceDir, globs)
	} else {
		relFiles, err = walkAll(sourceDir)
	}
	if err != nil {
		return err
	}

	seen := make(map[string]bool, len(relFiles)+len(conventionalRootFiles))
	ordered := make([]string, 0, len(relFiles)+len(conventionalRootFiles))
	addRel := func(rel string) {
		rel = filepath.ToSlash(rel)
		if seen[rel] || underSkippedDir(rel) {
			return
		}
		seen[rel] = true
		ordered = append(ordered, rel)
	}

	for _, rel := range relFiles {
		addRel(rel)
	}
	for _, name := range conventionalRootFiles {
		if fileExists(filepath.Join(sourceDir, name)) {
			addRel(name)
		}
	}

	for _, rel := range ordered {
		src := filepath.Join(sourceDir, rel)
		dst := filepath.Join(targetDir, rel)
		if err := CopyFile(src, dst); err != nil {
			return errors.Wrapf(err, "copying %s", rel)
		}
	}
	return nil
}

func underSkippedDir(relSlash string) bool {
	for _, part := range strings.Split(relSlash, "/") {
		if skippedDirs[part] {
			return true
		}
	}
	return false
}

// Globby accepts a list of doublestar glob patterns, rooted at baseDir,
// and returns the de-duplicated, sorted list of matched relative paths.
// A pattern prefixed with "!" removes matches from the result set rather
// than adding to it.
func Globby(baseDir string, patterns []string) ([]string, error) {
	result := make(map[string]bool)
	fsys := os.DirFS(baseDir)
	for _, pattern := range patterns {
		negate := strings.HasPrefix(pattern, "!")
		p := strings.TrimPrefix(pattern, "!")

		matches, err := doublestar.Glob(fsys, p)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid glob %q", pattern)
		}
		for _, m := range matches {
			info, err := fs.Stat(fsys, m)
			if err == nil && info.IsDir() {
				continue
			}
			if negate {
				delete(result, m)
			} else {
				result[m] = true
			}
		}
	}

	out := make([]string, 0, len(result))
	for m := range result {
		out = append(out, m)
	}
	sort.Strings(out)
	return out, nil
}

func walkAll(sourceDir string) ([]string, error) {
	var out []string
	err := godirwalk.Walk(sourceDir, &godirwalk.Options{
		Callback: func(path string, de *godirwalk.Dirent) error {
			if path == sourceDir {
				return nil
			}
			if de.IsDir() {
				if skippedDirs[filepath.Base(path)] {
					return filepath.SkipDir
				}
				return nil
			}
			rel, err := filepath.Rel(sourceDir, path)
			if err != nil {
				return err
			}
			out = append(out, rel)
			return nil
		},
		Unsorted: true,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "walking %s", sourceDir)
	}
	return out, nil
}

func fileExists(path string) bool {
	info, err := os.Lstat(path)
	return err == nil && !info.IsDir()
}

// CopyFile copies a file from src to dst, creating dst's parent
// directories as needed and preserving the source's permission bits.
func CopyFile(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(dst), 0o775); err != nil {
		return err
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dst)
		return err
	}
	return out.Close()
}
