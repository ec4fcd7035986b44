// Package workspace enumerates the sibling packages of a monorepo, the
// same way the teacher's package manager abstraction walks workspace globs
// to build its package graph (_examples/vercel-turborepo/cli/internal/packagemanager, _examples/vercel-turborepo/cli/internal/fs/globby),
// but flattened to the one thing the export pipeline needs: name -> (dir, version).
package workspace

import (
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/pkg/errors"

	"github.com/redhat-developer/rhdh-cli/internal/descriptor"
	"github.com/redhat-developer/rhdh-cli/internal/xerrors"
)

// Entry is one monorepo sibling package.
type Entry struct {
	Name       string
	Dir        string // absolute directory containing this package's package.json
	Version    string
	Descriptor *descriptor.Descriptor
}

// Index is the set of monorepo sibling packages, keyed by name. No two
// entries may share a name; duplicates are a fatal error at build time.
type Index struct {
	byName map[string][]Entry
}

// Load builds the workspace index rooted at rootDir, using rootDescriptor's
// "workspaces" glob list (read from RawJSON since plain npm packages never
// carry this field on the struct).
func Load(rootDir string, rootDescriptor *descriptor.Descriptor) (*Index, error) {
	globs := workspaceGlobs(rootDescriptor)
	idx := &Index{byName: map[string][]Entry{}}
	if len(globs) == 0 {
		return idx, nil
	}

	patterns := make([]string, len(globs))
	for i, g := range globs {
		patterns[i] = filepath.ToSlash(filepath.Join(g, "package.json"))
	}

	seen := map[string]bool{}
	for _, pattern := range patterns {
		matches, err := doublestar.FilepathGlob(filepath.ToSlash(rootDir)+"/"+"{"+pattern+"}")
		if err != nil {
			// Fall back to matching the pattern without the surrounding
			// braces.
			matches, err = doublestar.FilepathGlob(filepath.ToSlash(filepath.Join(rootDir, pattern)))
			if err != nil {
				return nil, errors.Wrapf(err, "invalid workspace glob %q", pattern)
			}
		}
		for _, m := range matches {
			if seen[m] {
				continue
			}
			seen[m] = true
			if err := idx.addPackageJSON(m); err != nil {
				return nil, err
			}
		}
	}

	return idx, nil
}

func (idx *Index) addPackageJSON(path string) error {
	dir := filepath.Dir(path)
	if filepath.Base(dir) == "node_modules" {
		return nil
	}
	d, err := descriptor.Read(path)
	if err != nil {
		// A package.json that fails to parse under a workspace glob is
		// skipped rather than aborting the whole index build; the
		// embedding resolver will fail later if it actually needed it.
		return nil
	}
	if d.Name == "" {
		return nil
	}
	idx.byName[d.Name] = append(idx.byName[d.Name], Entry{
		Name:       d.Name,
		Dir:        dir,
		Version:    d.Version,
		Descriptor: d,
	})
	return nil
}

// Lookup returns the monorepo entries for name. Zero entries means the
// package isn't in the monorepo; more than one means a duplicate-name
// monorepo (a fatal condition the caller must check for explicitly, since
// not every lookup site treats duplicates as fatal the same way).
func (idx *Index) Lookup(name string) []Entry {
	return idx.byName[name]
}

// LookupUnique returns the single monorepo entry for name, or an error if
// there are zero or more than one.
func (idx *Index) LookupUnique(name string) (Entry, error) {
	entries := idx.Lookup(name)
	switch len(entries) {
	case 0:
		return Entry{}, xerrors.MissingWorkspacePackage(name)
	case 1:
		return entries[0], nil
	default:
		return Entry{}, xerrors.DuplicateMonorepoPackage(name)
	}
}

// Has reports whether name appears in the monorepo at all.
func (idx *Index) Has(name string) bool {
	return len(idx.byName[name]) > 0
}

func workspaceGlobs(d *descriptor.Descriptor) []string {
	raw, ok := d.RawJSON["workspaces"]
	if !ok {
		return nil
	}
	switch v := raw.(type) {
	case []interface{}:
		out := make([]string, 0, len(v))
		for _, g := range v {
			if s, ok := g.(string); ok {
				out = append(out, s)
			}
		}
		return out
	case map[string]interface{}:
		packages, ok := v["packages"].([]interface{})
		if !ok {
			return nil
		}
		out := make([]string, 0, len(packages))
		for _, g := range packages {
			if s, ok := g.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}
