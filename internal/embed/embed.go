// Package embed implements the Embedding Resolver: given a root descriptor
// and a seed list of package names to embed, it produces the transitive
// closure of embedded packages via role-based sibling heuristics plus
// monorepo + registry lookup.
//
// The teacher's own transitive-dependency walk
// (_examples/vercel-turborepo/cli/internal/lockfile/lockfile.go's transitiveClosureHelper) recurses
// with an accumulator passed by value. This package instead keeps an
// explicit work queue, so a deeply nested monorepo dep graph never grows
// the Go call stack.
package embed

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/Masterminds/semver"
	mapset "github.com/deckarep/golang-set"

	"github.com/redhat-developer/rhdh-cli/internal/descriptor"
	"github.com/redhat-developer/rhdh-cli/internal/workspace"
	"github.com/redhat-developer/rhdh-cli/internal/xerrors"
)

// ResolvedEmbedded is one package selected for embedding.
type ResolvedEmbedded struct {
	PackageName       string
	Version           string
	Dir               string
	ParentPackageName string
	// AlreadyPacked is true when the resolved package on disk is already a
	// built artifact (its "main" does not end in ".ts").
	AlreadyPacked bool
}

// Result is the output of Resolve: the embedded package list, in
// encounter order, plus any seed entries that never showed up in the
// transitive dependency graph (a warning, not a failure).
type Result struct {
	Embedded []ResolvedEmbedded
	Warnings []string
}

// Resolver looks up a package by name outside the monorepo (typically
// against an installed node_modules tree or a registry client). found is
// false, not an error, when the package simply isn't resolvable.
type Resolver func(name string) (dir string, desc *descriptor.Descriptor, found bool, err error)

// ResolverFactory builds a Resolver rooted at a given package directory,
// since each recursion level resolves non-workspace dependencies relative
// to a different package's own module resolution root.
type ResolverFactory func(baseDir string) Resolver

var roleSuffixPatterns = map[descriptor.Role]*regexp.Regexp{
	descriptor.RoleBackendPlugin:       regexp.MustCompile(`-backend$`),
	descriptor.RoleBackendPluginModule: regexp.MustCompile(`-backend-module-.+$`),
	descriptor.RoleNodeLibrary:         regexp.MustCompile(`-node$`),
}

// synthesizeSiblings computes the "-common" and "-node" sibling names for
// a role-tagged package, e.g. "foo-backend" (backend-plugin) synthesizes
// "foo-common" and "foo-node".
func synthesizeSiblings(name string, role descriptor.Role) []string {
	pattern, ok := roleSuffixPatterns[role]
	if !ok {
		return nil
	}
	loc := pattern.FindStringIndex(name)
	if loc == nil {
		return nil
	}
	base := name[:loc[0]]
	siblings := []string{base + "-common", base + "-node"}
	out := siblings[:0]
	for _, s := range siblings {
		if s != name {
			out = append(out, s)
		}
	}
	return out
}

// seedSet tracks the expanding --embed-package seed list. Membership is
// backed by mapset.Set, the same package-name-set algebra the teacher's
// transitive dependency walk uses for its own visited-set bookkeeping
// (_examples/vercel-turborepo/cli/internal/lockfile/lockfile.go's TransitiveClosure); order is kept
// alongside it since Set iteration order isn't guaranteed and warnings
// must be reported in encounter order.
type seedSet struct {
	seen  mapset.Set
	order []string
}

func newSeedSet(initial []string) *seedSet {
	s := &seedSet{seen: mapset.NewThreadUnsafeSet()}
	for _, name := range initial {
		s.add(name)
	}
	return s
}

func (s *seedSet) add(name string) {
	if s.seen.Contains(name) {
		return
	}
	s.seen.Add(name)
	s.order = append(s.order, name)
}

func (s *seedSet) has(name string) bool { return s.seen.Contains(name) }

type queueItem struct {
	desc *descriptor.Descriptor
	dir  string
}

// Resolve walks root's dependency graph, recursively embedding any
// dependency named in seed (role-derived siblings are folded into seed as
// they're discovered), and returns the transitive closure deduplicated by
// directory, in the order encountered.
func Resolve(rootDir string, root *descriptor.Descriptor, seed []string, idx *workspace.Index, newResolver ResolverFactory) (*Result, error) {
	seeds := newSeedSet(seed)
	// Only the caller's own seed entries are reported as unused; siblings
	// synthesized from a package's role are appended after them.
	explicitSeeds := len(seeds.order)
	resolvedByDir := mapset.NewThreadUnsafeSet()
	var order []ResolvedEmbedded
	touchedAsSeed := map[string]bool{}

	queue := []queueItem{{desc: root, dir: rootDir}}

	for len(queue) > 0 {
		item := queue[0]
		queue = queue[1:]
		desc := item.desc

		for _, sib := range synthesizeSiblings(desc.Name, desc.Role) {
			seeds.add(sib)
		}

		resolver := newResolver(item.dir)

		for dep, spec := range desc.Dependencies {
			if !seeds.has(dep) {
				continue
			}
			touchedAsSeed[dep] = true

			entries := idx.Lookup(dep)
			if len(entries) > 1 {
				return nil, xerrors.DuplicateMonorepoPackage(dep)
			}
			isWorkspaceSpec := descriptor.IsWorkspaceSpecifier(spec)
			if isWorkspaceSpec && len(entries) == 0 {
				return nil, xerrors.MissingWorkspacePackage(dep)
			}

			var resolvedDir string
			var resolvedDesc *descriptor.Descriptor
			var alreadyPacked bool

			if len(entries) == 1 {
				entry := entries[0]
				if !checkWorkspacePackageVersion(spec, entry) {
					return nil, xerrors.WorkspaceVersionMismatch(dep, spec, entry.Version)
				}
				resolvedDir = entry.Dir
				resolvedDesc = entry.Descriptor
				alreadyPacked = false
			} else {
				dir, rdesc, found, err := resolver(dep)
				if err != nil {
					return nil, err
				}
				if !found {
					continue
				}
				if !versionSatisfies(spec, rdesc.Version) {
					return nil, xerrors.WorkspaceVersionMismatch(dep, spec, rdesc.Version)
				}
				resolvedDir = dir
				resolvedDesc = rdesc
				alreadyPacked = !strings.HasSuffix(rdesc.Main, ".ts")
			}

			if resolvedDesc.Bundled {
				return nil, xerrors.EmbeddedPackageBundled(dep)
			}

			if resolvedByDir.Contains(resolvedDir) {
				continue
			}
			resolvedByDir.Add(resolvedDir)

			re := ResolvedEmbedded{
				PackageName:       dep,
				Version:           resolvedDesc.Version,
				Dir:               resolvedDir,
				ParentPackageName: desc.Name,
				AlreadyPacked:     alreadyPacked,
			}
			order = append(order, re)
			queue = append(queue, queueItem{desc: resolvedDesc, dir: resolvedDir})
		}
	}

	var warnings []string
	for _, name := range seeds.order[:explicitSeeds] {
		if !touchedAsSeed[name] {
			warnings = append(warnings, name)
		}
	}

	return &Result{Embedded: order, Warnings: warnings}, nil
}

// checkWorkspacePackageVersion implements the version-satisfaction rule
// used whenever a monorepo match exists, whether or not the specifier
// itself uses the workspace protocol.
func checkWorkspacePackageVersion(spec string, entry workspace.Entry) bool {
	if !descriptor.IsWorkspaceSpecifier(spec) {
		return versionSatisfies(spec, entry.Version)
	}

	ws := descriptor.ParseWorkspaceSpec(spec)
	switch ws.Kind {
	case descriptor.SpecDirectory:
		clean := filepath.Clean(ws.Inner)
		return clean == filepath.Clean(entry.Dir) || strings.HasSuffix(filepath.ToSlash(filepath.Clean(entry.Dir)), filepath.ToSlash(clean))
	case descriptor.SpecStar, descriptor.SpecCaretOnly, descriptor.SpecTildeOnly:
		return true
	case descriptor.SpecRange:
		return versionSatisfies(ws.Inner, entry.Version)
	default:
		return false
	}
}

func versionSatisfies(rangeStr string, version string) bool {
	c, err := semver.NewConstraint(rangeStr)
	if err != nil {
		return false
	}
	v, err := semver.NewVersion(version)
	if err != nil {
		return false
	}
	return c.Check(v)
}
