package backend

import (
	"strings"

	"github.com/Masterminds/semver"

	"github.com/redhat-developer/rhdh-cli/internal/descriptor"
	"github.com/redhat-developer/rhdh-cli/internal/xerrors"
)

type peerDep struct {
	Name string
	Spec string
}

// addToDependenciesForModule implements the §4.4.1 merge rule: the first
// embedded package to declare a peer dependency sets it; later packages
// either agree, narrow the range, or conflict.
func addToDependenciesForModule(dep peerDep, target descriptor.StringMap, ignoreSet map[string]bool) error {
	existing, ok := target[dep.Name]
	if !ok {
		target[dep.Name] = dep.Spec
		return nil
	}
	if existing == dep.Spec {
		return nil
	}

	intersects, narrower := rangesIntersect(existing, dep.Spec)
	if intersects {
		target[dep.Name] = narrower
		return nil
	}
	if ignoreSet[dep.Name] {
		return nil
	}
	return xerrors.PeerDependencyConflict(dep.Name, existing, dep.Spec)
}

// rangesIntersect approximates semver range intersection: two ranges are
// treated as intersecting when one specifier's own base version satisfies
// the other's constraint. When either specifier does not parse as a
// version, fall back to exact string equality. The narrower of the two
// (higher base version) wins, since caret/tilde ranges in this ecosystem
// are near-universally lower-bound constraints.
func rangesIntersect(specA, specB string) (bool, string) {
	vA, errA := baseVersion(specA)
	vB, errB := baseVersion(specB)
	if errA != nil || errB != nil {
		return specA == specB, specA
	}

	cA, errCA := semver.NewConstraint(specA)
	cB, errCB := semver.NewConstraint(specB)
	aSatisfiesB := errCB == nil && cB.Check(vA)
	bSatisfiesA := errCA == nil && cA.Check(vB)
	if !aSatisfiesB && !bSatisfiesA {
		return false, ""
	}

	if vA.GreaterThan(vB) {
		return true, specA
	}
	return true, specB
}

func baseVersion(spec string) (*semver.Version, error) {
	return semver.NewVersion(strings.TrimLeft(spec, "^~>=< "))
}
