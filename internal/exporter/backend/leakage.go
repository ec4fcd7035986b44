package backend

import (
	"sort"

	"github.com/redhat-developer/rhdh-cli/internal/descriptor"
	"github.com/redhat-developer/rhdh-cli/internal/lockfile"
	"github.com/redhat-developer/rhdh-cli/internal/shared"
	"github.com/redhat-developer/rhdh-cli/internal/xerrors"
)

// checkSharedLeakage implements §4.4 step 12: every installed lock file
// entry other than the derived package and its embedded packages must not
// resolve to a shared package. When it does, every direct dependency
// whose own lock entry lists a shared package among its dependencies is
// suggested as an embedding candidate; deeper transitive dependencies are
// not followed.
func checkSharedLeakage(lf *lockfile.Lockfile, d *descriptor.Descriptor, embeddedNames []string, rules shared.Rules) error {
	exclude := map[string]bool{d.Name: true}
	for _, n := range embeddedNames {
		exclude[n] = true
	}

	var leaked []string
	seenLeaked := map[string]bool{}
	for _, key := range lf.Keys() {
		name := lockfile.PackageNameFromKey(key)
		if exclude[name] || seenLeaked[name] || !rules.IsShared(name) {
			continue
		}
		seenLeaked[name] = true
		leaked = append(leaked, name)
	}
	if len(leaked) == 0 {
		return nil
	}

	var suggestions []string
	seenSuggestion := map[string]bool{}
	for dep := range d.Dependencies {
		entry, ok := findLockEntry(lf, dep)
		if !ok {
			continue
		}
		for transitive := range entry.Dependencies {
			if rules.IsShared(transitive) && !seenSuggestion[dep] {
				seenSuggestion[dep] = true
				suggestions = append(suggestions, dep)
			}
		}
	}

	sort.Strings(leaked)
	sort.Strings(suggestions)
	return xerrors.SharedPackageLeakage(leaked, suggestions)
}

func findLockEntry(lf *lockfile.Lockfile, name string) (lockfile.Entry, bool) {
	for _, key := range lf.Keys() {
		if lockfile.PackageNameFromKey(key) == name {
			if e, ok := lf.Entry(key); ok {
				return e, true
			}
		}
	}
	return lockfile.Entry{}, false
}
