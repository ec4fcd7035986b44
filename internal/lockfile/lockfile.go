// Package lockfile parses and enumerates a yarn.lock lock file, the same
// way the teacher's YarnLockfile wraps go-yarnlock
// (_examples/vercel-turborepo/cli/internal/lockfile/yarn_lockfile.go), trimmed to what the export
// pipeline needs: per-key lookups for the shared-package leakage check
// and a stable re-encode for writing the lock file back out.
package lockfile

import (
	"bytes"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/andybalholm/crlf"
	"github.com/iseki0/go-yarnlock"
	"github.com/pkg/errors"
)

var crlfSuffix = []byte("\r\n")

// Entry is one lock file record, keyed by "<name>@<specifier>".
type Entry struct {
	Key          string
	Version      string
	Dependencies map[string]string
}

// Lockfile is the parsed form of a yarn.lock file.
type Lockfile struct {
	inner   yarnlock.LockFile
	hasCRLF bool
}

// ReadFile reads and parses the yarn.lock at path.
func ReadFile(path string) (*Lockfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Decode(data)
}

// Decode parses the raw contents of a yarn.lock file.
func Decode(data []byte) (*Lockfile, error) {
	inner, err := yarnlock.ParseLockFileData(data)
	if err != nil {
		return nil, errors.Wrap(err, "unable to decode yarn.lock")
	}

	hasCRLF := bytes.HasSuffix(data, crlfSuffix)
	if !hasCRLF && !bytes.HasSuffix(data, []byte("\n")) {
		if i := bytes.IndexByte(data, '\n'); i > 0 {
			hasCRLF = data[i-1] == '\r'
		}
	}

	return &Lockfile{inner: inner, hasCRLF: hasCRLF}, nil
}

// Encode writes the lock file representation to w, preserving the
// original line-ending style.
func (l *Lockfile) Encode(w io.Writer) error {
	writer := w
	if l.hasCRLF {
		writer = crlf.NewWriter(w)
	}
	if err := l.inner.Encode(writer); err != nil {
		return errors.Wrap(err, "unable to encode yarn.lock")
	}
	return nil
}

// WriteFile encodes the lock file and writes it to path.
func (l *Lockfile) WriteFile(path string) error {
	var buf bytes.Buffer
	if err := l.Encode(&buf); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}

// Keys returns every lock file key, sorted for deterministic iteration.
func (l *Lockfile) Keys() []string {
	keys := make([]string, 0, len(l.inner))
	for k := range l.inner {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Entry looks up one lock file record by its exact key.
func (l *Lockfile) Entry(key string) (Entry, bool) {
	e, ok := l.inner[key]
	if !ok {
		return Entry{}, false
	}
	deps := make(map[string]string, len(e.Dependencies)+len(e.OptionalDependencies))
	for name, v := range e.Dependencies {
		deps[name] = v
	}
	for name, v := range e.OptionalDependencies {
		deps[name] = v
	}
	return Entry{Key: key, Version: e.Version, Dependencies: deps}, true
}

// PackageNameFromKey extracts the package name portion of a lock file key
// of the form "<name>@<specifier>" (or "@scope/name@<specifier>" for
// scoped packages, where the leading "@" must not be mistaken for the
// specifier separator).
func PackageNameFromKey(key string) string {
	search := key
	offset := 0
	if strings.HasPrefix(key, "@") {
		search = key[1:]
		offset = 1
	}
	idx := strings.Index(search, "@")
	if idx == -1 {
		return key
	}
	return key[:idx+offset]
}
