// Package descriptor models the on-disk package.json manifest of a plugin
// package: the fields the export pipeline reads and mutates, plus whatever
// else the manifest carries that we don't have an opinion about.
package descriptor

import (
	"bytes"
	"encoding/json"
	"os"
)

// Role tags a descriptor's position in the host framework's component model.
type Role string

const (
	RoleBackendPlugin       Role = "backend-plugin"
	RoleBackendPluginModule Role = "backend-plugin-module"
	RoleNodeLibrary         Role = "node-library"
	RoleFrontendPlugin      Role = "frontend-plugin"
)

// StringMap is a dependency-name -> version-specifier mapping, kept as its
// own type so nil and empty are both treated as "no entries" on write.
type StringMap map[string]string

// Descriptor is the in-memory form of a package.json manifest.
type Descriptor struct {
	Name                 string    `json:"name"`
	Version              string    `json:"version"`
	Private              bool      `json:"private,omitempty"`
	Main                 string    `json:"main,omitempty"`
	Role                 Role      `json:"role,omitempty" mapKey:"role"`
	Files                []string  `json:"files,omitempty"`
	Scripts              StringMap `json:"scripts,omitempty"`
	Dependencies         StringMap `json:"dependencies,omitempty"`
	DevDependencies      StringMap `json:"devDependencies,omitempty"`
	PeerDependencies     StringMap `json:"peerDependencies,omitempty"`
	OptionalDependencies StringMap `json:"optionalDependencies,omitempty"`
	Overrides            StringMap `json:"overrides,omitempty"`
	Resolutions          StringMap `json:"resolutions,omitempty"`
	Bundled              bool      `json:"bundled,omitempty"`
	BundleDependencies   bool      `json:"bundleDependencies,omitempty"`

	// RawJSON is the exact decoded manifest, including fields the struct
	// above doesn't model (e.g. "scalprum", "repository", "engines"). On
	// marshal, struct fields take priority but unknown raw fields survive.
	RawJSON map[string]interface{} `json:"-"`

	// Path is the absolute path to this descriptor's package.json on disk.
	// Empty for descriptors that were never read from a file.
	Path string `json:"-"`
}

// Read loads and parses the package.json at path.
func Read(path string) (*Descriptor, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	d, err := Unmarshal(b)
	if err != nil {
		return nil, err
	}
	d.Path = path
	return d, nil
}

// Unmarshal decodes a package.json byte slice into a Descriptor.
func Unmarshal(data []byte) (*Descriptor, error) {
	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	d := &Descriptor{}
	if err := json.Unmarshal(data, d); err != nil {
		return nil, err
	}
	d.RawJSON = raw
	return d, nil
}

// Marshal serializes a Descriptor back to package.json bytes with stable
// 2-space indentation, merging the struct's fields over the raw JSON it was
// read from so unknown keys (e.g. "scalprum", "engines", "repository")
// survive a read-mutate-write round trip.
func Marshal(d *Descriptor) ([]byte, error) {
	structured, err := json.Marshal(d)
	if err != nil {
		return nil, err
	}
	var structuredFields map[string]interface{}
	if err := json.Unmarshal(structured, &structuredFields); err != nil {
		return nil, err
	}

	fields := make(map[string]interface{}, len(d.RawJSON)+len(structuredFields))
	for k, v := range d.RawJSON {
		fields[k] = v
	}
	// Keys the struct models are owned by the struct: a field it leaves
	// empty (and so omits) must not fall back to the raw value.
	for _, k := range []string{"name", "version", "private", "main", "role", "files", "scripts",
		"dependencies", "devDependencies", "peerDependencies", "optionalDependencies",
		"overrides", "resolutions", "bundled", "bundleDependencies"} {
		delete(fields, k)
	}
	for k, v := range structuredFields {
		if isEmpty(v) {
			delete(fields, k)
		} else {
			fields[k] = v
		}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(fields); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Write serializes d and writes it to path.
func Write(d *Descriptor, path string) error {
	b, err := Marshal(d)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}

func isEmpty(value interface{}) bool {
	if value == nil {
		return true
	}
	switch v := value.(type) {
	case string:
		return v == ""
	case bool:
		return !v
	case []interface{}:
		return len(v) == 0
	case map[string]interface{}:
		return len(v) == 0
	default:
		return false
	}
}

// Clone produces a deep-enough copy for the customizer to mutate without
// touching the caller's original maps.
func (d *Descriptor) Clone() *Descriptor {
	clone := *d
	clone.Files = append([]string(nil), d.Files...)
	clone.Scripts = cloneMap(d.Scripts)
	clone.Dependencies = cloneMap(d.Dependencies)
	clone.DevDependencies = cloneMap(d.DevDependencies)
	clone.PeerDependencies = cloneMap(d.PeerDependencies)
	clone.OptionalDependencies = cloneMap(d.OptionalDependencies)
	clone.Overrides = cloneMap(d.Overrides)
	clone.Resolutions = cloneMap(d.Resolutions)
	rawClone := make(map[string]interface{}, len(d.RawJSON))
	for k, v := range d.RawJSON {
		rawClone[k] = v
	}
	clone.RawJSON = rawClone
	return &clone
}

func cloneMap(m StringMap) StringMap {
	if m == nil {
		return nil
	}
	out := make(StringMap, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
