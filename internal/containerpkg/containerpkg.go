// Package containerpkg implements the container boundary format described
// in §6: the "package" operation wraps one or more exported dynamic
// plugin directories into a container image whose filesystem layout and
// metadata annotation let a registry scanner enumerate the plugins inside
// without unpacking the whole image.
package containerpkg

import (
	"encoding/base64"
	"encoding/json"
	"os"

	"github.com/redhat-developer/rhdh-cli/internal/descriptor"
)

// AnnotationKey is the OCI image annotation carrying the base64-encoded
// plugin index.
const AnnotationKey = "io.backstage.dynamic-packages"

// Entry is one plugin directory's contribution to the index.
type Entry struct {
	DirName   string
	Name      string
	Version   string
	Backstage interface{}
}

type pluginMeta struct {
	Name      string      `json:"name"`
	Version   string      `json:"version"`
	Backstage interface{} `json:"backstage,omitempty"`
}

// EntryFromDescriptor builds an Entry from an exported package's
// descriptor, carrying forward its inline "backstage" metadata field
// (role, pluginId, and whatever else the plugin author attached) as an
// opaque value.
func EntryFromDescriptor(dirName string, d *descriptor.Descriptor) Entry {
	return Entry{
		DirName:   dirName,
		Name:      d.Name,
		Version:   d.Version,
		Backstage: d.RawJSON["backstage"],
	}
}

// BuildIndex assembles the array of single-key maps the annotation and
// index.json both carry: one element per entry, keyed by its directory
// name.
func BuildIndex(entries []Entry) []map[string]pluginMeta {
	out := make([]map[string]pluginMeta, 0, len(entries))
	for _, e := range entries {
		out = append(out, map[string]pluginMeta{
			e.DirName: {Name: e.Name, Version: e.Version, Backstage: e.Backstage},
		})
	}
	return out
}

// EncodeAnnotation renders the index as the base64-encoded JSON string
// the AnnotationKey annotation carries.
func EncodeAnnotation(entries []Entry) (string, error) {
	data, err := json.Marshal(BuildIndex(entries))
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(data), nil
}

// WriteIndexFile writes the same index, decoded, to path (the image's
// index.json).
func WriteIndexFile(path string, entries []Entry) error {
	data, err := json.MarshalIndent(BuildIndex(entries), "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
