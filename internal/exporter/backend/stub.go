package backend

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/redhat-developer/rhdh-cli/internal/customize"
	"github.com/redhat-developer/rhdh-cli/internal/descriptor"
)

// materializeSuppressedStub implements §4.4 step 5: a name passed via
// --suppress-native-package gets a fake embedded package whose module
// throws immediately on load, so any code path that still requires() it
// at runtime fails loudly instead of crashing the host on a missing
// native binding.
func materializeSuppressedStub(targetDir, name string) error {
	dir := filepath.Join(targetDir, "embedded", customize.Slug(name))
	if err := os.MkdirAll(dir, 0o775); err != nil {
		return err
	}

	d := &descriptor.Descriptor{Name: name, Main: "index.js", RawJSON: map[string]interface{}{}}
	if err := descriptor.Write(d, filepath.Join(dir, "package.json")); err != nil {
		return err
	}

	msg := fmt.Sprintf("native package %q was suppressed during dynamic export and cannot be loaded", name)
	body := fmt.Sprintf("throw new Error(%q);\n", msg)
	return os.WriteFile(filepath.Join(dir, "index.js"), []byte(body), 0o644)
}
