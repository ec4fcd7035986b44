package containerpkg

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/redhat-developer/rhdh-cli/internal/descriptor"
	"github.com/redhat-developer/rhdh-cli/internal/packager"
	"github.com/redhat-developer/rhdh-cli/internal/task"
)

// ContainerTool resolves the image-building binary per the CONTAINER_TOOL
// environment variable, falling back to docker.
func ContainerTool() string {
	if v := os.Getenv("CONTAINER_TOOL"); v != "" {
		return v
	}
	return "docker"
}

// Plugin is one exported dynamic plugin directory to fold into the image,
// landing at /<DirName>/ in the final filesystem.
type Plugin struct {
	DirName   string
	SourceDir string
}

// PackageOptions configures one container packaging run.
type PackageOptions struct {
	Plugins    []Plugin
	ContextDir string
	Tag        string
}

// Package assembles a build context under opts.ContextDir containing one
// directory per plugin, an index.json, and a minimal Dockerfile, then
// invokes the container tool with the annotation set.
func Package(opts PackageOptions) (*task.Result, error) {
	if err := os.RemoveAll(opts.ContextDir); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(opts.ContextDir, 0o775); err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(opts.Plugins))
	for _, p := range opts.Plugins {
		desc, err := descriptor.Read(filepath.Join(p.SourceDir, "package.json"))
		if err != nil {
			return nil, err
		}
		entries = append(entries, EntryFromDescriptor(p.DirName, desc))

		if err := copyTree(p.SourceDir, filepath.Join(opts.ContextDir, p.DirName)); err != nil {
			return nil, err
		}
	}

	if err := WriteIndexFile(filepath.Join(opts.ContextDir, "index.json"), entries); err != nil {
		return nil, err
	}
	if err := writeDockerfile(opts.ContextDir); err != nil {
		return nil, err
	}

	annotationValue, err := EncodeAnnotation(entries)
	if err != nil {
		return nil, err
	}

	args := []string{"build", "--annotation", fmt.Sprintf("%s=%s", AnnotationKey, annotationValue)}
	if opts.Tag != "" {
		args = append(args, "-t", opts.Tag)
	}
	args = append(args, ".")

	return task.Run(task.Task{
		Name:    "container-build",
		Command: ContainerTool(),
		Args:    args,
		Dir:     opts.ContextDir,
	})
}

func writeDockerfile(contextDir string) error {
	const dockerfile = "FROM scratch\nCOPY . /\n"
	return os.WriteFile(filepath.Join(contextDir, "Dockerfile"), []byte(dockerfile), 0o644)
}

func copyTree(srcDir, destDir string) error {
	return filepath.WalkDir(srcDir, func(path string, de fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, relErr := filepath.Rel(srcDir, path)
		if relErr != nil {
			return relErr
		}
		if rel == "." || de.IsDir() {
			return nil
		}
		return packager.CopyFile(path, filepath.Join(destDir, rel))
	})
}
