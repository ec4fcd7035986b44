// Package xerrors gives each export-pipeline failure mode from the error
// handling design a stable Go type, following the pattern the teacher uses
// for its own small set of sentinel command errors
// (_examples/vercel-turborepo/cli/internal/util/cmd.go's ExitCodeError / BasicError): a failure is
// surfaced to the user by naming the offending entity, not just a message.
package xerrors

import (
	"errors"
	"fmt"
)

// Kind identifies one of the named failure modes.
type Kind string

const (
	KindBundledPackageRejected    Kind = "BundledPackageRejected"
	KindDuplicateMonorepoPackage  Kind = "DuplicateMonorepoPackage"
	KindMissingWorkspacePackage   Kind = "MissingWorkspacePackage"
	KindWorkspaceVersionMismatch  Kind = "WorkspaceVersionMismatch"
	KindUnresolvedWorkspaceDep    Kind = "UnresolvedWorkspaceDep"
	KindEmbeddedPackageBundled    Kind = "EmbeddedPackageBundled"
	KindSharedPackageLeakage      Kind = "SharedPackageLeakage"
	KindNativePackageForbidden    Kind = "NativePackageForbidden"
	KindInvalidPluginEntrypoint   Kind = "InvalidPluginEntrypoint"
	KindPeerDependencyConflict    Kind = "PeerDependencyConflict"
	KindNoFrontendAssetsRequested Kind = "NoFrontendAssetsRequested"
	KindSubprocessFailed          Kind = "SubprocessFailed"
)

// Error is the common shape of every pipeline failure: a kind and a
// human-readable message that names whatever entities are at fault.
type Error struct {
	kind    Kind
	message string
}

func (e *Error) Error() string { return e.message }

// Kind returns the stable failure-mode tag for this error.
func (e *Error) Kind() Kind { return e.kind }

func newError(kind Kind, format string, args ...interface{}) *Error {
	return &Error{kind: kind, message: fmt.Sprintf(format, args...)}
}

// BundledPackageRejected reports that descriptor name has bundled=true.
func BundledPackageRejected(name string) error {
	return newError(KindBundledPackageRejected, "package %q has \"bundled\": true and cannot be exported as a dynamic plugin", name)
}

// DuplicateMonorepoPackage reports that more than one monorepo package shares name.
func DuplicateMonorepoPackage(name string) error {
	return newError(KindDuplicateMonorepoPackage, "monorepo has more than one package named %q", name)
}

// MissingWorkspacePackage reports that the monorepo has zero matches for name.
func MissingWorkspacePackage(name string) error {
	return newError(KindMissingWorkspacePackage, "workspace dependency %q was not found in the monorepo", name)
}

// WorkspaceVersionMismatch reports that pkg's version does not satisfy spec.
func WorkspaceVersionMismatch(name, spec, version string) error {
	return newError(KindWorkspaceVersionMismatch, "monorepo package %q at version %q does not satisfy workspace specifier %q", name, version, spec)
}

// UnresolvedWorkspaceDep reports a workspace: specifier the customizer could not resolve.
func UnresolvedWorkspaceDep(name, spec string) error {
	return newError(KindUnresolvedWorkspaceDep, "could not resolve workspace dependency %q (%q) against the embedded or monorepo package set", name, spec)
}

// EmbeddedPackageBundled reports that an embedded candidate has bundled=true.
func EmbeddedPackageBundled(name string) error {
	return newError(KindEmbeddedPackageBundled, "embedded package %q has \"bundled\": true and cannot be embedded", name)
}

// SharedPackageLeakage reports shared packages found in the installed lock file.
func SharedPackageLeakage(shared []string, suggestions []string) error {
	return newError(KindSharedPackageLeakage, "shared packages leaked into the installed dependency tree: %v (consider embedding: %v)", shared, suggestions)
}

// NativePackageForbidden reports native packages found during the native-module scan.
func NativePackageForbidden(packages []string) error {
	return newError(KindNativePackageForbidden, "native (compiled) packages are not allowed in a dynamic plugin: %v", packages)
}

// InvalidPluginEntrypoint reports that the main module does not export a recognizable plugin shape.
func InvalidPluginEntrypoint(dir string) error {
	return newError(KindInvalidPluginEntrypoint, "%s: main module must export a default plugin value or a named \"dynamicPluginInstaller\"", dir)
}

// PeerDependencyConflict reports two embedded packages requiring incompatible peer versions.
func PeerDependencyConflict(name, existing, incoming string) error {
	return newError(KindPeerDependencyConflict, "conflicting peer dependency versions for %q: %q vs %q share no satisfying range", name, existing, incoming)
}

// NoFrontendAssetsRequested reports that neither asset-producer flag was set.
func NoFrontendAssetsRequested() error {
	return newError(KindNoFrontendAssetsRequested, "at least one of --generate-scalprum-assets or --generate-module-federation-assets is required")
}

// SubprocessFailed wraps a failed external process invocation.
func SubprocessFailed(command string, cwd string, exitCode int, output string) error {
	return newError(KindSubprocessFailed, "command %q failed in %s with exit code %d:\n%s", command, cwd, exitCode, output)
}

// As is a thin wrapper around errors.As for *Error, exported for callers
// that want to branch on Kind() without importing the stdlib errors
// package themselves.
func As(err error) (*Error, bool) {
	var xe *Error
	ok := errors.As(err, &xe)
	return xe, ok
}
