package xerrors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorsCarryTheirKindAndMessage(t *testing.T) {
	cases := []struct {
		err  error
		kind Kind
	}{
		{BundledPackageRejected("@x/foo"), KindBundledPackageRejected},
		{DuplicateMonorepoPackage("@x/foo"), KindDuplicateMonorepoPackage},
		{MissingWorkspacePackage("@x/foo"), KindMissingWorkspacePackage},
		{WorkspaceVersionMismatch("@x/foo", "^1.0.0", "2.0.0"), KindWorkspaceVersionMismatch},
		{UnresolvedWorkspaceDep("@x/foo", "workspace:^"), KindUnresolvedWorkspaceDep},
		{EmbeddedPackageBundled("@x/foo"), KindEmbeddedPackageBundled},
		{SharedPackageLeakage([]string{"@backstage/core"}, []string{"@x/foo"}), KindSharedPackageLeakage},
		{NativePackageForbidden([]string{"fsevents"}), KindNativePackageForbidden},
		{InvalidPluginEntrypoint("/plugin"), KindInvalidPluginEntrypoint},
		{PeerDependencyConflict("react", "^16.0.0", "^17.0.0"), KindPeerDependencyConflict},
		{NoFrontendAssetsRequested(), KindNoFrontendAssetsRequested},
		{SubprocessFailed("yarn install", "/plugin", 1, "boom"), KindSubprocessFailed},
	}

	for _, tc := range cases {
		t.Run(string(tc.kind), func(t *testing.T) {
			xe, ok := As(tc.err)
			assert.True(t, ok)
			assert.Equal(t, tc.kind, xe.Kind())
			assert.NotEmpty(t, xe.Error())
		})
	}
}

func TestAsReturnsFalseForForeignErrors(t *testing.T) {
	_, ok := As(errors.New("not one of ours"))
	assert.False(t, ok)
}
