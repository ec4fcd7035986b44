package customize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redhat-developer/rhdh-cli/internal/descriptor"
	"github.com/redhat-developer/rhdh-cli/internal/embed"
	"github.com/redhat-developer/rhdh-cli/internal/shared"
)

func TestSlugStripsScopeAndSlash(t *testing.T) {
	assert.Equal(t, "backstage-core-plugin-api", Slug("@backstage/core-plugin-api"))
	assert.Equal(t, "lodash", Slug("lodash"))
}

func TestCustomizeAppliesOverriding(t *testing.T) {
	name := "@x/foo-dynamic"
	priv := true
	d := &descriptor.Descriptor{Name: "@x/foo", Version: "1.0.0"}

	err := Customize(d, Options{
		Overriding: Overriding{Name: &name, Private: &priv},
		Shared:     shared.Default(),
	})
	require.NoError(t, err)
	assert.Equal(t, "@x/foo-dynamic", d.Name)
	assert.True(t, d.Private)
}

func TestCustomizeStripsDistDynamicFromFiles(t *testing.T) {
	d := &descriptor.Descriptor{
		Name:    "@x/foo",
		Version: "1.0.0",
		Files:   []string{"dist/index.js", "dist-dynamic/package.json", "README.md"},
	}
	require.NoError(t, Customize(d, Options{Shared: shared.Default()}))
	assert.Equal(t, []string{"dist/index.js", "README.md"}, d.Files)
}

func TestCustomizeHoistsSharedDependenciesToPeer(t *testing.T) {
	d := &descriptor.Descriptor{
		Name:    "@x/foo",
		Version: "1.0.0",
		Dependencies: descriptor.StringMap{
			"@backstage/core-plugin-api": "^1.0.0",
			"lodash":                     "^4.17.0",
		},
	}
	require.NoError(t, Customize(d, Options{Shared: shared.Default()}))

	_, stillDirect := d.Dependencies["@backstage/core-plugin-api"]
	assert.False(t, stillDirect)
	assert.Equal(t, "^1.0.0", d.PeerDependencies["@backstage/core-plugin-api"])
	assert.Equal(t, "^4.17.0", d.Dependencies["lodash"])
}

func TestCustomizeRewritesWorkspaceSpecifierFromEmbedded(t *testing.T) {
	d := &descriptor.Descriptor{
		Name:    "@x/foo-backend",
		Version: "1.0.0",
		Dependencies: descriptor.StringMap{
			"@x/foo-common": "workspace:^",
		},
	}
	opts := Options{
		Shared:   shared.Default(),
		Embedded: []embed.ResolvedEmbedded{{PackageName: "@x/foo-common", Version: "2.3.1"}},
	}
	require.NoError(t, Customize(d, opts))
	assert.Equal(t, "^2.3.1", d.Dependencies["@x/foo-common"])
}

func TestCustomizeRewritesEmbeddedDepToFileProtocolOnYarnV1(t *testing.T) {
	d := &descriptor.Descriptor{
		Name:    "@x/foo-backend",
		Version: "1.0.0",
		Dependencies: descriptor.StringMap{
			"@x/foo-common": "2.3.1",
		},
	}
	opts := Options{
		Shared:   shared.Default(),
		IsYarnV1: true,
		Embedded: []embed.ResolvedEmbedded{{PackageName: "@x/foo-common", Version: "2.3.1"}},
	}
	require.NoError(t, Customize(d, opts))
	assert.Equal(t, "file:./embedded/x-foo-common", d.Dependencies["@x/foo-common"])
}

func TestCustomizeErrorsOnUnresolvableWorkspaceSpec(t *testing.T) {
	d := &descriptor.Descriptor{
		Name:    "@x/foo-backend",
		Version: "1.0.0",
		Dependencies: descriptor.StringMap{
			"@x/nowhere": "workspace:^",
		},
	}
	err := Customize(d, Options{Shared: shared.Default()})
	require.Error(t, err)
}

func TestCustomizeStripsDevDependenciesAndPinsCompatOverride(t *testing.T) {
	d := &descriptor.Descriptor{
		Name:            "@x/foo",
		Version:         "1.0.0",
		DevDependencies: descriptor.StringMap{"typescript": "^5.0.0"},
	}
	require.NoError(t, Customize(d, Options{
		Shared:                shared.Default(),
		AdditionalOverrides:   descriptor.StringMap{"react": "^18.0.0"},
		AdditionalResolutions: descriptor.StringMap{"react-dom": "^18.0.0"},
	}))

	assert.Empty(t, d.DevDependencies)
	assert.Equal(t, "@smithy/util-utf8", d.Overrides["@aws-sdk/util-utf8-browser"])
	assert.Equal(t, "@smithy/util-utf8", d.Resolutions["@aws-sdk/util-utf8-browser"])
	assert.Equal(t, "^18.0.0", d.Overrides["react"])
	assert.Equal(t, "^18.0.0", d.Resolutions["react-dom"])
}

func TestCustomizeCallsAfterHook(t *testing.T) {
	d := &descriptor.Descriptor{Name: "@x/foo", Version: "1.0.0"}
	called := false
	err := Customize(d, Options{
		Shared: shared.Default(),
		After: func(*descriptor.Descriptor) error {
			called = true
			return nil
		},
	})
	require.NoError(t, err)
	assert.True(t, called)
}
