package lockfile

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPackageNameFromKey(t *testing.T) {
	cases := []struct {
		key  string
		want string
	}{
		{"lodash@^4.17.21", "lodash"},
		{"lodash@npm:^4.17.21", "lodash"},
		{"@backstage/core-plugin-api@^1.0.0", "@backstage/core-plugin-api"},
		{"@backstage/core-plugin-api@npm:^1.0.0", "@backstage/core-plugin-api"},
		{"no-specifier", "no-specifier"},
	}
	for _, tc := range cases {
		t.Run(tc.key, func(t *testing.T) {
			assert.Equal(t, tc.want, PackageNameFromKey(tc.key))
		})
	}
}
