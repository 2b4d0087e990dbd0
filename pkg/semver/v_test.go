package semver

import (
	"runtime/debug"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestV_String(test *testing.T) {
	cases := []struct {
		v        V
		expected string
	}{
		{V{}, "0.0.0"},
		{V{Major: 1}, "1.0.0"},
		{V{Major: 1, Minor: 2}, "1.2.0"},
		{V{Major: 1, Minor: 2, Patch: 3}, "1.2.3"},
		{V{PreRelease: "alfa"}, "0.0.0-alfa"},
		{V{BuildMetadata: []string{"tag1", "tag2"}}, "0.0.0+tag1.tag2"},
		{V{Major: 1, Minor: 2, Patch: 3, PreRelease: "beta", BuildMetadata: []string{"x64"}}, "1.2.3-beta+x64"},
	}

	for _, c := range cases {
		assert.Equal(test, c.expected, c.v.String(), "%#v", c.v)
	}
}

func TestV_WithBuild(test *testing.T) {
	v := V{Minor: 1, BuildMetadata: []string{"x64"}}
	cases := []struct {
		settings []debug.BuildSetting
		expected string
	}{
		{nil, "0.1.0+x64"},
		{[]debug.BuildSetting{{Key: "GOOS", Value: "linux"}}, "0.1.0+x64"},
		{[]debug.BuildSetting{{Key: "vcs.revision", Value: "0123456789abcdef"}}, "0.1.0+x64.0123456"},
		{
			[]debug.BuildSetting{{Key: "vcs.revision", Value: "abc"}, {Key: "vcs.modified", Value: "true"}},
			"0.1.0+x64.abc.dirty",
		},
	}
	for _, c := range cases {
		assert.Equal(test, c.expected, v.WithBuild(c.settings).String())
	}
	assert.Equal(test, []string{"x64"}, v.BuildMetadata, "origin must not be modified")
}
