package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRepositoryURL_Valid(t *testing.T) {
	tests := []struct {
		input string
		owner string
		name  string
	}{
		{"https://github.com/acme/widget", "acme", "widget"},
		{"https://github.com/acme/widget/", "acme", "widget"},
		{"https://github.com/octocat/Hello-World", "octocat", "Hello-World"},
		{"https://github.com/my_org.x/repo.go-1", "my_org.x", "repo.go-1"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			ref, err := ParseRepositoryURL(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.owner, ref.Owner)
			assert.Equal(t, tt.name, ref.Name)
		})
	}
}

func TestParseRepositoryURL_TrailingSlashEquivalence(t *testing.T) {
	withSlash, err := ParseRepositoryURL("https://github.com/acme/widget/")
	require.NoError(t, err)
	without, err := ParseRepositoryURL("https://github.com/acme/widget")
	require.NoError(t, err)

	assert.Equal(t, RepositoryReference{Owner: "acme", Name: "widget"}, withSlash)
	assert.Equal(t, withSlash, without)
}

func TestParseRepositoryURL_Invalid(t *testing.T) {
	inputs := []string{
		"",
		"not-a-url",
		"http://github.com/acme/widget",
		"https://gitlab.com/acme/widget",
		"https://github.com/acme",
		"https://github.com/acme/",
		"https://github.com/acme/widget//",
		"https://github.com/acme/widget/issues",
		"https://github.com//widget",
		"https://github.com/acme/wid get",
		"https://github.com/acme/widget?tab=readme",
		"https://GITHUB.com/acme/widget",
		" https://github.com/acme/widget",
	}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			_, err := ParseRepositoryURL(input)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidFormat)
		})
	}
}

func TestRepositoryReference_URLAndFullName(t *testing.T) {
	ref := RepositoryReference{Owner: "octocat", Name: "Hello-World"}
	assert.Equal(t, "octocat/Hello-World", ref.FullName())
	assert.Equal(t, "https://github.com/octocat/Hello-World", ref.URL())
}
