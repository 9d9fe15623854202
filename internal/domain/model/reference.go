package model

import (
	"fmt"
	"regexp"
	"strings"
)

const githubHost = "https://github.com/"

// repoURLPattern matches a repository URL with exactly two path segments.
var repoURLPattern = regexp.MustCompile(`^https://github\.com/([A-Za-z0-9_.-]+)/([A-Za-z0-9_.-]+)$`)

// RepositoryReference identifies a repository by owner and name.
type RepositoryReference struct {
	Owner string
	Name  string
}

// FullName returns the "owner/name" form used by the GitHub API.
func (r RepositoryReference) FullName() string {
	return r.Owner + "/" + r.Name
}

// URL returns the normalized repository URL (no trailing slash).
func (r RepositoryReference) URL() string {
	return githubHost + r.FullName()
}

// ParseRepositoryURL validates a user-supplied repository URL and extracts
// its owner and name. One trailing slash is accepted. Matching is
// case-sensitive and the segments are passed through unchanged.
func ParseRepositoryURL(input string) (RepositoryReference, error) {
	trimmed := strings.TrimSuffix(input, "/")

	m := repoURLPattern.FindStringSubmatch(trimmed)
	if m == nil {
		return RepositoryReference{}, fmt.Errorf("parse %q: %w", input, ErrInvalidFormat)
	}

	return RepositoryReference{Owner: m[1], Name: m[2]}, nil
}
