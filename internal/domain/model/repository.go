package model

// RepositoryRecord is the merged repository metadata plus contributor count
// shown on a card. It is cached verbatim, so the JSON tags are the storage format.
type RepositoryRecord struct {
	URL              string `json:"url"`
	HTMLURL          string `json:"html_url"`
	Name             string `json:"name"`
	OwnerLogin       string `json:"owner_login"`
	OwnerAvatarURL   string `json:"owner_avatar_url"`
	Description      string `json:"description"`
	StarCount        int    `json:"star_count"`
	WatcherCount     int    `json:"watcher_count"`
	ForkCount        int    `json:"fork_count"`
	OpenIssueCount   int    `json:"open_issue_count"`
	ContributorCount int    `json:"contributor_count"`
}

// IsZero reports whether the record holds no repository data.
func (r RepositoryRecord) IsZero() bool {
	return r == RepositoryRecord{}
}
