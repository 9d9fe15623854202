package model

import (
	"fmt"
	"strconv"
)

// DisplayConfig controls which stats a card shows. It never affects fetching.
type DisplayConfig struct {
	ShowContributors bool `json:"show_contributors"`
	ShowStars        bool `json:"show_stars"`
	ShowWatchers     bool `json:"show_watchers"`
	ShowForks        bool `json:"show_forks"`
	ShowIssues       bool `json:"show_issues"`
}

// DefaultDisplayConfig returns a config with every stat visible.
func DefaultDisplayConfig() DisplayConfig {
	return DisplayConfig{
		ShowContributors: true,
		ShowStars:        true,
		ShowWatchers:     true,
		ShowForks:        true,
		ShowIssues:       true,
	}
}

// DisplayToggle names one DisplayConfig field for transports that carry
// toggles as named flags (query parameters, form checkboxes, CLI flags).
type DisplayToggle struct {
	Name  string
	Label string
	Get   func(DisplayConfig) bool
	Set   func(*DisplayConfig, bool)
}

// DisplayToggles lists every toggle in card order.
var DisplayToggles = []DisplayToggle{
	{
		Name:  "contributors",
		Label: "Contributors",
		Get:   func(d DisplayConfig) bool { return d.ShowContributors },
		Set:   func(d *DisplayConfig, v bool) { d.ShowContributors = v },
	},
	{
		Name:  "stars",
		Label: "Stars",
		Get:   func(d DisplayConfig) bool { return d.ShowStars },
		Set:   func(d *DisplayConfig, v bool) { d.ShowStars = v },
	},
	{
		Name:  "watchers",
		Label: "Watchers",
		Get:   func(d DisplayConfig) bool { return d.ShowWatchers },
		Set:   func(d *DisplayConfig, v bool) { d.ShowWatchers = v },
	},
	{
		Name:  "forks",
		Label: "Forks",
		Get:   func(d DisplayConfig) bool { return d.ShowForks },
		Set:   func(d *DisplayConfig, v bool) { d.ShowForks = v },
	},
	{
		Name:  "issues",
		Label: "Issues",
		Get:   func(d DisplayConfig) bool { return d.ShowIssues },
		Set:   func(d *DisplayConfig, v bool) { d.ShowIssues = v },
	},
}

// ParseDisplayConfig builds a DisplayConfig from named boolean values returned
// by lookup. Empty values keep their default of true; values strconv.ParseBool
// rejects are an error.
func ParseDisplayConfig(lookup func(name string) string) (DisplayConfig, error) {
	display := DefaultDisplayConfig()

	for _, toggle := range DisplayToggles {
		raw := lookup(toggle.Name)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return DisplayConfig{}, fmt.Errorf("invalid %s value %q: expected a boolean", toggle.Name, raw)
		}
		toggle.Set(&display, v)
	}

	return display, nil
}
