// Package viewmodel defines presentation-ready structs for templ components.
// View models decouple template rendering from domain model types.
package viewmodel

// CardViewModel holds presentation-ready data for one repository card.
type CardViewModel struct {
	State   string // "idle", "loading", "error" or "ready"
	Message string

	AvatarURL   string
	AvatarAlt   string
	DisplayName string
	LinkURL     string
	Owner       string

	// DescriptionHTML is sanitized inline markup, safe to emit unescaped.
	DescriptionHTML string

	Stats []StatViewModel
}

// IsReady reports whether the card shows repository data.
func (c CardViewModel) IsReady() bool {
	return c.State == "ready"
}

// StatViewModel holds one stat line of a card.
type StatViewModel struct {
	IconURL string
	Count   int
	Label   string
}

// EditorViewModel holds the state of the block editor page.
type EditorViewModel struct {
	BlockID       string
	RepoURL       string
	InputDisabled bool
	CSRFToken     string
	PreviewURL    string // POST target for live preview
	Toggles       []ToggleViewModel
	Card          CardViewModel
}

// ToggleViewModel holds one stat visibility checkbox.
type ToggleViewModel struct {
	Name    string
	Label   string
	Checked bool
}
