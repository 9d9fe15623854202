package model

// Icon keys for the stat entries. They double as icon file names.
const (
	IconContributor = "contributor"
	IconStar        = "star"
	IconWatch       = "watch"
	IconFork        = "fork"
	IconIssue       = "issue"
)

// CardIdle marks a card for a block that has no URL yet. It only appears in
// a CardView, never in a RenderState.
const CardIdle RenderPhase = "idle"

// MessageIdle is the hint shown on a card with no URL.
const MessageIdle = "Enter a valid GitHub repository URL in the block settings."

// CardView is the escaping-agnostic structure a card is drawn from.
type CardView struct {
	State       RenderPhase `json:"state"`
	Header      CardHeader  `json:"header"`
	Owner       string      `json:"owner"`
	Description string      `json:"description"`
	Stats       []StatEntry `json:"stats"`
	Message     string      `json:"message,omitempty"`
}

// CardHeader holds the avatar and title link of a card.
type CardHeader struct {
	AvatarURL   string `json:"avatar_url"`
	AvatarAlt   string `json:"avatar_alt"`
	DisplayName string `json:"display_name"`
	LinkURL     string `json:"link_url"`
}

// StatEntry is one visible counter in the stats row.
type StatEntry struct {
	IconKey string `json:"icon_key"`
	Count   int    `json:"count"`
	Label   string `json:"label"`
}
