package web

import (
	"bytes"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

var (
	mdRenderer    goldmark.Markdown
	htmlSanitizer *bluemonday.Policy
)

func init() {
	mdRenderer = goldmark.New(
		goldmark.WithExtensions(extension.Strikethrough, extension.Linkify),
		goldmark.WithRendererOptions(html.WithUnsafe()),
	)

	// Descriptions sit inside a <p>, so only inline elements survive.
	htmlSanitizer = bluemonday.NewPolicy()
	htmlSanitizer.AllowElements("strong", "em", "code", "del")
	htmlSanitizer.AllowStandardURLs()
	htmlSanitizer.AllowAttrs("href").OnElements("a")
	htmlSanitizer.RequireNoFollowOnLinks(true)
	htmlSanitizer.AddTargetBlankToFullyQualifiedLinks(true)
}

// RenderDescription converts a repository description to sanitized inline
// HTML. Block elements are dropped; their text is kept. Returns empty string
// for empty input.
func RenderDescription(src string) string {
	if src == "" {
		return ""
	}

	var buf bytes.Buffer
	if err := mdRenderer.Convert([]byte(src), &buf); err != nil {
		return strings.TrimSpace(htmlSanitizer.Sanitize(src))
	}

	return strings.TrimSpace(htmlSanitizer.Sanitize(buf.String()))
}
