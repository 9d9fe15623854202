// Package templates holds the templ components shared by every page.
// Components are written in .templ files; run `go tool templ generate`
// after editing them.
package templates
