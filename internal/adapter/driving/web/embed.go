package web

import "embed"

// StaticFS holds the embedded static assets (stylesheet, stat icons, editor JS).
//
//go:embed static/*
var StaticFS embed.FS
