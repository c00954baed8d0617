package tutorhub

import "embed"

// AssetsFS holds the static files served under /assets/.
// Run "go run ./cmd/do gen" to build assets/css/output.css.
//
//go:embed all:assets
var AssetsFS embed.FS

// PagesFS holds the Markdown sources of the informational pages.
//
//go:embed content/pages/*.md
var PagesFS embed.FS
