package site

import (
	"embed"
	"io/fs"
)

//go:embed static/**
var staticFS embed.FS

// FS returns the embedded site rooted at static/: index.html, css/ and the
// sample data/*.json datasets.
func FS() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		return staticFS
	}
	return sub
}
