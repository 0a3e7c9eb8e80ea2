// Package web holds the server-rendered templates.
package web

import (
	"embed"
	"io/fs"
)

//go:embed templates/*.html
var files embed.FS

// Templates is rooted at the templates directory, so views are addressed
// by bare name ("calculator", "notfound").
func Templates() fs.FS {
	sub, err := fs.Sub(files, "templates")
	if err != nil {
		panic(err)
	}
	return sub
}
