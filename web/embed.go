// Package web embeds the HTML templates and static assets of the envguard UI.
package web

import (
	"embed"
	"io/fs"
)

//go:embed templates static
var files embed.FS

// Templates returns the pongo2 page templates.
func Templates() fs.FS {
	return sub("templates")
}

// Static returns the assets served under /static/.
func Static() fs.FS {
	return sub("static")
}

func sub(dir string) fs.FS {
	f, err := fs.Sub(files, dir)
	if err != nil {
		// dir is a constant embedded above.
		panic(err)
	}
	return f
}
