package frontend

import (
	"embed"
	"io/fs"
	"net/http"
)

// FS embeds the stylesheet and the page templates
//
//go:embed static templates
var FS embed.FS

// StaticFS returns the embedded static assets for HTTP serving
func StaticFS() (http.FileSystem, error) {
	sub, err := fs.Sub(FS, "static")
	if err != nil {
		return nil, err
	}
	return http.FS(sub), nil
}

// Templates returns the page templates directory
func Templates() (fs.FS, error) {
	return fs.Sub(FS, "templates")
}
