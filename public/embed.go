package public

import (
	"embed"
	"io/fs"
)

//go:embed static/* templates/*.tmpl
var files embed.FS

// StaticFS returns the embedded stylesheet and script assets.
func StaticFS() (fs.FS, error) {
	return fs.Sub(files, "static")
}

// TemplatesFS returns the embedded page and fragment templates.
func TemplatesFS() (fs.FS, error) {
	return fs.Sub(files, "templates")
}
