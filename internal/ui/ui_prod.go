//go:build !dev

package ui

import (
	"embed"
	"io/fs"
)

//go:embed all:dist
var distFS embed.FS

// Bundle returns the console bundle embedded in the binary. The dir
// argument is only meaningful in dev builds and is ignored here.
func Bundle(dir string) (fs.FS, error) {
	_ = dir
	return fs.Sub(distFS, "dist")
}
