//go:build dev

package ui

import (
	"io/fs"
	"os"
)

// Bundle returns the console bundle read from dir on the local
// filesystem. Dev builds skip embedding so a rebuilt bundle is picked up
// on the next process start; the registry is still populated exactly
// once per process.
func Bundle(dir string) (fs.FS, error) {
	if dir == "" {
		dir = DistDirectoryPath
	}
	if _, err := os.Stat(dir); err != nil {
		return nil, err
	}
	return os.DirFS(dir), nil
}
