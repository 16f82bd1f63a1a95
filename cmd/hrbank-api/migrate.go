package main

import (
	"io/fs"
	"os"

	"github.com/edvin/hrbank/migrations"
)

// migrationSource returns the embedded migrations unless a directory on
// disk is given.
func migrationSource(dir string) (fs.FS, string) {
	if dir == "" {
		return migrations.FS, "."
	}
	return os.DirFS(dir), "."
}
