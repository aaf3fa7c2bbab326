// Package assets embeds the project tilesets and keeps their parsed collision
// tables in a cache that can be reloaded from disk while the viewer runs.
package assets

import (
	"embed"
	"io/fs"
)

// TilesetDir is the directory of the embedded tilesets inside Tilesets.
const TilesetDir = "tilesets"

var (
	//go:embed all:tilesets
	tilesetFS embed.FS
)

// Tilesets returns the embedded tileset filesystem.
func Tilesets() fs.FS {
	return tilesetFS
}
