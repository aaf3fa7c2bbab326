package world

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/automoto/tilecollide/shared/tileset"
	"github.com/lafriks/go-tiled"
)

var ErrUnknownTileset = errors.New("unknown tileset")

// TilesetLookup resolves the collision table of a tileset by name.
type TilesetLookup interface {
	ByName(name string) (*tileset.Tileset, bool)
}

// LoadMapFile loads a TMX map from a path on disk, absolute or relative to
// the working directory. The map is read through a filesystem rooted at the
// volume root so relative tileset sources such as ../tilesets/a.tsx resolve.
func LoadMapFile(tmxPath string, lookup TilesetLookup) (*World, error) {
	fsys, rel, err := rootedPath(tmxPath)
	if err != nil {
		return nil, fmt.Errorf("load TMX %s: %w", tmxPath, err)
	}
	return LoadMap(fsys, rel, lookup)
}

// rootedPath splits p into a filesystem at its volume root and the
// slash-separated path of p inside it.
func rootedPath(p string) (fs.FS, string, error) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return nil, "", err
	}
	vol := filepath.VolumeName(abs)
	rel := strings.TrimLeft(filepath.ToSlash(abs[len(vol):]), "/")
	return os.DirFS(vol + string(filepath.Separator)), rel, nil
}

// LoadMap parses a TMX map and places the collision shapes of every tile of
// every tile layer in world space. It takes an fs.FS so callers can pass
// embed.FS or os.DirFS.
func LoadMap(fsys fs.FS, tmxPath string, lookup TilesetLookup) (*World, error) {
	levelMap, err := tiled.LoadFile(tmxPath, tiled.WithFileSystem(fsys))
	if err != nil {
		return nil, fmt.Errorf("load TMX %s: %w", tmxPath, err)
	}

	w := &World{
		Name:       tmxPath,
		Width:      levelMap.Width * levelMap.TileWidth,
		Height:     levelMap.Height * levelMap.TileHeight,
		TileWidth:  levelMap.TileWidth,
		TileHeight: levelMap.TileHeight,
	}

	mapTileH := float64(levelMap.TileHeight)
	mapTileW := float64(levelMap.TileWidth)
	for li, layer := range levelMap.Layers {
		out := Layer{Name: layer.Name}
		for y := 0; y < levelMap.Height; y++ {
			for x := 0; x < levelMap.Width; x++ {
				i := y*levelMap.Width + x
				if i >= len(layer.Tiles) {
					continue
				}
				tile := layer.Tiles[i]
				if tile.IsNil() {
					continue
				}

				ts, ok := lookup.ByName(tile.Tileset.Name)
				if !ok {
					return nil, fmt.Errorf("load TMX %s: layer %q: %w %q", tmxPath, layer.Name, ErrUnknownTileset, tile.Tileset.Name)
				}

				rec := ts.Lookup(tile.ID)
				flip := Flip{
					Horizontal: tile.HorizontalFlip,
					Vertical:   tile.VerticalFlip,
					Diagonal:   tile.DiagonalFlip,
				}
				out.Cells = append(out.Cells, Cell{
					Layer:       li,
					X:           x,
					Y:           y,
					Tileset:     ts.Name,
					TileID:      tile.ID,
					RenderOnTop: rec.RenderOnTop,
					Flip:        flip,
				})

				// Tiles taller than the map grid are drawn bottom-aligned.
				tw, th := float64(ts.TileWidth), float64(ts.TileHeight)
				ox := float64(x) * mapTileW
				oy := float64(y+1)*mapTileH - th
				for _, r := range rec.Shapes {
					if flip.any() {
						r = flip.Apply(r, tw, th)
					}
					w.addRect(r.Offset(ox, oy), rec.RenderOnTop)
				}
			}
		}
		w.Layers = append(w.Layers, out)
	}

	return w, nil
}
