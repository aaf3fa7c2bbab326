// Package world places tileset collision tables on a grid: either a Tiled map
// (.tmx) or a tileset laid out as a sheet. The result holds world-space
// collision rectangles and the per-layer cells in compositing order.
package world

import (
	"math"
	"sort"

	"github.com/automoto/tilecollide/shared/collision"
	"github.com/automoto/tilecollide/shared/tileset"
)

// Cell is one placed tile.
type Cell struct {
	Layer       int
	X, Y        int // grid position
	Tileset     string
	TileID      uint32
	RenderOnTop bool
	Flip        Flip
}

type Layer struct {
	Name  string
	Cells []Cell
}

// World is a placed grid of tiles and the collision shapes they carry.
type World struct {
	Name       string
	Width      int // pixels
	Height     int
	TileWidth  int
	TileHeight int
	Layers     []Layer
	Rects      []tileset.Rect
	TopRects   []tileset.Rect // subset of Rects carried by render-on-top cells
}

// FromTileset lays every tile of ts out at its own grid position.
func FromTileset(ts *tileset.Tileset) *World {
	w := &World{
		Name:       ts.Name,
		Width:      ts.Columns * ts.TileWidth,
		Height:     ts.Rows() * ts.TileHeight,
		TileWidth:  ts.TileWidth,
		TileHeight: ts.TileHeight,
	}

	layer := Layer{Name: "sheet", Cells: make([]Cell, 0, ts.TileCount)}
	for i := 0; i < ts.TileCount; i++ {
		id := uint32(i)
		col, row := ts.Position(id)
		rec := ts.Lookup(id)
		layer.Cells = append(layer.Cells, Cell{
			X:           col,
			Y:           row,
			Tileset:     ts.Name,
			TileID:      id,
			RenderOnTop: rec.RenderOnTop,
		})
		ox := float64(col * ts.TileWidth)
		oy := float64(row * ts.TileHeight)
		for _, r := range rec.Shapes {
			w.addRect(r.Offset(ox, oy), rec.RenderOnTop)
		}
	}
	w.Layers = append(w.Layers, layer)
	return w
}

func (w *World) addRect(r tileset.Rect, onTop bool) {
	w.Rects = append(w.Rects, r)
	if onTop {
		w.TopRects = append(w.TopRects, r)
	}
}

// Passes splits a layer into its two compositing passes. Cells flagged
// render-on-top go in the second pass; each pass keeps the layer's order.
func (w *World) Passes(layer int) (base, top []Cell) {
	if layer < 0 || layer >= len(w.Layers) {
		return nil, nil
	}
	cells := make([]Cell, len(w.Layers[layer].Cells))
	copy(cells, w.Layers[layer].Cells)
	sort.SliceStable(cells, func(i, j int) bool {
		return !cells[i].RenderOnTop && cells[j].RenderOnTop
	})

	split := sort.Search(len(cells), func(i int) bool { return cells[i].RenderOnTop })
	return cells[:split], cells[split:]
}

// Space indexes the world's rectangles for overlap queries.
func (w *World) Space(cellSize int) *collision.Space {
	return collision.NewSpace(float64(w.Width), float64(w.Height), cellSize, w.Rects)
}

// CellsAt returns the cells at grid position (x, y), bottom layer first.
func (w *World) CellsAt(x, y int) []Cell {
	var out []Cell
	for _, l := range w.Layers {
		for _, c := range l.Cells {
			if c.X == x && c.Y == y {
				out = append(out, c)
			}
		}
	}
	return out
}

// GridAt converts a world position to the grid cell containing it.
func (w *World) GridAt(px, py float64) (x, y int) {
	return int(math.Floor(px / float64(w.TileWidth))), int(math.Floor(py / float64(w.TileHeight)))
}
