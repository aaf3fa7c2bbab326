// Package tileset parses Tiled tileset documents (.tsx) into immutable
// per-tile collision tables. It has no dependencies on ebitengine, donburi or
// resolv, pure data only.
package tileset

import (
	"image"
	"sort"
)

// Image is the source image a tileset slices its tiles from.
type Image struct {
	Source string
	Width  int
	Height int
}

// TileRecord holds the metadata declared for one tile.
type TileRecord struct {
	ID          uint32
	RenderOnTop bool   // composite after tiles without the flag, same layer
	Shapes      []Rect // tile-local, declaration order

	hasShapeGroup bool
}

// HasShapeGroup reports whether the document declared an objectgroup for the
// tile. An empty group and a missing group collide the same way.
func (r TileRecord) HasShapeGroup() bool {
	return r.hasShapeGroup
}

// Solid reports whether the tile has at least one collision shape.
func (r TileRecord) Solid() bool {
	return len(r.Shapes) > 0
}

// Stats summarises a loaded table.
type Stats struct {
	Records        int
	Shapes         int
	RenderOnTop    int
	SkippedObjects int
}

// Tileset is a loaded tileset document. It is immutable once returned by Load
// and safe for concurrent readers.
type Tileset struct {
	Name       string
	Image      Image
	TileWidth  int
	TileHeight int
	TileCount  int
	Columns    int
	Spacing    int
	Margin     int

	records []TileRecord
	index   map[uint32]int
	skipped int
}

// Rows is the number of tile rows in the source image.
func (ts *Tileset) Rows() int {
	if ts.Columns == 0 {
		return 0
	}
	return ts.TileCount / ts.Columns
}

// Position returns the grid column and row of id, row-major by Columns.
func (ts *Tileset) Position(id uint32) (col, row int) {
	return int(id) % ts.Columns, int(id) / ts.Columns
}

// SourceRect returns the pixel bounds of id inside the source image.
func (ts *Tileset) SourceRect(id uint32) image.Rectangle {
	col, row := ts.Position(id)
	x := ts.Margin + col*(ts.TileWidth+ts.Spacing)
	y := ts.Margin + row*(ts.TileHeight+ts.Spacing)
	return image.Rect(x, y, x+ts.TileWidth, y+ts.TileHeight)
}

// Lookup returns the record for id. Tiles without a declared record get the
// default record: no shapes and not rendered on top.
func (ts *Tileset) Lookup(id uint32) TileRecord {
	i, ok := ts.index[id]
	if !ok {
		return TileRecord{ID: id, Shapes: []Rect{}}
	}
	rec := ts.records[i]
	rec.Shapes = cloneRects(rec.Shapes)
	return rec
}

// Has reports whether id has a declared record.
func (ts *Tileset) Has(id uint32) bool {
	_, ok := ts.index[id]
	return ok
}

// Shapes returns the collision rectangles of id, empty for undeclared tiles.
func (ts *Tileset) Shapes(id uint32) []Rect {
	i, ok := ts.index[id]
	if !ok {
		return []Rect{}
	}
	return cloneRects(ts.records[i].Shapes)
}

// RenderOnTop returns the render-order flag of id.
func (ts *Tileset) RenderOnTop(id uint32) bool {
	i, ok := ts.index[id]
	return ok && ts.records[i].RenderOnTop
}

// Records returns every declared record in document order.
func (ts *Tileset) Records() []TileRecord {
	out := make([]TileRecord, len(ts.records))
	for i, rec := range ts.records {
		rec.Shapes = cloneRects(rec.Shapes)
		out[i] = rec
	}
	return out
}

// IDs returns the declared tile ids in ascending order.
func (ts *Tileset) IDs() []uint32 {
	ids := make([]uint32, 0, len(ts.records))
	for _, rec := range ts.records {
		ids = append(ids, rec.ID)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (ts *Tileset) Stats() Stats {
	s := Stats{Records: len(ts.records), SkippedObjects: ts.skipped}
	for _, rec := range ts.records {
		s.Shapes += len(rec.Shapes)
		if rec.RenderOnTop {
			s.RenderOnTop++
		}
	}
	return s
}

func cloneRects(rs []Rect) []Rect {
	out := make([]Rect, len(rs))
	copy(out, rs)
	return out
}
