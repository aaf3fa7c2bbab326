// Package collision answers overlap queries against world-space collision
// rectangles. A resolv space is the broad phase; candidates are confirmed with
// exact rectangle tests.
package collision

import (
	"math"
	"sort"

	"github.com/automoto/tilecollide/shared/tileset"
	"github.com/solarlune/resolv"
)

const tagSolid = "solid"

// Space holds the static collision rectangles of a world. Queries add and
// remove a probe object, so a Space must not be queried from several
// goroutines at once.
type Space struct {
	space   *resolv.Space
	rects   []tileset.Rect
	originX float64
	originY float64
}

// NewSpace indexes rects for a world of the given pixel size. The space is
// padded by one cell on every side so shapes bleeding past the world edge are
// still found.
func NewSpace(width, height float64, cellSize int, rects []tileset.Rect) *Space {
	if cellSize <= 0 {
		cellSize = 16
	}
	cell := float64(cellSize)

	minX, minY, maxX, maxY := 0.0, 0.0, width, height
	for _, r := range rects {
		minX = math.Min(minX, r.X)
		minY = math.Min(minY, r.Y)
		maxX = math.Max(maxX, r.X+r.W)
		maxY = math.Max(maxY, r.Y+r.H)
	}

	originX := math.Floor(minX) - cell
	originY := math.Floor(minY) - cell
	spaceW := int(math.Ceil(maxX-originX)) + cellSize
	spaceH := int(math.Ceil(maxY-originY)) + cellSize

	s := &Space{
		space:   resolv.NewSpace(spaceW, spaceH, cellSize, cellSize),
		rects:   make([]tileset.Rect, 0, len(rects)),
		originX: originX,
		originY: originY,
	}

	for _, r := range rects {
		if r.Empty() {
			continue
		}
		obj := s.broadObject(r, tagSolid)
		obj.Data = len(s.rects)
		s.rects = append(s.rects, r)
		s.space.Add(obj)
	}
	return s
}

// broadObject builds a resolv object covering r on whole pixels with a one
// pixel margin, so the broad phase never misses a fractional shape.
func (s *Space) broadObject(r tileset.Rect, tags ...string) *resolv.Object {
	x := math.Floor(r.X-s.originX) - 1
	y := math.Floor(r.Y-s.originY) - 1
	w := math.Ceil(r.X+r.W-s.originX) + 1 - x
	h := math.Ceil(r.Y+r.H-s.originY) + 1 - y
	return resolv.NewObject(x, y, w, h, tags...)
}

// ShapeCount returns the number of indexed rectangles. Empty rectangles are
// not indexed.
func (s *Space) ShapeCount() int {
	return len(s.rects)
}

// Rects returns the indexed rectangles in insertion order.
func (s *Space) Rects() []tileset.Rect {
	out := make([]tileset.Rect, len(s.rects))
	copy(out, s.rects)
	return out
}

// Query returns every indexed rectangle overlapping r, in insertion order.
func (s *Space) Query(r tileset.Rect) []tileset.Rect {
	var hits []tileset.Rect
	for _, i := range s.candidates(r) {
		if s.rects[i].Overlaps(r) {
			hits = append(hits, s.rects[i])
		}
	}
	return hits
}

// TestRect reports whether r overlaps any rectangle.
func (s *Space) TestRect(r tileset.Rect) bool {
	for _, i := range s.candidates(r) {
		if s.rects[i].Overlaps(r) {
			return true
		}
	}
	return false
}

// TestPoint reports whether the point lies inside any rectangle, edges
// included.
func (s *Space) TestPoint(x, y float64) bool {
	for _, i := range s.candidates(tileset.Rect{X: x, Y: y}) {
		if s.rects[i].Contains(x, y) {
			return true
		}
	}
	return false
}

// candidates returns the indexes of rectangles sharing a cell with r, sorted
// by insertion order.
func (s *Space) candidates(r tileset.Rect) []int {
	query := s.broadObject(r)
	s.space.Add(query)
	defer s.space.Remove(query)

	check := query.Check(0, 0, tagSolid)
	if check == nil {
		return nil
	}

	seen := make(map[int]bool)
	var idx []int
	for _, obj := range check.ObjectsByTags(tagSolid) {
		i, ok := obj.Data.(int)
		if !ok || seen[i] {
			continue
		}
		seen[i] = true
		idx = append(idx, i)
	}
	sort.Ints(idx)
	return idx
}
