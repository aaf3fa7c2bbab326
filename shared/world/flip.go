package world

import "github.com/automoto/tilecollide/shared/tileset"

// Flip holds the transform flags Tiled stores in a cell's gid.
type Flip struct {
	Horizontal bool
	Vertical   bool
	Diagonal   bool
}

// Apply maps a tile-local rectangle of a tw x th tile through the flip. The
// anti-diagonal flip is applied first, as Tiled does.
func (f Flip) Apply(r tileset.Rect, tw, th float64) tileset.Rect {
	if f.Diagonal {
		r = tileset.Rect{X: r.Y, Y: r.X, W: r.H, H: r.W}
		tw, th = th, tw
	}
	if f.Horizontal {
		r.X = tw - r.X - r.W
	}
	if f.Vertical {
		r.Y = th - r.Y - r.H
	}
	return r
}

func (f Flip) any() bool {
	return f.Horizontal || f.Vertical || f.Diagonal
}
