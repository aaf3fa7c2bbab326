package collision

import "github.com/automoto/tilecollide/shared/tileset"

// Resolve moves box by dx then dy, stopping flush against the first solid
// rectangle on each axis. Rectangles box already overlaps are ignored so a
// box spawned inside geometry can move out of it.
func (s *Space) Resolve(box tileset.Rect, dx, dy float64) (moved tileset.Rect, hitX, hitY bool) {
	moved = box
	moved, hitX = s.sweep(moved, dx, true)
	moved, hitY = s.sweep(moved, dy, false)
	return moved, hitX, hitY
}

func (s *Space) sweep(box tileset.Rect, d float64, horizontal bool) (tileset.Rect, bool) {
	if d == 0 {
		return box, false
	}

	start := make(map[tileset.Rect]bool)
	for _, r := range s.Query(box) {
		start[r] = true
	}

	next := box
	swept := box
	if horizontal {
		next.X += d
		swept.X = min(box.X, next.X)
		swept.W = box.W + abs(d)
	} else {
		next.Y += d
		swept.Y = min(box.Y, next.Y)
		swept.H = box.H + abs(d)
	}

	// Everything in the swept area that box did not start in lies ahead of
	// it on the moving axis.
	hit := false
	for _, r := range s.Query(swept) {
		if start[r] {
			continue
		}
		hit = true
		switch {
		case horizontal && d > 0:
			next.X = min(next.X, r.X-box.W)
		case horizontal && d < 0:
			next.X = max(next.X, r.X+r.W)
		case !horizontal && d > 0:
			next.Y = min(next.Y, r.Y-box.H)
		default:
			next.Y = max(next.Y, r.Y+r.H)
		}
	}
	return next, hit
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
