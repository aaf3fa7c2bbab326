package components

import (
	"github.com/automoto/tilecollide/shared/tileset"
	"github.com/yohamta/donburi"
)

// ProbeData is the box moved around the level to exercise collision queries.
type ProbeData struct {
	Box        tileset.Rect
	HitX, HitY bool
	Touching   []tileset.Rect // shapes overlapping the box grown by one pixel
}

var Probe = donburi.NewComponentType[ProbeData]()
