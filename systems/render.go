package systems

import (
	"math"

	"github.com/automoto/tilecollide/components"
	cfg "github.com/automoto/tilecollide/config"
	"github.com/automoto/tilecollide/shared/tileset"
	"github.com/automoto/tilecollide/shared/world"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/yohamta/donburi/ecs"
)

var (
	drawOp = &ebiten.DrawImageOptions{}
)

// DrawLevel renders the base pass of every layer: the tiles drawn beneath the
// probe.
func DrawLevel(e *ecs.ECS, screen *ebiten.Image) {
	drawPass(e, screen, false)
}

// DrawLevelTop renders the render-on-top pass of every layer, over the probe.
func DrawLevelTop(e *ecs.ECS, screen *ebiten.Image) {
	drawPass(e, screen, true)
}

func drawPass(e *ecs.ECS, screen *ebiten.Image, top bool) {
	cameraEntry, ok := components.Camera.First(e.World)
	if !ok {
		return // No camera yet
	}
	camera := components.Camera.Get(cameraEntry)

	levelEntry, ok := components.Level.First(e.World)
	if !ok {
		return
	}
	level := components.Level.Get(levelEntry)
	if level.World == nil {
		return
	}

	geom := cameraGeoM(camera, screen)
	minX, minY, maxX, maxY := viewBounds(camera, screen)
	w := level.World

	tilesets := make(map[string]*tileset.Tileset)
	for li := range w.Layers {
		base, onTop := w.Passes(li)
		cells := base
		if top {
			cells = onTop
		}

		for _, c := range cells {
			ts, ok := tilesets[c.Tileset]
			if !ok {
				ts, ok = level.Catalog.ByName(c.Tileset)
				if !ok {
					continue
				}
				tilesets[c.Tileset] = ts
			}

			tw, th := float64(ts.TileWidth), float64(ts.TileHeight)
			x := float64(c.X * w.TileWidth)
			y := float64((c.Y+1)*w.TileHeight) - th

			// Viewport culling
			if x+tw < minX || x > maxX || y+th < minY || y > maxY {
				continue
			}

			sheet := sheetFor(level, ts)
			src := sheet.SubImage(ts.SourceRect(c.TileID)).(*ebiten.Image)

			drawOp.GeoM.Reset()
			applyFlip(&drawOp.GeoM, c.Flip, tw, th)
			drawOp.GeoM.Translate(x, y)
			drawOp.GeoM.Concat(geom)
			screen.DrawImage(src, drawOp)
		}
	}
}

// applyFlip flips a tw x th tile in place. The anti-diagonal flip comes
// first, as Tiled applies it.
func applyFlip(g *ebiten.GeoM, f world.Flip, tw, th float64) {
	if f == (world.Flip{}) {
		return
	}
	g.Translate(-tw/2, -th/2)
	w, h := tw, th
	if f.Diagonal {
		g.Rotate(math.Pi / 2)
		g.Scale(-1, 1)
		w, h = th, tw
	}
	if f.Horizontal {
		g.Scale(-1, 1)
	}
	if f.Vertical {
		g.Scale(1, -1)
	}
	g.Translate(w/2, h/2)
}

// DrawProbe renders the probe box between the two tile passes.
func DrawProbe(e *ecs.ECS, screen *ebiten.Image) {
	cameraEntry, ok := components.Camera.First(e.World)
	if !ok {
		return
	}
	camera := components.Camera.Get(cameraEntry)

	probeEntry, ok := components.Probe.First(e.World)
	if !ok {
		return
	}
	probe := components.Probe.Get(probeEntry)

	c := cfg.UI.ProbeColor
	if probe.HitX || probe.HitY {
		c = cfg.UI.ProbeHitColor
	}
	x, y, w, h := worldToScreen(camera, screen, probe.Box)
	vector.FillRect(screen, x, y, w, h, c, false)
}

func worldToScreen(camera *components.CameraData, screen *ebiten.Image, r tileset.Rect) (x, y, w, h float32) {
	geom := cameraGeoM(camera, screen)
	sx, sy := geom.Apply(r.X, r.Y)
	zoom := camera.Zoom
	if zoom == 0 {
		zoom = 1.0
	}
	return float32(sx), float32(sy), float32(r.W * zoom), float32(r.H * zoom)
}
