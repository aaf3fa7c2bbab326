package systems

import (
	"image/color"

	"github.com/automoto/tilecollide/components"
	cfg "github.com/automoto/tilecollide/config"
	"github.com/automoto/tilecollide/shared/tileset"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/yohamta/donburi/ecs"
)

// DrawCollision outlines every collision shape of the level. Shapes of
// render-on-top cells get their own color and the ones touching the probe
// the hit color.
func DrawCollision(e *ecs.ECS, screen *ebiten.Image) {
	settings, ok := currentSettings(e)
	if !ok {
		return
	}

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
	if level.Space == nil {
		return
	}

	if settings.ShowGrid {
		drawGrid(screen, camera, level)
	}
	if !settings.ShowCollision {
		return
	}

	top := make(map[tileset.Rect]bool, len(level.World.TopRects))
	for _, r := range level.World.TopRects {
		top[r] = true
	}

	minX, minY, maxX, maxY := viewBounds(camera, screen)
	for _, r := range level.Space.Rects() {
		// Cull shapes outside viewport
		if r.X+r.W < minX || r.X > maxX || r.Y+r.H < minY || r.Y > maxY {
			continue
		}
		c := cfg.UI.ShapeColor
		if top[r] {
			c = cfg.UI.TopShapeColor
		}
		outline(screen, camera, r, c)
	}

	if probeEntry, ok := components.Probe.First(e.World); ok {
		for _, r := range components.Probe.Get(probeEntry).Touching {
			outline(screen, camera, r, cfg.UI.ProbeHitColor)
		}
	}
}

func outline(screen *ebiten.Image, camera *components.CameraData, r tileset.Rect, c color.Color) {
	x, y, w, h := worldToScreen(camera, screen, r)
	vector.FillRect(screen, x, y, w, 1, c, false)     // Top
	vector.FillRect(screen, x, y+h-1, w, 1, c, false) // Bottom
	vector.FillRect(screen, x, y, 1, h, c, false)     // Left
	vector.FillRect(screen, x+w-1, y, 1, h, c, false) // Right
}

func drawGrid(screen *ebiten.Image, camera *components.CameraData, level *components.LevelData) {
	w := level.World
	if w.TileWidth <= 0 || w.TileHeight <= 0 {
		return
	}
	c := cfg.UI.GridColor
	for gx := 0; gx <= w.Width; gx += w.TileWidth {
		x, y, _, h := worldToScreen(camera, screen, tileset.Rect{X: float64(gx), W: 1, H: float64(w.Height)})
		vector.FillRect(screen, x, y, 1, h, c, false)
	}
	for gy := 0; gy <= w.Height; gy += w.TileHeight {
		x, y, wd, _ := worldToScreen(camera, screen, tileset.Rect{Y: float64(gy), W: float64(w.Width), H: 1})
		vector.FillRect(screen, x, y, wd, 1, c, false)
	}
}

func currentSettings(e *ecs.ECS) (*components.SettingsData, bool) {
	entry, ok := components.Settings.First(e.World)
	if !ok {
		return nil, false
	}
	return components.Settings.Get(entry), true
}
