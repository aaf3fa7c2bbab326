package systems

import (
	"github.com/automoto/tilecollide/archetypes"
	"github.com/automoto/tilecollide/components"
	cfg "github.com/automoto/tilecollide/config"
	"github.com/automoto/tilecollide/shared/tileset"
	"github.com/yohamta/donburi/ecs"
)

// SetupProbe spawns the probe box in the middle of the level.
func SetupProbe(e *ecs.ECS, level *components.LevelData) *components.ProbeData {
	entry := archetypes.Probe.Spawn(e)
	probe := components.Probe.Get(entry)
	resetProbe(probe, level)
	return probe
}

func resetProbe(probe *components.ProbeData, level *components.LevelData) {
	w, h := cfg.Viewer.ProbeWidth, cfg.Viewer.ProbeHeight
	probe.Box = tileset.Rect{W: w, H: h}
	if level.World != nil {
		probe.Box.X = float64(level.World.Width)/2 - w/2
		probe.Box.Y = float64(level.World.Height)/2 - h/2
	}
	probe.HitX, probe.HitY = false, false
	probe.Touching = nil
}

// UpdateProbe moves the probe from input and resolves it against the
// collision space.
func UpdateProbe(e *ecs.ECS) {
	probeEntry, ok := components.Probe.First(e.World)
	if !ok {
		return
	}
	probe := components.Probe.Get(probeEntry)

	levelEntry, ok := components.Level.First(e.World)
	if !ok {
		return
	}
	level := components.Level.Get(levelEntry)
	if level.Space == nil {
		return
	}

	input := getOrCreateInput(e)
	if input.JustPressed(cfg.ActionResetProbe) {
		resetProbe(probe, level)
	}

	var dx, dy float64
	speed := cfg.Viewer.ProbeSpeed
	if input.Pressed(cfg.ActionMoveLeft) {
		dx -= speed
	}
	if input.Pressed(cfg.ActionMoveRight) {
		dx += speed
	}
	if input.Pressed(cfg.ActionMoveUp) {
		dy -= speed
	}
	if input.Pressed(cfg.ActionMoveDown) {
		dy += speed
	}

	if dx != 0 || dy != 0 {
		box, hitX, hitY := level.Space.Resolve(probe.Box, dx, dy)

		// Keep the probe inside the level.
		maxX := float64(level.World.Width) - box.W
		maxY := float64(level.World.Height) - box.H
		box.X = min(max(box.X, 0), maxX)
		box.Y = min(max(box.Y, 0), maxY)

		probe.Box = box
		probe.HitX, probe.HitY = hitX, hitY
	}

	grown := tileset.Rect{X: probe.Box.X - 1, Y: probe.Box.Y - 1, W: probe.Box.W + 2, H: probe.Box.H + 2}
	probe.Touching = level.Space.Query(grown)
}
