package systems

import (
	"math"

	"github.com/automoto/tilecollide/archetypes"
	"github.com/automoto/tilecollide/components"
	cfg "github.com/automoto/tilecollide/config"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
	"github.com/yohamta/donburi/ecs"
	dmath "github.com/yohamta/donburi/features/math"
)

// SetupCamera spawns the camera centred on the probe.
func SetupCamera(e *ecs.ECS, probe *components.ProbeData, zoom float64) *components.CameraData {
	entry := archetypes.Camera.Spawn(e)
	camera := components.Camera.Get(entry)
	camera.Position = probeCenter(probe)
	camera.Target = camera.Position
	camera.Zoom = zoom
	return camera
}

func probeCenter(probe *components.ProbeData) dmath.Vec2 {
	return dmath.Vec2{
		X: probe.Box.X + probe.Box.W/2,
		Y: probe.Box.Y + probe.Box.H/2,
	}
}

// UpdateCamera eases the camera toward the probe and applies zoom input.
func UpdateCamera(e *ecs.ECS) {
	cameraEntry, ok := components.Camera.First(e.World)
	if !ok {
		return
	}
	camera := components.Camera.Get(cameraEntry)

	input := getOrCreateInput(e)
	zoom := camera.Zoom
	if input.JustPressed(cfg.ActionZoomIn) {
		zoom = math.Min(zoom+cfg.Viewer.ZoomStep, cfg.Viewer.MaxZoom)
	}
	if input.JustPressed(cfg.ActionZoomOut) {
		zoom = math.Max(zoom-cfg.Viewer.ZoomStep, cfg.Viewer.MinZoom)
	}
	if zoom != camera.Zoom {
		camera.Zoom = zoom
		if entry, ok := components.Settings.First(e.World); ok {
			settings := components.Settings.Get(entry)
			settings.Zoom = zoom
			settings.Dirty = true
		}
	}

	probeEntry, ok := components.Probe.First(e.World)
	if !ok {
		return
	}
	target := probeCenter(components.Probe.Get(probeEntry))

	// Retarget the tweens whenever the probe has moved.
	if math.Abs(target.X-camera.Target.X) > 0.01 || math.Abs(target.Y-camera.Target.Y) > 0.01 {
		d := cfg.Viewer.CameraTweenSeconds
		camera.TweenX = gween.New(float32(camera.Position.X), float32(target.X), d, ease.OutQuad)
		camera.TweenY = gween.New(float32(camera.Position.Y), float32(target.Y), d, ease.OutQuad)
		camera.Target = target
	}

	dt := float32(1.0 / float64(ebiten.TPS()))
	if camera.TweenX != nil {
		x, done := camera.TweenX.Update(dt)
		camera.Position.X = float64(x)
		if done {
			camera.TweenX = nil
		}
	}
	if camera.TweenY != nil {
		y, done := camera.TweenY.Update(dt)
		camera.Position.Y = float64(y)
		if done {
			camera.TweenY = nil
		}
	}
}

// cameraGeoM maps world coordinates to screen coordinates.
func cameraGeoM(camera *components.CameraData, screen *ebiten.Image) ebiten.GeoM {
	width, height := screen.Bounds().Dx(), screen.Bounds().Dy()

	// Safety check for zero zoom
	zoom := camera.Zoom
	if zoom == 0 {
		zoom = 1.0
	}

	var g ebiten.GeoM
	g.Translate(-camera.Position.X, -camera.Position.Y)
	g.Scale(zoom, zoom)
	g.Translate(float64(width)/2, float64(height)/2)
	return g
}

// viewBounds returns the world rectangle visible on screen.
func viewBounds(camera *components.CameraData, screen *ebiten.Image) (minX, minY, maxX, maxY float64) {
	zoom := camera.Zoom
	if zoom == 0 {
		zoom = 1.0
	}
	halfW := float64(screen.Bounds().Dx()) / 2 / zoom
	halfH := float64(screen.Bounds().Dy()) / 2 / zoom
	return camera.Position.X - halfW, camera.Position.Y - halfH, camera.Position.X + halfW, camera.Position.Y + halfH
}
