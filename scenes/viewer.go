package scenes

import (
	"image/color"
	"sync"

	"github.com/automoto/tilecollide/archetypes"
	"github.com/automoto/tilecollide/assets"
	cfg "github.com/automoto/tilecollide/config"
	"github.com/automoto/tilecollide/shared/tileset"
	"github.com/automoto/tilecollide/systems"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/sirupsen/logrus"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"
)

// ViewerScene shows a tileset sheet or a map with its collision shapes.
type ViewerScene struct {
	ecs     *ecs.ECS
	catalog *assets.Catalog
	saved   *systems.SavedSettings
	reloads chan *tileset.Tileset
	once    sync.Once
	err     error
}

func NewViewerScene(catalog *assets.Catalog, saved *systems.SavedSettings) *ViewerScene {
	return &ViewerScene{
		catalog: catalog,
		saved:   saved,
		reloads: make(chan *tileset.Tileset, 8),
	}
}

// Update runs one tick. It returns the setup error, if any, so the game
// loop can stop.
func (vs *ViewerScene) Update() error {
	vs.once.Do(vs.configure)
	if vs.err != nil {
		return vs.err
	}
	vs.ecs.Update()
	return nil
}

func (vs *ViewerScene) Draw(screen *ebiten.Image) {
	// Always clear screen to prevent white flashes from OS window background
	screen.Fill(color.Black)

	if vs.ecs == nil || vs.err != nil {
		return
	}
	vs.ecs.Draw(screen)
}

// OnReload queues a reloaded tileset for the level. It is safe to call from
// the catalog watcher goroutine.
func (vs *ViewerScene) OnReload(ts *tileset.Tileset) {
	select {
	case vs.reloads <- ts:
	default:
		logrus.WithField("tileset", ts.Name).Warn("reload queue full, dropping reload")
	}
}

func (vs *ViewerScene) configure() {
	ecs := ecs.NewECS(donburi.NewWorld())

	// Input first, everything else reads it
	ecs.AddSystem(systems.UpdateInput)
	ecs.AddSystem(systems.UpdateLevel)
	ecs.AddSystem(systems.UpdateProbe)
	ecs.AddSystem(systems.UpdateCamera)
	ecs.AddSystem(systems.UpdateSettings)

	// Add renderers
	ecs.AddRenderer(archetypes.LayerDefault, systems.DrawLevel)
	ecs.AddRenderer(archetypes.LayerDefault, systems.DrawProbe)
	ecs.AddRenderer(archetypes.LayerDefault, systems.DrawLevelTop)
	ecs.AddRenderer(archetypes.LayerDefault, systems.DrawCollision)
	ecs.AddRenderer(archetypes.LayerDefault, systems.DrawHUD)

	settings := systems.SetupSettings(ecs, vs.saved)
	level, err := systems.SetupLevel(ecs, vs.catalog, vs.reloads, cfg.Viewer.Map, settings.Tileset)
	if err != nil {
		vs.err = err
		return
	}
	probe := systems.SetupProbe(ecs, level)
	systems.SetupCamera(ecs, probe, settings.Zoom)

	vs.ecs = ecs
}
