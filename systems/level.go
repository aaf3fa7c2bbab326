package systems

import (
	"fmt"

	"github.com/automoto/tilecollide/archetypes"
	"github.com/automoto/tilecollide/assets"
	"github.com/automoto/tilecollide/components"
	cfg "github.com/automoto/tilecollide/config"
	"github.com/automoto/tilecollide/shared/tileset"
	"github.com/automoto/tilecollide/shared/world"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/sirupsen/logrus"
	"github.com/yohamta/donburi/ecs"
)

// SetupLevel spawns the level entity and builds its first world: the map at
// mapPath when set, otherwise the tileset named start (or the first one).
// Tilesets sent on reloads are picked up by UpdateLevel.
func SetupLevel(e *ecs.ECS, catalog *assets.Catalog, reloads chan *tileset.Tileset, mapPath, start string) (*components.LevelData, error) {
	entry := archetypes.Level.Spawn(e)
	level := components.Level.Get(entry)
	level.Catalog = catalog
	level.MapPath = mapPath
	level.TilesetNames = catalog.Names()
	level.Sheets = make(map[string]*ebiten.Image)
	level.Reloads = reloads

	if len(level.TilesetNames) == 0 {
		return nil, fmt.Errorf("no tilesets in catalog")
	}
	for i, name := range level.TilesetNames {
		if name == start {
			level.TilesetIndex = i
		}
	}

	if err := rebuildLevel(level); err != nil {
		return nil, err
	}
	return level, nil
}

func rebuildLevel(level *components.LevelData) error {
	var (
		w   *world.World
		err error
	)
	if level.MapPath != "" {
		w, err = world.LoadMapFile(level.MapPath, level.Catalog)
		if err != nil {
			return err
		}
	} else {
		name := level.Current()
		ts, ok := level.Catalog.ByName(name)
		if !ok {
			return fmt.Errorf("tileset %q not in catalog", name)
		}
		w = world.FromTileset(ts)
	}

	level.World = w
	level.Space = w.Space(cfg.Viewer.CellSize)
	logrus.WithFields(logrus.Fields{
		"world":  w.Name,
		"shapes": level.Space.ShapeCount(),
	}).Debug("level built")
	return nil
}

// UpdateLevel applies hot-reloaded tilesets and cycles tilesets in sheet mode.
func UpdateLevel(e *ecs.ECS) {
	levelEntry, ok := components.Level.First(e.World)
	if !ok {
		return
	}
	level := components.Level.Get(levelEntry)

	rebuild, moved := false, false
	for draining := true; draining; {
		select {
		case ts := <-level.Reloads:
			if sheet, ok := level.Sheets[ts.Name]; ok {
				sheet.Deallocate()
				delete(level.Sheets, ts.Name)
			}
			if level.MapPath != "" || ts.Name == level.Current() {
				rebuild = true
			}
			level.TilesetNames = level.Catalog.Names()
		default:
			draining = false
		}
	}

	if level.MapPath == "" && len(level.TilesetNames) > 1 {
		input := getOrCreateInput(e)
		step := 0
		if input.JustPressed(cfg.ActionNextTileset) {
			step = 1
		} else if input.JustPressed(cfg.ActionPrevTileset) {
			step = -1
		}
		if step != 0 {
			n := len(level.TilesetNames)
			level.TilesetIndex = (level.TilesetIndex + step + n) % n
			rebuild, moved = true, true

			if entry, ok := components.Settings.First(e.World); ok {
				settings := components.Settings.Get(entry)
				settings.Tileset = level.Current()
				settings.Dirty = true
			}
		}
	}
	if level.TilesetIndex >= len(level.TilesetNames) {
		level.TilesetIndex = 0
		rebuild = true
	}

	if rebuild {
		if err := rebuildLevel(level); err != nil {
			logrus.WithError(err).Warn("could not rebuild level, keeping the current one")
		}
	}
	if moved {
		if entry, ok := components.Probe.First(e.World); ok {
			resetProbe(components.Probe.Get(entry), level)
		}
	}
}
