package systems

import (
	"fmt"

	"github.com/automoto/tilecollide/components"
	cfg "github.com/automoto/tilecollide/config"
	"github.com/automoto/tilecollide/fonts"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text" //nolint:staticcheck // TODO: migrate to text/v2
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/yohamta/donburi/ecs"
)

// DrawHUD renders the current tileset, probe state and the tile under the
// probe in the top-left corner.
func DrawHUD(e *ecs.ECS, screen *ebiten.Image) {
	levelEntry, ok := components.Level.First(e.World)
	if !ok {
		return
	}
	level := components.Level.Get(levelEntry)
	if level.World == nil {
		return
	}

	lines := make([]string, 0, 4)
	if level.MapPath != "" {
		lines = append(lines, fmt.Sprintf("map %s", level.MapPath))
	} else {
		lines = append(lines, fmt.Sprintf("%s (%d/%d)", level.Current(), level.TilesetIndex+1, len(level.TilesetNames)))
	}

	if probeEntry, ok := components.Probe.First(e.World); ok {
		probe := components.Probe.Get(probeEntry)
		lines = append(lines, fmt.Sprintf("probe %.1f,%.1f  hit x:%t y:%t  touching %d",
			probe.Box.X, probe.Box.Y, probe.HitX, probe.HitY, len(probe.Touching)))

		gx, gy := level.World.GridAt(probe.Box.X+probe.Box.W/2, probe.Box.Y+probe.Box.H/2)
		cells := level.World.CellsAt(gx, gy)
		if len(cells) == 0 {
			lines = append(lines, fmt.Sprintf("cell %d,%d  empty", gx, gy))
		}
		for _, c := range cells {
			lines = append(lines, describeCell(level, c.Tileset, c.TileID, gx, gy, c.RenderOnTop))
		}
	}
	lines = append(lines, fmt.Sprintf("shapes %d", level.Space.ShapeCount()))
	help := "[F1] collision [G] grid [Tab] tileset [+/-] zoom [R] reset"

	face := fonts.HUD.Get()
	small := fonts.HUDSmall.Get()
	lineHeight := face.Metrics().Height.Ceil()
	smallHeight := small.Metrics().Height.Ceil()
	margin := cfg.UI.HUDMargin

	panelHeight := float64(lineHeight*len(lines)+smallHeight) + margin*2
	vector.FillRect(screen, 0, 0, float32(screen.Bounds().Dx()), float32(panelHeight), cfg.UI.HUDTextBgColor, false)
	for i, line := range lines {
		y := int(margin) + lineHeight*(i+1) - 2
		text.Draw(screen, line, face, int(margin), y, cfg.UI.HUDTextColor)
	}
	text.Draw(screen, help, small, int(margin), int(margin)+lineHeight*len(lines)+smallHeight-2, cfg.UI.HUDTextColor)
}

func describeCell(level *components.LevelData, name string, id uint32, gx, gy int, onTop bool) string {
	shapes := 0
	if ts, ok := level.Catalog.ByName(name); ok {
		shapes = len(ts.Shapes(id))
	}
	s := fmt.Sprintf("cell %d,%d  %s #%d  shapes %d", gx, gy, name, id, shapes)
	if onTop {
		s += "  on-top"
	}
	return s
}
