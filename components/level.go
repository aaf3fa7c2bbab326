package components

import (
	"github.com/automoto/tilecollide/assets"
	"github.com/automoto/tilecollide/shared/collision"
	"github.com/automoto/tilecollide/shared/tileset"
	"github.com/automoto/tilecollide/shared/world"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/yohamta/donburi"
)

type LevelData struct {
	Catalog *assets.Catalog
	World   *world.World
	Space   *collision.Space

	// Sheet mode shows one tileset at a time; map mode shows MapPath.
	MapPath      string
	TilesetNames []string
	TilesetIndex int

	// Tileset images by tileset name, dropped when the tileset reloads.
	Sheets map[string]*ebiten.Image

	// Reloaded tables pushed by the catalog watcher goroutine.
	Reloads chan *tileset.Tileset
}

// Current returns the name of the tileset shown in sheet mode.
func (l *LevelData) Current() string {
	if len(l.TilesetNames) == 0 {
		return ""
	}
	return l.TilesetNames[l.TilesetIndex]
}

var Level = donburi.NewComponentType[LevelData]()
