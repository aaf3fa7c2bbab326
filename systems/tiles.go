package systems

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/automoto/tilecollide/components"
	cfg "github.com/automoto/tilecollide/config"
	"github.com/automoto/tilecollide/shared/tileset"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/sirupsen/logrus"
)

var errNoImageDir = errors.New("no tileset directory configured")

// sheetFor returns the source image of ts, loading it on first use. Tilesets
// whose image cannot be read get a placeholder sheet of flat tiles.
func sheetFor(level *components.LevelData, ts *tileset.Tileset) *ebiten.Image {
	if img, ok := level.Sheets[ts.Name]; ok {
		return img
	}

	img, err := loadSheetImage(ts)
	if err != nil {
		logrus.WithError(err).WithField("tileset", ts.Name).Debug("tileset image unavailable, drawing placeholders")
		img = placeholderSheet(ts)
	}
	level.Sheets[ts.Name] = img
	return img
}

// loadSheetImage reads the image referenced by the tileset, relative to the
// on-disk tileset directory.
func loadSheetImage(ts *tileset.Tileset) (*ebiten.Image, error) {
	if cfg.Viewer.TilesetDir == "" {
		return nil, errNoImageDir
	}

	f, err := os.Open(filepath.Join(cfg.Viewer.TilesetDir, filepath.FromSlash(ts.Image.Source)))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := ebitenutil.NewImageFromReader(f)
	if err != nil {
		return nil, err
	}
	return img, nil
}

func placeholderSheet(ts *tileset.Tileset) *ebiten.Image {
	width, height := ts.Image.Width, ts.Image.Height
	if width <= 0 || height <= 0 {
		width = ts.Margin*2 + ts.Columns*ts.TileWidth + (ts.Columns-1)*ts.Spacing
		height = ts.Margin*2 + ts.Rows()*ts.TileHeight + (ts.Rows()-1)*ts.Spacing
	}
	img := ebiten.NewImage(width, height)

	colors := cfg.UI.FallbackColors
	for i := 0; i < ts.TileCount; i++ {
		id := uint32(i)
		col, row := ts.Position(id)
		c := colors[(col+row)%len(colors)]
		if !ts.Lookup(id).Solid() {
			c.A /= 2
		}
		r := ts.SourceRect(id)
		vector.FillRect(img, float32(r.Min.X), float32(r.Min.Y), float32(r.Dx()), float32(r.Dy()), c, false)
	}
	return img
}
