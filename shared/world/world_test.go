package world

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/automoto/tilecollide/shared/tileset"
)

type lookupMap map[string]*tileset.Tileset

func (m lookupMap) ByName(name string) (*tileset.Tileset, bool) {
	ts, ok := m[name]
	return ts, ok
}

const testTSX = `<?xml version="1.0" encoding="UTF-8"?>
<tileset version="1.10" tiledversion="1.11.2" name="Test" tilewidth="16" tileheight="16" tilecount="4" columns="2">
 <image source="test.png" width="32" height="32"/>
 <tile id="0">
  <properties>
   <property name="renderOnTop" type="bool" value="true"/>
  </properties>
  <objectgroup draworder="index" id="2">
   <object id="1" x="2" y="13" width="14" height="3"/>
  </objectgroup>
 </tile>
 <tile id="2">
  <objectgroup draworder="index" id="2">
   <object id="1" x="0" y="0" width="16" height="16"/>
  </objectgroup>
 </tile>
 <tile id="3">
  <properties>
   <property name="renderOnTop" type="bool" value="true"/>
  </properties>
 </tile>
</tileset>
`

const testTMX = `<?xml version="1.0" encoding="UTF-8"?>
<map version="1.10" tiledversion="1.11.2" orientation="orthogonal" renderorder="right-down" width="3" height="2" tilewidth="16" tileheight="16" infinite="0" nextlayerid="3" nextobjectid="1">
 <tileset firstgid="1" source="../tilesets/Test.tsx"/>
 <layer id="1" name="ground" width="3" height="2">
  <data encoding="csv">
1,0,3,
2,4,0
</data>
 </layer>
 <layer id="2" name="decor" width="3" height="2">
  <data encoding="csv">
0,0,0,
0,0,4
</data>
 </layer>
</map>
`

func loadTestTileset(t *testing.T) *tileset.Tileset {
	t.Helper()
	ts, err := tileset.Load(strings.NewReader(testTSX), "Test.tsx")
	if err != nil {
		t.Fatalf("load tileset: %v", err)
	}
	return ts
}

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"tilesets/Test.tsx": {Data: []byte(testTSX)},
		"maps/level.tmx":    {Data: []byte(testTMX)},
	}
}

func TestLoadMap(t *testing.T) {
	ts := loadTestTileset(t)

	w, err := LoadMap(testFS(), "maps/level.tmx", lookupMap{"Test": ts})
	if err != nil {
		t.Fatalf("LoadMap: %v", err)
	}

	if w.Width != 48 || w.Height != 32 {
		t.Fatalf("size = %dx%d, want 48x32", w.Width, w.Height)
	}
	if len(w.Layers) != 2 {
		t.Fatalf("layers = %d, want 2", len(w.Layers))
	}

	wantRects := []tileset.Rect{
		{X: 2, Y: 13, W: 14, H: 3},  // tile 0 at (0,0)
		{X: 32, Y: 0, W: 16, H: 16}, // tile 2 at (2,0)
	}
	if !reflect.DeepEqual(w.Rects, wantRects) {
		t.Fatalf("rects = %v, want %v", w.Rects, wantRects)
	}

	if want := wantRects[:1]; !reflect.DeepEqual(w.TopRects, want) {
		t.Errorf("top rects = %v, want %v", w.TopRects, want)
	}

	ground := w.Layers[0]
	if ground.Name != "ground" || len(ground.Cells) != 4 {
		t.Fatalf("ground layer = %+v", ground)
	}
	first := ground.Cells[0]
	if first.TileID != 0 || !first.RenderOnTop || first.Tileset != "Test" {
		t.Errorf("first cell = %+v", first)
	}

	space := w.Space(16)
	if !space.TestPoint(40, 8) {
		t.Errorf("solid tile at (2,0) not found in space")
	}
	if space.TestPoint(24, 24) {
		t.Errorf("tile 3 has no shapes but collided")
	}
}

func TestLoadMapUnknownTileset(t *testing.T) {
	_, err := LoadMap(testFS(), "maps/level.tmx", lookupMap{})
	if !errors.Is(err, ErrUnknownTileset) {
		t.Fatalf("err = %v, want ErrUnknownTileset", err)
	}
}

func TestLoadMapMissingFile(t *testing.T) {
	if _, err := LoadMap(testFS(), "maps/missing.tmx", lookupMap{}); err == nil {
		t.Fatalf("expected error for missing map")
	}
}

func writeTestMap(t *testing.T, root string) string {
	t.Helper()
	for name, data := range testFS() {
		p := filepath.Join(root, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, data.Data, 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return filepath.Join(root, "maps", "level.tmx")
}

func TestLoadMapFile(t *testing.T) {
	ts := loadTestTileset(t)
	root := t.TempDir()
	abs := writeTestMap(t, root)

	work := filepath.Join(root, "work")
	if err := os.Mkdir(work, 0o755); err != nil {
		t.Fatal(err)
	}
	t.Chdir(work)

	cases := map[string]string{
		"absolute": abs,
		"parent":   filepath.Join("..", "maps", "level.tmx"),
	}
	for name, p := range cases {
		t.Run(name, func(t *testing.T) {
			w, err := LoadMapFile(p, lookupMap{"Test": ts})
			if err != nil {
				t.Fatalf("LoadMapFile(%q): %v", p, err)
			}
			if len(w.Rects) != 2 || w.Width != 48 {
				t.Errorf("world = %d rects, width %d", len(w.Rects), w.Width)
			}
		})
	}
}

func TestPasses(t *testing.T) {
	ts := loadTestTileset(t)
	w := FromTileset(ts)

	base, top := w.Passes(0)
	ids := func(cells []Cell) []uint32 {
		out := make([]uint32, len(cells))
		for i, c := range cells {
			out[i] = c.TileID
		}
		return out
	}
	if got := ids(base); !reflect.DeepEqual(got, []uint32{1, 2}) {
		t.Errorf("base pass = %v, want [1 2]", got)
	}
	if got := ids(top); !reflect.DeepEqual(got, []uint32{0, 3}) {
		t.Errorf("top pass = %v, want [0 3]", got)
	}

	if b, tp := w.Passes(5); b != nil || tp != nil {
		t.Errorf("out of range layer returned cells")
	}
}

func TestFromProjectTileset(t *testing.T) {
	ts, err := tileset.LoadFile(os.DirFS("../../assets/tilesets"), "TilesetDesert.tsx")
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	w := FromTileset(ts)

	if w.Width != 320 || w.Height != 192 {
		t.Fatalf("sheet size = %dx%d", w.Width, w.Height)
	}
	if got := len(w.Rects); got != ts.Stats().Shapes {
		t.Fatalf("rects = %d, want %d", got, ts.Stats().Shapes)
	}
	if len(w.Layers[0].Cells) != ts.TileCount {
		t.Fatalf("cells = %d, want %d", len(w.Layers[0].Cells), ts.TileCount)
	}

	if got := len(w.TopRects); got == 0 || w.TopRects[0] != (tileset.Rect{X: 2, Y: 13, W: 14, H: 3}) {
		t.Errorf("top rects start with %v", w.TopRects)
	}

	// Tile 0 sits at the origin: (2,13,14,3).
	space := w.Space(16)
	if !space.TestPoint(3, 14) || space.TestPoint(1, 14) {
		t.Errorf("tile 0 collision footprint misplaced")
	}
}

func TestFlipApply(t *testing.T) {
	r := tileset.Rect{X: 2, Y: 13, W: 14, H: 3}
	cases := []struct {
		name string
		flip Flip
		want tileset.Rect
	}{
		{"none", Flip{}, r},
		{"horizontal", Flip{Horizontal: true}, tileset.Rect{X: 0, Y: 13, W: 14, H: 3}},
		{"vertical", Flip{Vertical: true}, tileset.Rect{X: 2, Y: 0, W: 14, H: 3}},
		{"diagonal", Flip{Diagonal: true}, tileset.Rect{X: 13, Y: 2, W: 3, H: 14}},
		{"rotate_90", Flip{Diagonal: true, Horizontal: true}, tileset.Rect{X: 0, Y: 2, W: 3, H: 14}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := c.flip.Apply(r, 16, 16); got != c.want {
				t.Errorf("Apply = %v, want %v", got, c.want)
			}
		})
	}
}

func TestCellsAt(t *testing.T) {
	ts := loadTestTileset(t)
	w, err := LoadMap(testFS(), "maps/level.tmx", lookupMap{"Test": ts})
	if err != nil {
		t.Fatalf("LoadMap: %v", err)
	}

	x, y := w.GridAt(40, 24)
	if x != 2 || y != 1 {
		t.Fatalf("GridAt(40, 24) = %d,%d, want 2,1", x, y)
	}
	cells := w.CellsAt(x, y)
	if len(cells) != 1 || cells[0].Layer != 1 || cells[0].TileID != 3 {
		t.Fatalf("CellsAt(2, 1) = %+v", cells)
	}
	if got := w.CellsAt(1, 0); len(got) != 0 {
		t.Errorf("CellsAt(1, 0) = %+v, want empty", got)
	}
	if x, y := w.GridAt(-1, -1); x != -1 || y != -1 {
		t.Errorf("GridAt(-1, -1) = %d,%d", x, y)
	}
}
