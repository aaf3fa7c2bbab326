package tileset

import (
	"errors"
	"os"
	"reflect"
	"strings"
	"testing"
	"testing/fstest"
)

const projectTilesets = "../../assets/tilesets"

func loadString(t *testing.T, doc string) (*Tileset, error) {
	t.Helper()
	return Load(strings.NewReader(doc), "test.tsx")
}

func mustLoad(t *testing.T, doc string) *Tileset {
	t.Helper()
	ts, err := loadString(t, doc)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	return ts
}

func header(body string) string {
	return `<?xml version="1.0" encoding="UTF-8"?>
<tileset version="1.10" tiledversion="1.11.2" name="Test" tilewidth="16" tileheight="16" tilecount="240" columns="20">
 <image source="test.png" width="320" height="192"/>
` + body + `
</tileset>`
}

func TestLoadDesertScenario(t *testing.T) {
	ts, err := LoadFile(os.DirFS(projectTilesets), "TilesetDesert.tsx")
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}

	if ts.Name != "TilesetDesert" || ts.Columns != 20 || ts.TileCount != 240 {
		t.Fatalf("unexpected header: %+v", ts)
	}
	if ts.TileWidth != 16 || ts.TileHeight != 16 {
		t.Fatalf("tile size = %dx%d, want 16x16", ts.TileWidth, ts.TileHeight)
	}
	if ts.Image.Width != 320 || ts.Image.Height != 192 {
		t.Fatalf("image size = %dx%d", ts.Image.Width, ts.Image.Height)
	}
	if ts.Rows() != 12 {
		t.Fatalf("Rows() = %d, want 12", ts.Rows())
	}

	zero := ts.Lookup(0)
	if !zero.RenderOnTop {
		t.Errorf("tile 0: RenderOnTop = false, want true")
	}
	want := []Rect{{X: 2, Y: 13, W: 14, H: 3}}
	if !reflect.DeepEqual(zero.Shapes, want) {
		t.Errorf("tile 0: shapes = %v, want %v", zero.Shapes, want)
	}

	three := ts.Lookup(3)
	if !three.RenderOnTop {
		t.Errorf("tile 3: RenderOnTop = false, want true")
	}
	if three.Shapes == nil || len(three.Shapes) != 0 {
		t.Errorf("tile 3: shapes = %#v, want empty non-nil", three.Shapes)
	}
	if three.HasShapeGroup() {
		t.Errorf("tile 3 has no objectgroup")
	}
}

func TestLoadPreservesDuplicateRects(t *testing.T) {
	ts, err := LoadFile(os.DirFS(projectTilesets), "TilesetDesert.tsx")
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}

	got := ts.Shapes(48)
	want := []Rect{{0, 0, 16, 16}, {0, 0, 16, 16}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("tile 48 shapes = %v, want %v", got, want)
	}
}

func TestLoadFractionalAndBleedingShapes(t *testing.T) {
	ts, err := LoadFile(os.DirFS(projectTilesets), "TilesetElement.tsx")
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}

	got := ts.Shapes(1)
	want := []Rect{{X: 1.21739, Y: 0.0869565, W: 13.4783, H: 15.6957}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("tile 1 shapes = %v, want %v", got, want)
	}

	var negative bool
	for _, rec := range ts.Records() {
		for _, r := range rec.Shapes {
			if r.X < 0 || r.Y < 0 {
				negative = true
			}
		}
	}
	if !negative {
		t.Fatalf("expected at least one shape bleeding outside its tile")
	}
}

func TestLoadAllProjectTilesets(t *testing.T) {
	tilesets, names, err := LoadAll(os.DirFS(projectTilesets), ".")
	if err != nil {
		t.Fatalf("LoadAll: %v", err)
	}

	wantNames := []string{"TilesetDesert", "TilesetElement", "TilesetNature"}
	if !reflect.DeepEqual(names, wantNames) {
		t.Fatalf("names = %v, want %v", names, wantNames)
	}

	for _, name := range names {
		ts := tilesets[name]
		if ts.TileCount != ts.Columns*ts.Rows() {
			t.Errorf("%s: tilecount %d != %d*%d", name, ts.TileCount, ts.Columns, ts.Rows())
		}
		for _, id := range ts.IDs() {
			if int(id) >= ts.TileCount {
				t.Errorf("%s: id %d out of range", name, id)
			}
		}
		if ts.Stats().Records == 0 {
			t.Errorf("%s: no records", name)
		}
	}
}

func TestLoadAllEmptyDir(t *testing.T) {
	fsys := fstest.MapFS{"tilesets/readme.txt": {Data: []byte("nothing")}}
	if _, _, err := LoadAll(fsys, "tilesets"); err == nil {
		t.Fatalf("expected error for directory without tilesets")
	}
}

func TestLookupUndeclaredTile(t *testing.T) {
	ts := mustLoad(t, header(`<tile id="0"><objectgroup><object x="1" y="1" width="2" height="2"/></objectgroup></tile>`))

	for _, id := range []uint32{1, 5, 239, 10000} {
		rec := ts.Lookup(id)
		if rec.RenderOnTop || len(rec.Shapes) != 0 || rec.Solid() {
			t.Errorf("Lookup(%d) = %+v, want default record", id, rec)
		}
		if ts.Has(id) || ts.RenderOnTop(id) || len(ts.Shapes(id)) != 0 {
			t.Errorf("tile %d should have no record", id)
		}
		if rec.Shapes == nil || ts.Shapes(id) == nil {
			t.Errorf("tile %d shapes are nil, want empty", id)
		}
	}
}

func TestLookupReturnsCopies(t *testing.T) {
	ts := mustLoad(t, header(`<tile id="2"><objectgroup><object x="1" y="1" width="2" height="2"/></objectgroup></tile>`))

	rec := ts.Lookup(2)
	rec.Shapes[0].X = 99
	shapes := ts.Shapes(2)
	shapes[0].Y = 99

	if got := ts.Shapes(2)[0]; got != (Rect{1, 1, 2, 2}) {
		t.Fatalf("table mutated through returned slice: %v", got)
	}
}

func TestLoadShapeGroups(t *testing.T) {
	cases := []struct {
		name       string
		body       string
		id         uint32
		wantShapes []Rect
		wantGroup  bool
		wantTop    bool
	}{
		{
			name:       "empty_group",
			body:       `<tile id="4"><objectgroup draworder="index" id="2"/></tile>`,
			id:         4,
			wantShapes: []Rect{},
			wantGroup:  true,
		},
		{
			name:       "no_group",
			body:       `<tile id="4"><properties><property name="other" value="x"/></properties></tile>`,
			id:         4,
			wantShapes: []Rect{},
		},
		{
			name:       "omitted_attributes_default_to_zero",
			body:       `<tile id="7"><objectgroup><object id="1" width="5"/></objectgroup></tile>`,
			id:         7,
			wantShapes: []Rect{{X: 0, Y: 0, W: 5, H: 0}},
			wantGroup:  true,
		},
		{
			name: "declaration_order",
			body: `<tile id="9"><objectgroup>
				<object id="4" x="2" y="7" width="14" height="8"/>
				<object id="1" x="2" y="0" width="14" height="7"/>
			</objectgroup></tile>`,
			id:         9,
			wantShapes: []Rect{{2, 7, 14, 8}, {2, 0, 14, 7}},
			wantGroup:  true,
		},
		{
			name: "non_rectangles_skipped",
			body: `<tile id="1"><objectgroup>
				<object id="1" x="0" y="0" width="4" height="4"><ellipse/></object>
				<object id="2" x="1" y="1"><polygon points="0,0 4,0 4,4"/></object>
				<object id="3" x="2" y="2" width="3" height="3"/>
			</objectgroup></tile>`,
			id:         1,
			wantShapes: []Rect{{2, 2, 3, 3}},
			wantGroup:  true,
		},
		{
			name: "render_on_top_false",
			body: `<tile id="3"><properties>
				<property name="renderOnTop" type="bool" value="false"/>
			</properties></tile>`,
			id:         3,
			wantShapes: []Rect{},
		},
		{
			name: "render_on_top_requires_bool_type",
			body: `<tile id="3"><properties>
				<property name="renderOnTop" value="true"/>
			</properties></tile>`,
			id:         3,
			wantShapes: []Rect{},
		},
		{
			name: "unknown_properties_ignored",
			body: `<tile id="3"><properties>
				<property name="groupId" value="house1"/>
				<property name="slope" type="string" value="45_up_right"/>
				<property name="renderOnTop" type="bool" value="true"/>
			</properties><animation><frame tileid="3" duration="100"/></animation></tile>`,
			id:         3,
			wantShapes: []Rect{},
			wantTop:    true,
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			ts := mustLoad(t, header(c.body))
			rec := ts.Lookup(c.id)
			if !reflect.DeepEqual(rec.Shapes, c.wantShapes) {
				t.Errorf("shapes = %#v, want %#v", rec.Shapes, c.wantShapes)
			}
			if rec.HasShapeGroup() != c.wantGroup {
				t.Errorf("HasShapeGroup() = %v, want %v", rec.HasShapeGroup(), c.wantGroup)
			}
			if rec.RenderOnTop != c.wantTop {
				t.Errorf("RenderOnTop = %v, want %v", rec.RenderOnTop, c.wantTop)
			}
			if rec.Solid() {
				if len(c.wantShapes) == 0 {
					t.Errorf("tile without shapes reports solid")
				}
			}
		})
	}
}

func TestLoadSkippedObjectsCounted(t *testing.T) {
	ts := mustLoad(t, header(`<tile id="1"><objectgroup>
		<object id="1" x="0" y="0"><point/></object>
		<object id="2" gid="5" x="0" y="16" width="16" height="16"/>
	</objectgroup></tile>`))

	if got := ts.Stats().SkippedObjects; got != 2 {
		t.Fatalf("SkippedObjects = %d, want 2", got)
	}
}

func TestLoadErrors(t *testing.T) {
	cases := []struct {
		name     string
		doc      string
		kind     error
		wantTile int64
		wantAttr string
	}{
		{
			name:     "not_xml",
			doc:      "this is not a tileset",
			kind:     ErrMalformedDocument,
			wantTile: -1,
		},
		{
			name:     "truncated",
			doc:      `<tileset tilewidth="16" tileheight="16" tilecount="4" columns="2"><image source="a.png"/><tile id="0">`,
			kind:     ErrMalformedDocument,
			wantTile: 0,
		},
		{
			name:     "wrong_root",
			doc:      `<map width="10" height="10"/>`,
			kind:     ErrMalformedDocument,
			wantTile: -1,
		},
		{
			name:     "missing_columns",
			doc:      `<tileset tilewidth="16" tileheight="16" tilecount="4"><image source="a.png"/></tileset>`,
			kind:     ErrMalformedDocument,
			wantTile: -1,
		},
		{
			name:     "missing_image",
			doc:      `<tileset tilewidth="16" tileheight="16" tilecount="4" columns="2"></tileset>`,
			kind:     ErrMalformedDocument,
			wantTile: -1,
		},
		{
			name:     "partial_row",
			doc:      `<tileset tilewidth="16" tileheight="16" tilecount="5" columns="2"><image source="a.png"/></tileset>`,
			kind:     ErrMalformedDocument,
			wantTile: -1,
		},
		{
			name:     "two_objectgroups",
			doc:      header(`<tile id="6"><objectgroup/><objectgroup/></tile>`),
			kind:     ErrMalformedDocument,
			wantTile: 6,
		},
		{
			name:     "tile_without_id",
			doc:      header(`<tile><objectgroup/></tile>`),
			kind:     ErrMalformedDocument,
			wantTile: -1,
		},
		{
			name:     "duplicate_id",
			doc:      header(`<tile id="12"/><tile id="13"/><tile id="12"/>`),
			kind:     ErrDuplicateTileID,
			wantTile: 12,
			wantAttr: "id",
		},
		{
			name:     "non_numeric_width",
			doc:      header(`<tile id="8"><objectgroup><object x="0" y="0" width="wide" height="2"/></objectgroup></tile>`),
			kind:     ErrInvalidAttribute,
			wantTile: 8,
			wantAttr: "width",
		},
		{
			name:     "negative_height",
			doc:      header(`<tile id="8"><objectgroup><object height="-2"/></objectgroup></tile>`),
			kind:     ErrInvalidAttribute,
			wantTile: 8,
			wantAttr: "height",
		},
		{
			name:     "nan_x",
			doc:      header(`<tile id="8"><objectgroup><object x="NaN"/></objectgroup></tile>`),
			kind:     ErrInvalidAttribute,
			wantTile: 8,
			wantAttr: "x",
		},
		{
			name:     "negative_id",
			doc:      header(`<tile id="-1"/>`),
			kind:     ErrInvalidAttribute,
			wantTile: -1,
			wantAttr: "id",
		},
		{
			name:     "id_out_of_range",
			doc:      header(`<tile id="240"/>`),
			kind:     ErrInvalidAttribute,
			wantTile: 240,
			wantAttr: "id",
		},
		{
			name:     "non_numeric_tilecount",
			doc:      `<tileset tilewidth="16" tileheight="16" tilecount="many" columns="2"><image source="a.png"/></tileset>`,
			kind:     ErrInvalidAttribute,
			wantTile: -1,
			wantAttr: "tilecount",
		},
		{
			name:     "bad_bool",
			doc:      header(`<tile id="2"><properties><property name="renderOnTop" type="bool" value="yes"/></properties></tile>`),
			kind:     ErrInvalidAttribute,
			wantTile: 2,
			wantAttr: "value",
		},
		{
			name:     "second_root",
			doc:      header("") + `<tileset/>`,
			kind:     ErrMalformedDocument,
			wantTile: -1,
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			ts, err := loadString(t, c.doc)
			if err == nil {
				t.Fatalf("expected error, got tileset %+v", ts)
			}
			if ts != nil {
				t.Fatalf("partial table returned alongside error")
			}
			if !errors.Is(err, c.kind) {
				t.Fatalf("error %v is not %v", err, c.kind)
			}

			var le *LoadError
			if !errors.As(err, &le) {
				t.Fatalf("error %T is not a *LoadError", err)
			}
			if le.Document != "test.tsx" {
				t.Errorf("Document = %q", le.Document)
			}
			if le.TileID != c.wantTile {
				t.Errorf("TileID = %d, want %d", le.TileID, c.wantTile)
			}
			if le.HasTile() != (c.wantTile >= 0) {
				t.Errorf("HasTile() = %v for tile %d", le.HasTile(), le.TileID)
			}
			if le.Attr != c.wantAttr {
				t.Errorf("Attr = %q, want %q", le.Attr, c.wantAttr)
			}
			if !strings.Contains(err.Error(), "test.tsx") {
				t.Errorf("error message lacks document name: %s", err)
			}
		})
	}
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile(fstest.MapFS{}, "missing.tsx")
	if err == nil {
		t.Fatalf("expected error")
	}
	var le *LoadError
	if errors.As(err, &le) {
		t.Fatalf("open failure should not be a LoadError: %v", err)
	}
}

func TestSourceRect(t *testing.T) {
	ts := mustLoad(t, `<tileset tilewidth="16" tileheight="8" tilecount="6" columns="3" spacing="2" margin="1"><image source="a.png"/></tileset>`)

	cases := []struct {
		id       uint32
		col, row int
		x, y     int
	}{
		{0, 0, 0, 1, 1},
		{2, 2, 0, 37, 1},
		{4, 1, 1, 19, 11},
	}
	for _, c := range cases {
		col, row := ts.Position(c.id)
		if col != c.col || row != c.row {
			t.Errorf("Position(%d) = (%d,%d), want (%d,%d)", c.id, col, row, c.col, c.row)
		}
		r := ts.SourceRect(c.id)
		if r.Min.X != c.x || r.Min.Y != c.y || r.Dx() != 16 || r.Dy() != 8 {
			t.Errorf("SourceRect(%d) = %v", c.id, r)
		}
	}
}
