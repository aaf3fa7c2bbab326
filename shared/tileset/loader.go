package tileset

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math"
	"path"
	"sort"
	"strconv"
	"strings"
)

// renderOnTopProperty is the boolean tile property controlling draw order.
const renderOnTopProperty = "renderOnTop"

// Load parses one tileset document. name identifies the document in errors.
// Either the whole table is returned or a *LoadError and no table.
func Load(r io.Reader, name string) (*Tileset, error) {
	d := &decoder{
		dec:  xml.NewDecoder(r),
		doc:  name,
		tile: noTile,
	}
	ts, err := d.decode()
	if err != nil {
		return nil, err
	}
	return ts, nil
}

// LoadFile parses the tileset at path inside fsys. It takes an fs.FS so
// callers can pass embed.FS or os.DirFS.
func LoadFile(fsys fs.FS, path string) (*Tileset, error) {
	f, err := fsys.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open tileset %s: %w", path, err)
	}
	defer f.Close()

	return Load(f, path)
}

// LoadAll loads every .tsx file in dir, returning the tilesets keyed by file
// stem plus the sorted list of stems.
func LoadAll(fsys fs.FS, dir string) (map[string]*Tileset, []string, error) {
	pattern := path.Join(dir, "*.tsx")
	matches, err := fs.Glob(fsys, pattern)
	if err != nil {
		return nil, nil, fmt.Errorf("glob %s: %w", pattern, err)
	}
	if len(matches) == 0 {
		return nil, nil, fmt.Errorf("no .tsx files found in %s", dir)
	}

	tilesets := make(map[string]*Tileset, len(matches))
	names := make([]string, 0, len(matches))
	for _, p := range matches {
		ts, err := LoadFile(fsys, p)
		if err != nil {
			return nil, nil, fmt.Errorf("load %s: %w", p, err)
		}
		stem := strings.TrimSuffix(path.Base(p), ".tsx")
		tilesets[stem] = ts
		names = append(names, stem)
	}

	sort.Strings(names)
	return tilesets, names, nil
}

type decoder struct {
	dec  *xml.Decoder
	doc  string
	tile int64

	ts       *Tileset
	hasImage bool
}

func (d *decoder) decode() (*Tileset, error) {
	root, err := d.root()
	if err != nil {
		return nil, err
	}
	if err := d.header(root); err != nil {
		return nil, err
	}

	err = d.children(func(el xml.StartElement) error {
		switch el.Name.Local {
		case "image":
			return d.image(el)
		case "tile":
			return d.tileEntry(el)
		default:
			return d.dec.Skip()
		}
	})
	if err != nil {
		return nil, err
	}

	if err := d.trailer(); err != nil {
		return nil, err
	}
	if err := d.validate(); err != nil {
		return nil, err
	}
	return d.ts, nil
}

// root advances to the document element, which must be <tileset>.
func (d *decoder) root() (xml.StartElement, error) {
	for {
		tok, err := d.dec.Token()
		if errors.Is(err, io.EOF) {
			return xml.StartElement{}, d.malformed(errors.New("no root element"))
		}
		if err != nil {
			return xml.StartElement{}, d.malformed(err)
		}
		el, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		if el.Name.Local != "tileset" {
			return xml.StartElement{}, d.malformed(fmt.Errorf("root element is <%s>, want <tileset>", el.Name.Local))
		}
		return el, nil
	}
}

// trailer consumes what follows the root element; only comments, processing
// instructions and whitespace may remain.
func (d *decoder) trailer() error {
	for {
		tok, err := d.dec.Token()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return d.malformed(err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			return d.malformed(fmt.Errorf("unexpected element <%s> after root", t.Name.Local))
		case xml.CharData:
			if len(strings.TrimSpace(string(t))) > 0 {
				return d.malformed(errors.New("text after root element"))
			}
		}
	}
}

func (d *decoder) header(el xml.StartElement) error {
	d.ts = &Tileset{
		index: make(map[uint32]int),
	}
	d.ts.Name, _ = attr(el, "name")

	var err error
	if d.ts.TileWidth, err = d.intAttr(el, "tilewidth", true); err != nil {
		return err
	}
	if d.ts.TileHeight, err = d.intAttr(el, "tileheight", true); err != nil {
		return err
	}
	if d.ts.TileCount, err = d.intAttr(el, "tilecount", true); err != nil {
		return err
	}
	if d.ts.Columns, err = d.intAttr(el, "columns", true); err != nil {
		return err
	}
	if d.ts.Spacing, err = d.intAttr(el, "spacing", false); err != nil {
		return err
	}
	if d.ts.Margin, err = d.intAttr(el, "margin", false); err != nil {
		return err
	}
	return nil
}

func (d *decoder) validate() error {
	ts := d.ts
	if !d.hasImage {
		return d.malformed(errors.New("missing <image> element"))
	}
	if ts.Columns <= 0 || ts.TileCount <= 0 || ts.TileCount%ts.Columns != 0 {
		return d.malformed(fmt.Errorf("tilecount %d is not a whole number of rows of %d columns", ts.TileCount, ts.Columns))
	}
	for _, rec := range ts.records {
		if int(rec.ID) >= ts.TileCount {
			d.tile = int64(rec.ID)
			return d.invalid("id", fmt.Errorf("id out of range [0, %d)", ts.TileCount))
		}
	}
	return nil
}

func (d *decoder) image(el xml.StartElement) error {
	if d.hasImage {
		return d.malformed(errors.New("more than one <image> element"))
	}
	src, ok := attr(el, "source")
	if !ok || src == "" {
		return d.malformed(errors.New("<image> without source"))
	}
	w, err := d.intAttr(el, "width", false)
	if err != nil {
		return err
	}
	h, err := d.intAttr(el, "height", false)
	if err != nil {
		return err
	}
	d.ts.Image = Image{Source: src, Width: w, Height: h}
	d.hasImage = true
	return d.dec.Skip()
}

func (d *decoder) tileEntry(el xml.StartElement) error {
	raw, ok := attr(el, "id")
	if !ok {
		return d.malformed(errors.New("<tile> without id"))
	}
	id, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 32)
	if err != nil {
		return d.invalid("id", err)
	}
	d.tile = int64(id)
	defer func() { d.tile = noTile }()

	if _, dup := d.ts.index[uint32(id)]; dup {
		return &LoadError{Document: d.doc, TileID: d.tile, Attr: "id", Kind: ErrDuplicateTileID}
	}

	rec := TileRecord{ID: uint32(id)}
	err = d.children(func(child xml.StartElement) error {
		switch child.Name.Local {
		case "properties":
			return d.properties(&rec)
		case "objectgroup":
			if rec.hasShapeGroup {
				return d.malformed(errors.New("more than one <objectgroup>"))
			}
			rec.hasShapeGroup = true
			return d.objectGroup(&rec)
		default:
			return d.dec.Skip()
		}
	})
	if err != nil {
		return err
	}

	if rec.Shapes == nil {
		rec.Shapes = []Rect{}
	}
	d.ts.index[rec.ID] = len(d.ts.records)
	d.ts.records = append(d.ts.records, rec)
	return nil
}

func (d *decoder) properties(rec *TileRecord) error {
	return d.children(func(el xml.StartElement) error {
		if el.Name.Local != "property" {
			return d.dec.Skip()
		}
		name, _ := attr(el, "name")
		kind, _ := attr(el, "type")
		if name == renderOnTopProperty && kind == "bool" {
			v, _ := attr(el, "value")
			on, err := strconv.ParseBool(strings.TrimSpace(v))
			if err != nil {
				return d.invalid("value", err)
			}
			rec.RenderOnTop = on
		}
		return d.dec.Skip()
	})
}

func (d *decoder) objectGroup(rec *TileRecord) error {
	return d.children(func(el xml.StartElement) error {
		if el.Name.Local != "object" {
			return d.dec.Skip()
		}
		r, err := d.rect(el)
		if err != nil {
			return err
		}

		rectangle := true
		if _, ok := attr(el, "gid"); ok {
			rectangle = false
		}
		err = d.children(func(child xml.StartElement) error {
			switch child.Name.Local {
			case "ellipse", "point", "polygon", "polyline", "text":
				rectangle = false
			}
			return d.dec.Skip()
		})
		if err != nil {
			return err
		}

		if !rectangle {
			d.ts.skipped++
			return nil
		}
		rec.Shapes = append(rec.Shapes, r)
		return nil
	})
}

func (d *decoder) rect(el xml.StartElement) (Rect, error) {
	var r Rect
	var err error
	if r.X, err = d.floatAttr(el, "x"); err != nil {
		return r, err
	}
	if r.Y, err = d.floatAttr(el, "y"); err != nil {
		return r, err
	}
	if r.W, err = d.floatAttr(el, "width"); err != nil {
		return r, err
	}
	if r.H, err = d.floatAttr(el, "height"); err != nil {
		return r, err
	}
	if r.W < 0 {
		return r, d.invalid("width", errors.New("negative size"))
	}
	if r.H < 0 {
		return r, d.invalid("height", errors.New("negative size"))
	}
	return r, nil
}

// children calls fn for each child element of the element whose start tag
// was just read, returning after its end tag. fn must consume the child.
func (d *decoder) children(fn func(xml.StartElement) error) error {
	for {
		tok, err := d.dec.Token()
		if errors.Is(err, io.EOF) {
			return d.malformed(io.ErrUnexpectedEOF)
		}
		if err != nil {
			return d.malformed(err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if err := fn(t); err != nil {
				return d.wrapSyntax(err)
			}
		case xml.EndElement:
			return nil
		}
	}
}

func (d *decoder) intAttr(el xml.StartElement, name string, required bool) (int, error) {
	raw, ok := attr(el, name)
	if !ok {
		if required {
			return 0, d.malformed(fmt.Errorf("<%s> missing %s", el.Name.Local, name))
		}
		return 0, nil
	}
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, d.invalid(name, err)
	}
	if v < 0 {
		return 0, d.invalid(name, errors.New("negative value"))
	}
	return v, nil
}

// floatAttr reads an optional coordinate; omitted attributes are 0.
func (d *decoder) floatAttr(el xml.StartElement, name string) (float64, error) {
	raw, ok := attr(el, name)
	if !ok {
		return 0, nil
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, d.invalid(name, err)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, d.invalid(name, errors.New("not a finite number"))
	}
	return v, nil
}

func (d *decoder) malformed(err error) error {
	return &LoadError{Document: d.doc, TileID: d.tile, Kind: ErrMalformedDocument, Err: err}
}

func (d *decoder) invalid(name string, err error) error {
	return &LoadError{Document: d.doc, TileID: d.tile, Attr: name, Kind: ErrInvalidAttribute, Err: err}
}

// wrapSyntax converts bare decoder errors surfacing from Skip into
// MalformedDocument errors; LoadErrors pass through.
func (d *decoder) wrapSyntax(err error) error {
	var le *LoadError
	if errors.As(err, &le) {
		return err
	}
	if errors.Is(err, io.EOF) {
		err = io.ErrUnexpectedEOF
	}
	return d.malformed(err)
}

func attr(el xml.StartElement, name string) (string, bool) {
	for _, a := range el.Attr {
		if a.Name.Local == name {
			return a.Value, true
		}
	}
	return "", false
}
